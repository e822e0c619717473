// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package metrics defines the Prometheus instrumentation surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts API requests by method, route pattern, and
	// status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narcomap_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration observes request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narcomap_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests gauges in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "narcomap_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// MarkersCreatedTotal counts accepted marker creations by type.
	MarkersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narcomap_markers_created_total",
			Help: "Total markers created, by marker type",
		},
		[]string{"type"},
	)

	// MarkersRejectedTotal counts refused creations by reason
	// (validation, duplicate, quota).
	MarkersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narcomap_markers_rejected_total",
			Help: "Total marker creations refused, by reason",
		},
		[]string{"reason"},
	)

	// ModerationActionsTotal counts applied transitions by action.
	ModerationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narcomap_moderation_actions_total",
			Help: "Total moderation actions applied, by action",
		},
		[]string{"action"},
	)

	// OTPIssuedTotal counts one-time codes issued.
	OTPIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narcomap_otp_issued_total",
			Help: "Total one-time login codes issued",
		},
	)

	// OTPVerifyFailuresTotal counts failed OTP verifications.
	OTPVerifyFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narcomap_otp_verify_failures_total",
			Help: "Total failed one-time code verifications",
		},
	)

	// MediaUploadBytes observes accepted photo sizes.
	MediaUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narcomap_media_upload_bytes",
			Help:    "Size distribution of accepted photo uploads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// RecordAPIRequest records one completed request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
