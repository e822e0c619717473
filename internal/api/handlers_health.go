// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"
	"time"
)

// Health handles GET /health: database ping plus uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	body := map[string]interface{}{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}
	if status != "ok" {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable,
			ErrCodeDatabaseError, "database unreachable", body)
		return
	}
	NewResponseWriter(w, r).Success(body)
}

// Liveness handles GET /health/live. Process is up; nothing else checked.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Ready means the database answers.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable,
			ErrCodeDatabaseError, "database unreachable")
		return
	}
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
