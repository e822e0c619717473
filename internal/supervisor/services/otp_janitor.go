// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package services

import (
	"context"
	"time"

	"github.com/narcomap/narcomap/internal/logging"
)

// OTPPurger is the slice of the database the janitor needs.
type OTPPurger interface {
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}

// OTPJanitor periodically deletes expired one-time codes so the table
// does not grow without bound.
type OTPJanitor struct {
	store    OTPPurger
	interval time.Duration
}

// NewOTPJanitor builds the janitor. A non-positive interval defaults to
// ten minutes.
func NewOTPJanitor(store OTPPurger, interval time.Duration) *OTPJanitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &OTPJanitor{store: store, interval: interval}
}

// Serve implements suture.Service.
func (j *OTPJanitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := j.store.PurgeExpiredOTPs(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("otp purge failed")
				continue
			}
			if n > 0 {
				logging.Debug().Int64("purged", n).Msg("expired otp codes removed")
			}
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (j *OTPJanitor) String() string {
	return "otp-janitor"
}
