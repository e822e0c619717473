// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"
	"time"

	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/moderation"
	"github.com/narcomap/narcomap/internal/models"
)

// Handler bundles the services behind the HTTP surface. Endpoint
// implementations are split across the handlers_*.go files by area.
type Handler struct {
	db        *database.DB
	markers   *marker.Service
	authority *moderation.Authority
	otp       *auth.OTPService
	jwt       *auth.JWTManager
	cfg       *config.Config
	startTime time.Time
}

// NewHandler wires the handler to its collaborators.
func NewHandler(db *database.DB, markers *marker.Service, authority *moderation.Authority,
	otp *auth.OTPService, jwt *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		markers:   markers,
		authority: authority,
		otp:       otp,
		jwt:       jwt,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// mustActor returns the authenticated actor or writes 401. Routes behind
// Authenticate always have one; the guard covers misconfigured wiring.
func mustActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("authentication required")
	}
	return actor, ok
}
