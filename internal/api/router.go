// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/middleware"
	"github.com/narcomap/narcomap/internal/models"
)

// NewRouter assembles the full HTTP surface. Route groups carry their own
// rate-limit tier and authentication requirements.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(SecurityHeaders)
	r.Use(middleware.Prometheus)

	// Health and metrics sit outside /api/v1 with a generous limit so
	// probes and scrapers never hit 429.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitHealth())
		r.Get("/health", h.Health)
		r.Get("/health/live", h.Liveness)
		r.Get("/health/ready", h.Readiness)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Login flow: unauthenticated, tight limits.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitOTP())
			r.Post("/auth/request-otp", h.RequestOTP)
		})
		r.Group(func(r chi.Router) {
			r.Use(RateLimitLogin())
			r.Post("/auth/verify-otp", h.VerifyOTP)
			r.Post("/auth/refresh", h.Refresh)
		})

		// Static icons: public, read-only.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitDefault())
			r.Get("/icons/marker/{color}", h.MarkerIcon)
			r.Get("/icons/cluster.svg", h.ClusterIcon)
		})

		// Markers: authenticated reads and writes.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitDefault())
			r.Use(Authenticate(jwtManager))
			r.Get("/markers", h.ListMarkers)
			r.Get("/markers/stats", h.MarkerStats)
			r.Get("/markers/{id}", h.GetMarker)

			r.Group(func(r chi.Router) {
				r.Use(RateLimitWrite())
				r.Post("/markers", h.CreateMarker)
				r.Patch("/markers/{id}", h.UpdateMarker)
				r.Delete("/markers/{id}", h.DeleteMarker)
				r.Post("/markers/{id}/photo", h.AttachPhoto)
			})

			r.Get("/users/me", h.Me)
			r.Patch("/users/me", h.UpdateMe)
			r.Get("/users/me/stats", h.MyStats)
		})

		// Moderation: privileged roles only. The transition table inside
		// the authority still decides which role may do what.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitDefault())
			r.Use(Authenticate(jwtManager))
			r.Use(RequireRoles(models.RoleModerator, models.RolePolice, models.RoleAdmin))
			r.Get("/moderation/pending", h.PendingMarkers)
			r.Get("/moderation/markers/{id}/history", h.ModerationHistory)
			r.Get("/moderation/stats/me", h.MyModerationStats)
			r.Post("/moderation/markers/{id}/approve", h.ApproveMarker)
			r.Post("/moderation/markers/{id}/reject", h.RejectMarker)
			r.Post("/moderation/markers/{id}/resolve", h.ResolveMarker)
		})

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitDefault())
			r.Use(Authenticate(jwtManager))
			r.Use(RequireRoles(models.RoleAdmin))
			r.Get("/admin/users", h.ListUsers)
			r.Get("/admin/users/{id}", h.GetUser)
			r.Patch("/admin/users/{id}", h.UpdateUser)
			r.Delete("/admin/users/{id}", h.DeactivateUser)
			r.Get("/admin/stats", h.AdminStats)
		})
	})

	return r
}
