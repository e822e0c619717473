// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narcomap/narcomap/internal/models"
)

// ListUsers handles GET /api/v1/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	users, total, err := h.db.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	NewResponseWriter(w, r).SuccessWithPagination(users,
		paginationFor(total, len(users), offset, limit))
}

// GetUser handles GET /api/v1/admin/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.db.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// UpdateUser handles PATCH /api/v1/admin/users/{id}. Role assignment only.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Role == nil {
		NewResponseWriter(w, r).BadRequest("nothing to update")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.db.UpdateUserRole(r.Context(), id, models.Role(*req.Role)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	user, err := h.db.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// DeactivateUser handles DELETE /api/v1/admin/users/{id}. Accounts are
// soft-deleted; their markers and moderation records stay for the audit
// trail.
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if id == actor.ID {
		NewResponseWriter(w, r).BadRequest("cannot deactivate your own account")
		return
	}

	if err := h.db.DeactivateUser(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// AdminStats handles GET /api/v1/admin/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	markerStats, err := h.markers.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	userCount, err := h.db.CountUsers(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"markers": markerStats,
		"users":   map[string]int64{"total": userCount},
	})
}
