// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"
)

// Me handles GET /api/v1/users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	user, err := h.db.GetUser(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// UpdateMe handles PATCH /api/v1/users/me. Only the display name is
// editable; roles change through the admin surface.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req updateMeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Name == nil {
		NewResponseWriter(w, r).BadRequest("nothing to update")
		return
	}

	if err := h.db.UpdateUserName(r.Context(), actor.ID, *req.Name); err != nil {
		respondServiceError(w, r, err)
		return
	}
	user, err := h.db.GetUser(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// MyStats handles GET /api/v1/users/me/stats.
func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	stats, err := h.markers.OwnerStats(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}
