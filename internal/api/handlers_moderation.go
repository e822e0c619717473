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

// PendingMarkers handles GET /api/v1/moderation/pending. Oldest first so
// the queue drains fairly.
func (h *Handler) PendingMarkers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	markers, total, err := h.authority.Pending(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if markers == nil {
		markers = []*models.Marker{}
	}
	NewResponseWriter(w, r).SuccessWithPagination(markers,
		paginationFor(total, len(markers), offset, limit))
}

// ApproveMarker handles POST /api/v1/moderation/markers/{id}/approve.
func (h *Handler) ApproveMarker(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.ActionApprove)
}

// RejectMarker handles POST /api/v1/moderation/markers/{id}/reject.
func (h *Handler) RejectMarker(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.ActionReject)
}

// ResolveMarker handles POST /api/v1/moderation/markers/{id}/resolve.
// The resolution report is mandatory.
func (h *Handler) ResolveMarker(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.authority.Transition(r.Context(), actor, chi.URLParam(r, "id"),
		models.ActionResolve, req.Report)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(m)
}

// transition applies approve or reject with an optional note.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action models.ModerationAction) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req moderationActionRequest
	// An empty body is fine for approve/reject.
	if r.ContentLength > 0 {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	}

	m, err := h.authority.Transition(r.Context(), actor, chi.URLParam(r, "id"), action, req.Note)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(m)
}

// ModerationHistory handles GET /api/v1/moderation/markers/{id}/history.
func (h *Handler) ModerationHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.authority.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []*models.ModerationRecord{}
	}
	NewResponseWriter(w, r).Success(records)
}

// MyModerationStats handles GET /api/v1/moderation/stats/me.
func (h *Handler) MyModerationStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	stats, err := h.authority.ActorStats(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}
