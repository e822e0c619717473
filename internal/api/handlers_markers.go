// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/models"
)

// CreateMarker handles POST /api/v1/markers.
func (h *Handler) CreateMarker(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req createMarkerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.markers.Create(r.Context(), actor.ID, marker.CreateInput{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Type:        models.MarkerType(req.Type),
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(m)
}

// ListMarkers handles GET /api/v1/markers. Unprivileged callers only ever
// see approved and resolved markers, whatever they filter for.
func (h *Handler) ListMarkers(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	q, err := parseListQuery(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if q.OwnerID == "me" {
		q.OwnerID = actor.ID
	}

	markers, total, err := h.markers.List(r.Context(), actor, q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if markers == nil {
		markers = []*models.Marker{}
	}
	NewResponseWriter(w, r).SuccessWithPagination(markers,
		paginationFor(total, len(markers), q.Offset, q.Limit))
}

// GetMarker handles GET /api/v1/markers/{id}.
func (h *Handler) GetMarker(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	m, err := h.markers.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(m)
}

// UpdateMarker handles PATCH /api/v1/markers/{id}. Only description and
// address are editable; status never changes here.
func (h *Handler) UpdateMarker(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req updateMarkerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Description == nil && req.Address == nil {
		NewResponseWriter(w, r).BadRequest("nothing to update")
		return
	}

	m, err := h.markers.Update(r.Context(), actor, chi.URLParam(r, "id"),
		req.Description, req.Address)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(m)
}

// DeleteMarker handles DELETE /api/v1/markers/{id}.
func (h *Handler) DeleteMarker(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	if err := h.markers.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// AttachPhoto handles POST /api/v1/markers/{id}/photo (multipart form,
// field "photo"). A storage outage yields 503 and leaves the marker as it
// was; the client may retry the upload alone.
func (h *Handler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	maxBytes := h.cfg.Media.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		NewResponseWriter(w, r).BadRequest("malformed multipart upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		NewResponseWriter(w, r).BadRequest("missing photo field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		NewResponseWriter(w, r).BadRequest("reading upload failed")
		return
	}

	m, err := h.markers.AttachPhoto(r.Context(), actor, chi.URLParam(r, "id"),
		header.Filename, int64(len(data)), data)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(m)
}

// MarkerStats handles GET /api/v1/markers/stats.
func (h *Handler) MarkerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.markers.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}
