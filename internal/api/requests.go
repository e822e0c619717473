// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/models"
	"github.com/narcomap/narcomap/internal/validation"
)

// maxBodyBytes caps JSON request bodies. Photo uploads have their own
// limit from media config.
const maxBodyBytes = 64 << 10

type requestOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,min=4,max=10"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createMarkerRequest struct {
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Type        string  `json:"type" validate:"required,oneof=den ad courier user trash"`
	Description string  `json:"description" validate:"max=2000"`
	Address     string  `json:"address" validate:"max=500"`
}

type updateMarkerRequest struct {
	Description *string `json:"description"`
	Address     *string `json:"address"`
}

type moderationActionRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

type resolveRequest struct {
	Report string `json:"report" validate:"required,max=2000"`
}

type updateMeRequest struct {
	Name *string `json:"name"`
}

type updateUserRequest struct {
	Role *string `json:"role" validate:"omitempty,oneof=user moderator police admin"`
}

// decodeAndValidate reads a JSON body into dst and validates its tags.
// A false return means the error response is already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		NewResponseWriter(w, r).BadRequest(fmt.Sprintf("malformed request body: %s", err))
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		var vErr *validation.RequestValidationError
		if errors.As(err, &vErr) {
			NewResponseWriter(w, r).ValidationError("validation failed", vErr.Fields)
			return false
		}
		NewResponseWriter(w, r).BadRequest(err.Error())
		return false
	}
	return true
}

// parseListQuery reads marker listing filters from the query string.
func parseListQuery(r *http.Request) (marker.ListQuery, error) {
	q := marker.ListQuery{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 100),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}

	for _, raw := range splitCSV(r.URL.Query().Get("status")) {
		st := models.MarkerStatus(raw)
		if !models.IsValidMarkerStatus(st) {
			return q, fmt.Errorf("unknown status %q", raw)
		}
		q.Statuses = append(q.Statuses, st)
	}
	for _, raw := range splitCSV(r.URL.Query().Get("type")) {
		t := models.MarkerType(raw)
		if !models.IsValidMarkerType(t) {
			return q, fmt.Errorf("unknown type %q", raw)
		}
		q.Types = append(q.Types, t)
	}

	// bbox=minLat,minLon,maxLat,maxLon
	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		parts := strings.Split(bbox, ",")
		if len(parts) != 4 {
			return q, fmt.Errorf("bbox must be minLat,minLon,maxLat,maxLon")
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return q, fmt.Errorf("bbox value %q is not a number", p)
			}
			vals[i] = v
		}
		q.HasBounds = true
		q.MinLat, q.MinLon, q.MaxLat, q.MaxLon = vals[0], vals[1], vals[2], vals[3]
		if q.MinLat > q.MaxLat || q.MinLon > q.MaxLon {
			return q, fmt.Errorf("bbox min values must not exceed max values")
		}
	}

	if owner := r.URL.Query().Get("owner"); owner == "me" {
		q.OwnerID = "me" // resolved to the actor by the handler
	}
	return q, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func paginationFor(total int64, count, offset, limit int) *PaginationMeta {
	if limit <= 0 {
		limit = 100
	}
	return &PaginationMeta{
		Total:   total,
		Count:   count,
		Offset:  offset,
		Limit:   limit,
		HasMore: int64(offset+count) < total,
	}
}
