// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/narcomap/narcomap/internal/models"
)

func TestParseListQuery(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers", nil)
		q, err := parseListQuery(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Limit != 100 || q.Offset != 0 {
			t.Errorf("unexpected defaults: %+v", q)
		}
		if len(q.Statuses) != 0 || q.HasBounds {
			t.Errorf("expected empty filter: %+v", q)
		}
	})

	t.Run("statuses and types", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?status=approved,resolved&type=den,ad", nil)
		q, err := parseListQuery(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Statuses) != 2 || q.Statuses[0] != models.StatusApproved {
			t.Errorf("statuses not parsed: %+v", q.Statuses)
		}
		if len(q.Types) != 2 || q.Types[1] != models.MarkerTypeAd {
			t.Errorf("types not parsed: %+v", q.Types)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?status=pending", nil)
		if _, err := parseListQuery(req); err == nil {
			t.Error("expected error for unknown status")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?type=bonfire", nil)
		if _, err := parseListQuery(req); err == nil {
			t.Error("expected error for unknown type")
		}
	})

	t.Run("bbox", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?bbox=55.5,37.3,55.9,37.9", nil)
		q, err := parseListQuery(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !q.HasBounds || q.MinLat != 55.5 || q.MinLon != 37.3 || q.MaxLat != 55.9 || q.MaxLon != 37.9 {
			t.Errorf("bbox not parsed: %+v", q)
		}
	})

	t.Run("bbox wrong arity", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?bbox=1,2,3", nil)
		if _, err := parseListQuery(req); err == nil {
			t.Error("expected error for 3-element bbox")
		}
	})

	t.Run("bbox inverted", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?bbox=56,38,55,37", nil)
		if _, err := parseListQuery(req); err == nil {
			t.Error("expected error for min > max")
		}
	})

	t.Run("bbox not numeric", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?bbox=a,b,c,d", nil)
		if _, err := parseListQuery(req); err == nil {
			t.Error("expected error for non-numeric bbox")
		}
	})

	t.Run("owner me", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?owner=me", nil)
		q, err := parseListQuery(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.OwnerID != "me" {
			t.Errorf("owner=me not carried: %+v", q)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/markers?limit=25&offset=50", nil)
		q, err := parseListQuery(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Limit != 25 || q.Offset != 50 {
			t.Errorf("pagination not parsed: %+v", q)
		}
	})
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		body := `{"latitude":55.75,"longitude":37.61,"type":"den","description":"basement"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/markers", strings.NewReader(body))

		var dst createMarkerRequest
		if !decodeAndValidate(rec, req, &dst) {
			t.Fatalf("expected success, got %s", rec.Body.String())
		}
		if dst.Type != "den" || dst.Latitude != 55.75 {
			t.Errorf("unexpected decode: %+v", dst)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/markers", strings.NewReader("{nope"))

		var dst createMarkerRequest
		if decodeAndValidate(rec, req, &dst) {
			t.Fatal("expected failure")
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		body := `{"latitude":1,"longitude":1,"type":"den","description":"x","color":"red"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/markers", strings.NewReader(body))

		var dst createMarkerRequest
		if decodeAndValidate(rec, req, &dst) {
			t.Fatal("expected unknown field to be rejected")
		}
	})

	t.Run("validation failure with details", func(t *testing.T) {
		t.Parallel()
		body := `{"latitude":95,"longitude":37.61,"type":"den","description":"x"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/markers", strings.NewReader(body))

		var dst createMarkerRequest
		if decodeAndValidate(rec, req, &dst) {
			t.Fatal("expected failure")
		}
		resp := decodeEnvelope(t, rec)
		if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
			t.Fatalf("expected VALIDATION_FAILED, got %+v", resp.Error)
		}
		details, ok := resp.Error.Details.(map[string]interface{})
		if !ok {
			t.Fatalf("expected field details, got %v", resp.Error.Details)
		}
		if _, ok := details["latitude"]; !ok {
			t.Errorf("expected latitude detail, got %v", details)
		}
	})
}

func TestPaginationFor(t *testing.T) {
	t.Parallel()

	p := paginationFor(10, 5, 0, 5)
	if !p.HasMore {
		t.Error("expected has_more for first page")
	}
	p = paginationFor(10, 5, 5, 5)
	if p.HasMore {
		t.Error("expected no more after last page")
	}
	p = paginationFor(0, 0, 0, 0)
	if p.Limit != 100 {
		t.Errorf("expected default limit, got %d", p.Limit)
	}
}
