// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Phone     string  `validate:"required,e164"`
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	Type      string  `validate:"required,oneof=den ad courier"`
	Note      string  `validate:"max=10"`
}

func validSample() sampleRequest {
	return sampleRequest{
		Phone:     "+79261234567",
		Latitude:  55.75,
		Longitude: 37.61,
		Type:      "den",
	}
}

func TestValidateStructOK(t *testing.T) {
	t.Parallel()

	if err := ValidateStruct(validSample()); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestValidateStructFieldMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*sampleRequest)
		field   string
		message string
	}{
		{"missing phone", func(r *sampleRequest) { r.Phone = "" }, "phone", "is required"},
		{"bad phone", func(r *sampleRequest) { r.Phone = "not-a-phone" }, "phone", "international format"},
		{"bad latitude", func(r *sampleRequest) { r.Latitude = 91 }, "latitude", "between -90 and 90"},
		{"bad longitude", func(r *sampleRequest) { r.Longitude = -181 }, "longitude", "between -180 and 180"},
		{"bad type", func(r *sampleRequest) { r.Type = "bonfire" }, "type", "must be one of: den, ad, courier"},
		{"too long", func(r *sampleRequest) { r.Note = "aaaaaaaaaaaaaaaa" }, "note", "at most 10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := validSample()
			tc.mutate(&req)

			err := ValidateStruct(req)
			var vErr *RequestValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected RequestValidationError, got %v", err)
			}
			msg, ok := vErr.Fields[tc.field]
			if !ok {
				t.Fatalf("no message for field %q: %v", tc.field, vErr.Fields)
			}
			if !strings.Contains(msg, tc.message) {
				t.Errorf("message %q does not contain %q", msg, tc.message)
			}
		})
	}
}

func TestValidateStructMultipleFailures(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(sampleRequest{Latitude: 95, Longitude: 200})
	var vErr *RequestValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if len(vErr.Fields) < 3 {
		t.Errorf("expected failures for phone, latitude, longitude and type: %v", vErr.Fields)
	}
	if !strings.Contains(vErr.Error(), "validation failed") {
		t.Errorf("unexpected error string: %s", vErr.Error())
	}
}
