// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package auth

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		region  string
		want    string
		wantErr bool
	}{
		{"e164 passthrough", "+79261234567", "RU", "+79261234567", false},
		{"national with region", "8 926 123-45-67", "RU", "+79261234567", false},
		{"spaces and dashes", "+7 926 123-45-67", "RU", "+79261234567", false},
		{"us number", "+12125551234", "RU", "+12125551234", false},
		{"garbage", "hello", "RU", "", true},
		{"too short", "+7926", "RU", "", true},
		{"empty", "", "RU", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizePhone(tc.raw, tc.region)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("expected ErrInvalidPhone, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
