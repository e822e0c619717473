// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"

	"github.com/narcomap/narcomap/internal/auth"
)

// RequestOTP handles POST /api/v1/auth/request-otp.
// The response is identical whether or not the number belongs to an
// account, so the endpoint cannot be used to probe for registrations.
func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.otp.Request(r.Context(), req.Phone); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]string{
		"message": "code sent",
	})
}

// VerifyOTP handles POST /api/v1/auth/verify-otp. First successful
// verification of a new number creates the account.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.otp.Verify(r.Context(), req.Phone, req.Code)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	pair, err := h.jwt.GeneratePair(user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"tokens": pair,
		"user":   user,
	})
}

// Refresh handles POST /api/v1/auth/refresh. The account is re-read so a
// role change or deactivation takes effect here.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwt.ValidateToken(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	user, err := h.otp.RefreshUser(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	pair, err := h.jwt.GeneratePair(user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"tokens": pair,
	})
}
