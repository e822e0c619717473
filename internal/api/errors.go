// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"errors"
	"net/http"

	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/logging"
	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/media"
	"github.com/narcomap/narcomap/internal/moderation"
)

// respondServiceError translates a domain error into the envelope. Every
// typed error keeps its own code; nothing is downgraded to a generic
// failure except genuinely unexpected errors, which are logged and
// reported as INTERNAL_ERROR without leaking detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var vErr *marker.ValidationError
	switch {
	case errors.As(err, &vErr):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"validation failed", map[string]string{vErr.Field: vErr.Reason})

	case errors.Is(err, marker.ErrDuplicateLocation):
		rw.Error(http.StatusConflict, ErrCodeDuplicateLocation, err.Error())

	case errors.Is(err, marker.ErrQuotaExceeded):
		rw.Error(http.StatusTooManyRequests, ErrCodeQuotaExceeded, err.Error())

	case errors.Is(err, marker.ErrNotOwner):
		rw.Error(http.StatusForbidden, ErrCodeNotOwner, err.Error())

	case errors.Is(err, marker.ErrForbidden), errors.Is(err, moderation.ErrForbidden):
		rw.Error(http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, marker.ErrStorageUnavailable):
		rw.Error(http.StatusServiceUnavailable, ErrCodeStorageUnavailable, err.Error())

	case errors.Is(err, moderation.ErrInvalidTransition):
		rw.Error(http.StatusConflict, ErrCodeInvalidTransition, err.Error())

	case errors.Is(err, moderation.ErrReportRequired):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"validation failed", map[string]string{"report": "is required to resolve"})

	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupportedType):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())

	case errors.Is(err, auth.ErrInvalidPhone):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidPhone, err.Error())

	case errors.Is(err, auth.ErrInvalidCode):
		rw.Error(http.StatusUnauthorized, ErrCodeInvalidCode, err.Error())

	case errors.Is(err, auth.ErrInvalidToken):
		rw.Error(http.StatusUnauthorized, ErrCodeInvalidToken, "invalid or expired token")

	case errors.Is(err, auth.ErrUserInactive):
		rw.Error(http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, database.ErrUnavailable):
		rw.Error(http.StatusServiceUnavailable, ErrCodeStorageUnavailable,
			"storage temporarily unavailable")

	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("resource not found")

	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled service error")
		rw.InternalError("internal error")
	}
}
