// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package marker

import (
	"errors"
	"fmt"
)

// Domain errors. The API layer maps each to a stable machine-readable
// code; they are never collapsed into a generic failure.
var (
	// ErrDuplicateLocation rejects a creation too close to an existing
	// marker, whoever owns it.
	ErrDuplicateLocation = errors.New("a marker already exists at this location")

	// ErrQuotaExceeded rejects a creation over the owner's daily limit.
	ErrQuotaExceeded = errors.New("daily marker quota exceeded")

	// ErrNotOwner rejects an edit by someone who neither owns the marker
	// nor holds a privileged role.
	ErrNotOwner = errors.New("caller does not own this marker")

	// ErrForbidden rejects an operation the caller's role does not allow.
	ErrForbidden = errors.New("operation not allowed for this role")

	// ErrStorageUnavailable reports a photo storage failure. The marker
	// itself is left untouched when this is returned.
	ErrStorageUnavailable = errors.New("photo storage unavailable")
)

// ValidationError reports a domain-invariant violation on input.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
