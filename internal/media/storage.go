// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package media stores marker photos.
//
// Two backends implement Storage: local disk for single-node deployments
// and S3 for anything else. Both are addressed by an opaque reference
// that the marker record keeps in photo_ref.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage persists photo bytes and returns an opaque reference.
type Storage interface {
	// Save writes the photo and returns its reference. The extension must
	// already be validated by the caller.
	Save(ctx context.Context, ext string, data []byte) (string, error)

	// Delete removes a stored photo. Missing objects are not an error.
	Delete(ctx context.Context, ref string) error
}

// ErrUnsupportedType is returned for uploads that are not an allowed
// image format.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge is returned for uploads over the configured size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// allowedExtensions whitelists upload formats.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ValidateUpload checks filename extension, declared size, and magic bytes
// before a photo is handed to a Storage backend. It returns the normalized
// extension.
func ValidateUpload(filename string, size int64, maxBytes int64, head []byte) (string, error) {
	if size > maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, maxBytes)
	}
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if !sniffImage(head) {
		return "", fmt.Errorf("%w: content does not look like an image", ErrUnsupportedType)
	}
	return ext, nil
}

// sniffImage checks the magic bytes of the supported formats.
func sniffImage(head []byte) bool {
	switch {
	case len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF:
		return true // JPEG
	case len(head) >= 8 && string(head[:8]) == "\x89PNG\r\n\x1a\n":
		return true // PNG
	case len(head) >= 6 && (string(head[:6]) == "GIF87a" || string(head[:6]) == "GIF89a"):
		return true // GIF
	default:
		return false
	}
}

// newObjectName builds a collision-free object name for a photo.
func newObjectName(ext string) string {
	return uuid.New().String() + ext
}
