// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes photos to a directory on disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the directory if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save implements Storage.
func (s *LocalStorage) Save(_ context.Context, ext string, data []byte) (string, error) {
	name := newObjectName(ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o640); err != nil {
		return "", fmt.Errorf("writing photo: %w", err)
	}
	return name, nil
}

// Delete implements Storage.
func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	// Refuse anything that could escape the media directory.
	if ref == "" || strings.Contains(ref, "/") || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid photo reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}
