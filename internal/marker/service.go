// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package marker implements the marker lifecycle engine: creation with
// quota and duplicate-proximity enforcement, photo attachment, visibility
// filtered listing, and owner edits. Status changes are not handled here;
// they belong to the moderation package.
package marker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/logging"
	"github.com/narcomap/narcomap/internal/media"
	"github.com/narcomap/narcomap/internal/metrics"
	"github.com/narcomap/narcomap/internal/models"
)

const maxDescriptionLen = 2000

// Store is the persistence surface the engine needs. *database.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	CreateMarker(ctx context.Context, m *models.Marker) error
	GetMarker(ctx context.Context, id string) (*models.Marker, error)
	ListMarkers(ctx context.Context, f *database.MarkerFilter) ([]*models.Marker, int64, error)
	CountMarkersForOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error)
	HasMarkerWithin(ctx context.Context, lat, lon, radiusMeters float64) (bool, error)
	UpdateMarkerInfo(ctx context.Context, id string, description, address *string) error
	SetMarkerPhoto(ctx context.Context, id, photoRef string) error
	DeleteMarker(ctx context.Context, id string) error
	MarkerStats(ctx context.Context) (*models.MarkerStats, error)
	OwnerMarkerStats(ctx context.Context, ownerID string) (*models.UserStats, error)
}

// CreateInput is the client-supplied part of a new marker. Color and
// status are derived server-side and never accepted from the client.
type CreateInput struct {
	Latitude    float64
	Longitude   float64
	Type        models.MarkerType
	Description string
	Address     string
}

// ListQuery narrows a marker listing.
type ListQuery struct {
	Statuses []models.MarkerStatus
	Types    []models.MarkerType
	OwnerID  string

	HasBounds bool
	MinLat    float64
	MaxLat    float64
	MinLon    float64
	MaxLon    float64

	Limit  int
	Offset int
}

// Service is the marker lifecycle engine.
type Service struct {
	store          Store
	photos         media.Storage
	dailyQuota     int
	dupRadius      float64
	maxUploadBytes int64
}

// NewService wires the engine to its store and photo storage.
func NewService(store Store, photos media.Storage, cfg config.MarkersConfig, maxUploadBytes int64) *Service {
	return &Service{
		store:          store,
		photos:         photos,
		dailyQuota:     cfg.DailyQuota,
		dupRadius:      cfg.DuplicateRadiusMeters,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create validates input, derives the palette color, enforces the daily
// quota and the duplicate-proximity rule, and persists the marker with
// status new.
//
// The proximity check and the insert are not one atomic step; two
// concurrent creations at the same spot can both pass. The window is
// accepted: a duplicate slipping through is cleaned up in moderation,
// while locking the whole markers table on every creation is not.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*models.Marker, error) {
	if err := validateInput(in); err != nil {
		metrics.MarkersRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	color, ok := models.ColorForType(in.Type)
	if !ok {
		metrics.MarkersRejectedTotal.WithLabelValues("validation").Inc()
		return nil, invalid("type", fmt.Sprintf("unknown marker type %q", in.Type))
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	created, err := s.store.CountMarkersForOwnerBetween(ctx, ownerID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("checking daily quota: %w", err)
	}
	if created >= int64(s.dailyQuota) {
		metrics.MarkersRejectedTotal.WithLabelValues("quota").Inc()
		return nil, fmt.Errorf("%w: %d markers today (limit %d)", ErrQuotaExceeded, created, s.dailyQuota)
	}

	if s.dupRadius > 0 {
		nearby, err := s.store.HasMarkerWithin(ctx, in.Latitude, in.Longitude, s.dupRadius)
		if err != nil {
			return nil, fmt.Errorf("checking duplicate proximity: %w", err)
		}
		if nearby {
			metrics.MarkersRejectedTotal.WithLabelValues("duplicate").Inc()
			return nil, fmt.Errorf("%w (within %.0f m)", ErrDuplicateLocation, s.dupRadius)
		}
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		// No geocoder; the coordinates stand in for a street address.
		address = fmt.Sprintf("%.6f, %.6f", in.Latitude, in.Longitude)
	}

	m := &models.Marker{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Type:        in.Type,
		Color:       color,
		Description: strings.TrimSpace(in.Description),
		Address:     address,
		Status:      models.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateMarker(ctx, m); err != nil {
		return nil, err
	}

	metrics.MarkersCreatedTotal.WithLabelValues(string(m.Type)).Inc()
	logging.Ctx(ctx).Info().
		Str("marker_id", m.ID).
		Str("type", string(m.Type)).
		Msg("marker created")
	return m, nil
}

// AttachPhoto validates and stores a photo, then records its reference on
// the marker. Storage failure returns ErrStorageUnavailable with the
// marker unchanged; the caller may retry without recreating the marker.
func (s *Service) AttachPhoto(ctx context.Context, actor models.Actor, markerID, filename string, size int64, data []byte) (*models.Marker, error) {
	m, err := s.store.GetMarker(ctx, markerID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != actor.ID && !actor.Role.IsPrivileged() {
		return nil, ErrNotOwner
	}

	head := data
	if len(head) > 16 {
		head = head[:16]
	}
	ext, err := media.ValidateUpload(filename, size, s.maxUploadBytes, head)
	if err != nil {
		return nil, err
	}

	ref, err := s.photos.Save(ctx, ext, data)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("marker_id", markerID).Msg("photo storage failed")
		return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, err)
	}

	oldRef := m.PhotoRef
	if err := s.store.SetMarkerPhoto(ctx, markerID, ref); err != nil {
		return nil, err
	}
	if oldRef != "" && oldRef != ref {
		// Best effort; an orphaned object is harmless.
		if err := s.photos.Delete(ctx, oldRef); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("photo_ref", oldRef).Msg("replacing photo cleanup failed")
		}
	}

	metrics.MediaUploadBytes.Observe(float64(size))
	m.PhotoRef = ref
	return m, nil
}

// List returns markers visible to the actor. Unprivileged callers are
// always restricted to approved and resolved markers, whatever statuses
// they asked for; privileged callers get exactly what they requested, or
// everything when they request nothing.
func (s *Service) List(ctx context.Context, actor models.Actor, q ListQuery) ([]*models.Marker, int64, error) {
	statuses := q.Statuses
	if !actor.Role.IsPrivileged() {
		statuses = visibleSubset(statuses)
	}

	f := &database.MarkerFilter{
		Statuses:  statuses,
		Types:     q.Types,
		OwnerID:   q.OwnerID,
		HasBounds: q.HasBounds,
		MinLat:    q.MinLat,
		MaxLat:    q.MaxLat,
		MinLon:    q.MinLon,
		MaxLon:    q.MaxLon,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	return s.store.ListMarkers(ctx, f)
}

// Get fetches one marker. Unprivileged callers can see their own markers
// in any state but other people's only once approved or resolved.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (*models.Marker, error) {
	m, err := s.store.GetMarker(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsPrivileged() || m.OwnerID == actor.ID {
		return m, nil
	}
	for _, st := range models.PublicStatuses {
		if m.Status == st {
			return m, nil
		}
	}
	// Hidden markers are indistinguishable from missing ones.
	return nil, database.ErrNotFound
}

// Update edits description and/or address. Status, color, coordinates,
// and ownership are out of reach for every caller; the moderation
// transition table is the only way a status changes.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, description, address *string) (*models.Marker, error) {
	m, err := s.store.GetMarker(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != actor.ID && !actor.Role.IsPrivileged() {
		return nil, ErrNotOwner
	}
	if description != nil {
		// An empty value clears the optional description.
		trimmed := strings.TrimSpace(*description)
		if len(trimmed) > maxDescriptionLen {
			return nil, invalid("description", fmt.Sprintf("longer than %d characters", maxDescriptionLen))
		}
		description = &trimmed
	}
	if err := s.store.UpdateMarkerInfo(ctx, id, description, address); err != nil {
		return nil, err
	}
	return s.store.GetMarker(ctx, id)
}

// Delete removes a marker. Owners may delete their own markers while
// still unmoderated; admins may delete anything.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	m, err := s.store.GetMarker(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case actor.Role == models.RoleAdmin:
	case m.OwnerID == actor.ID && m.Status == models.StatusNew:
	case m.OwnerID == actor.ID:
		return fmt.Errorf("%w: only unmoderated markers can be deleted by their owner", ErrForbidden)
	default:
		return ErrNotOwner
	}

	if err := s.store.DeleteMarker(ctx, id); err != nil {
		return err
	}
	if m.PhotoRef != "" {
		if err := s.photos.Delete(ctx, m.PhotoRef); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("photo_ref", m.PhotoRef).Msg("deleting photo failed")
		}
	}
	logging.Ctx(ctx).Info().Str("marker_id", id).Msg("marker deleted")
	return nil
}

// Stats aggregates marker counts by status and type.
func (s *Service) Stats(ctx context.Context) (*models.MarkerStats, error) {
	return s.store.MarkerStats(ctx)
}

// OwnerStats aggregates one owner's marker counts.
func (s *Service) OwnerStats(ctx context.Context, ownerID string) (*models.UserStats, error) {
	return s.store.OwnerMarkerStats(ctx, ownerID)
}

func validateInput(in CreateInput) error {
	if in.Latitude < -90 || in.Latitude > 90 {
		return invalid("latitude", fmt.Sprintf("%.6f is outside [-90, 90]", in.Latitude))
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return invalid("longitude", fmt.Sprintf("%.6f is outside [-180, 180]", in.Longitude))
	}
	if !models.IsValidMarkerType(in.Type) {
		return invalid("type", fmt.Sprintf("unknown marker type %q", in.Type))
	}
	// Description is optional; only its length is bounded.
	if len(strings.TrimSpace(in.Description)) > maxDescriptionLen {
		return invalid("description", fmt.Sprintf("longer than %d characters", maxDescriptionLen))
	}
	return nil
}

// visibleSubset intersects the requested statuses with the public ones.
func visibleSubset(requested []models.MarkerStatus) []models.MarkerStatus {
	if len(requested) == 0 {
		return append([]models.MarkerStatus(nil), models.PublicStatuses...)
	}
	var out []models.MarkerStatus
	for _, st := range requested {
		for _, pub := range models.PublicStatuses {
			if st == pub {
				out = append(out, st)
			}
		}
	}
	if len(out) == 0 {
		// Nothing they asked for is visible; the public set is the floor.
		return append([]models.MarkerStatus(nil), models.PublicStatuses...)
	}
	return out
}

// IsNotFound reports whether err is the store's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
