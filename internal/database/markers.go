// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/narcomap/narcomap/internal/models"
)

// ErrStatusConflict is returned by ApplyTransition when the marker's
// status changed between the caller's read and the transaction.
var ErrStatusConflict = errors.New("marker status changed concurrently")

const markerColumns = `id, owner_id, latitude, longitude, type, color,
	description, address, photo_ref, status, resolution_report, created_at, updated_at`

// CreateMarker inserts a new marker row.
func (db *DB) CreateMarker(ctx context.Context, m *models.Marker) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO markers (`+markerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.Latitude, m.Longitude, string(m.Type), string(m.Color),
		nullable(m.Description), nullable(m.Address), nullable(m.PhotoRef), string(m.Status),
		nullable(m.ResolutionReport), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting marker: %w", err)
	}
	return nil
}

// GetMarker fetches one marker by ID.
func (db *DB) GetMarker(ctx context.Context, id string) (*models.Marker, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+markerColumns+` FROM markers WHERE id = ?`, id)
	m, err := scanMarker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying marker %s: %w", id, err)
	}
	return m, nil
}

// ListMarkers returns markers matching the filter, newest first, plus the
// total count ignoring pagination.
func (db *DB) ListMarkers(ctx context.Context, f *MarkerFilter) ([]*models.Marker, int64, error) {
	where, args := f.whereClause()

	var total int64
	if err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM markers"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting markers: %w", classifyErr(err))
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+markerColumns+" FROM markers"+where+
			" ORDER BY created_at DESC"+f.limitClause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying markers: %w", classifyErr(err))
	}
	defer rows.Close()

	var markers []*models.Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating markers: %w", err)
	}
	return markers, total, nil
}

// CountMarkersForOwnerBetween counts markers created by ownerID in
// [from, to). Backs the daily creation quota; the count always comes from
// the store, never from process memory.
func (db *DB) CountMarkersForOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM markers
		WHERE owner_id = ? AND created_at >= ? AND created_at < ?`,
		ownerID, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting owner markers: %w", classifyErr(err))
	}
	return n, nil
}

// HasMarkerWithin reports whether any marker, regardless of owner, lies
// within radiusMeters of the point. A bounding-box query narrows the
// candidates; the exact haversine distance decides.
func (db *DB) HasMarkerWithin(ctx context.Context, lat, lon, radiusMeters float64) (bool, error) {
	minLat, maxLat, minLon, maxLon := boundingBox(lat, lon, radiusMeters)

	// minLon > maxLon means the window wraps across the antimeridian.
	lonCond := "longitude BETWEEN ? AND ?"
	if minLon > maxLon {
		lonCond = "(longitude >= ? OR longitude <= ?)"
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT latitude, longitude FROM markers
		WHERE latitude BETWEEN ? AND ? AND `+lonCond,
		minLat, maxLat, minLon, maxLon)
	if err != nil {
		return false, fmt.Errorf("querying nearby markers: %w", classifyErr(err))
	}
	defer rows.Close()

	for rows.Next() {
		var mLat, mLon float64
		if err := rows.Scan(&mLat, &mLon); err != nil {
			return false, fmt.Errorf("scanning nearby marker: %w", err)
		}
		if haversineMeters(lat, lon, mLat, mLon) <= radiusMeters {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating nearby markers: %w", err)
	}
	return false, nil
}

// UpdateMarkerInfo updates description and/or address. Nil pointers leave
// the field untouched. Status, color, coordinates, and ownership are not
// reachable from here.
func (db *DB) UpdateMarkerInfo(ctx context.Context, id string, description, address *string) error {
	set := "updated_at = ?"
	args := []interface{}{time.Now().UTC()}
	if description != nil {
		set += ", description = ?"
		args = append(args, *description)
	}
	if address != nil {
		set += ", address = ?"
		args = append(args, *address)
	}
	args = append(args, id)

	res, err := db.conn.ExecContext(ctx,
		"UPDATE markers SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating marker %s: %w", id, err)
	}
	return checkFound(res)
}

// SetMarkerPhoto records the stored photo reference.
func (db *DB) SetMarkerPhoto(ctx context.Context, id, photoRef string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE markers SET photo_ref = ?, updated_at = ? WHERE id = ?`,
		photoRef, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting marker photo %s: %w", id, err)
	}
	return checkFound(res)
}

// DeleteMarker removes a marker and its moderation history.
func (db *DB) DeleteMarker(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM markers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting marker %s: %w", id, err)
	}
	if err := checkFound(res); err != nil {
		return err
	}
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM moderation_records WHERE marker_id = ?`, id); err != nil {
		return fmt.Errorf("deleting moderation history %s: %w", id, err)
	}
	return nil
}

// ApplyTransition commits a moderation status change and its audit record
// atomically. The row update is guarded by the expected current status so
// a concurrent transition makes this one fail with ErrStatusConflict
// instead of silently double-applying.
func (db *DB) ApplyTransition(ctx context.Context, markerID string, from, to models.MarkerStatus, resolutionReport string, rec *models.ModerationRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transition tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE markers
		SET status = ?, resolution_report = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), nullable(resolutionReport), time.Now().UTC(),
		markerID, string(from))
	if err != nil {
		return fmt.Errorf("updating marker status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking transition result: %w", err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO moderation_records (id, marker_id, actor_id, actor_role, action, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.MarkerID, rec.ActorID, string(rec.ActorRole),
		string(rec.Action), nullable(rec.Note), rec.CreatedAt); err != nil {
		return fmt.Errorf("inserting moderation record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}
	return nil
}

// MarkerStats aggregates counts by status and type.
func (db *DB) MarkerStats(ctx context.Context) (*models.MarkerStats, error) {
	stats := &models.MarkerStats{
		ByStatus: make(map[models.MarkerStatus]int64),
		ByType:   make(map[models.MarkerType]int64),
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM markers GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[models.MarkerStatus(status)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	typeRows, err := db.conn.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM markers GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("querying type counts: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var typ string
		var n int64
		if err := typeRows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		stats.ByType[models.MarkerType(typ)] = n
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating type counts: %w", err)
	}
	return stats, nil
}

// OwnerMarkerStats aggregates one owner's markers by status.
func (db *DB) OwnerMarkerStats(ctx context.Context, ownerID string) (*models.UserStats, error) {
	stats := &models.UserStats{
		UserID:   ownerID,
		ByStatus: make(map[models.MarkerStatus]int64),
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM markers WHERE owner_id = ? GROUP BY status`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying owner stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning owner stat: %w", err)
		}
		stats.ByStatus[models.MarkerStatus(status)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owner stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMarker(row rowScanner) (*models.Marker, error) {
	var m models.Marker
	var typ, color, status string
	var description, address, photoRef, report sql.NullString
	if err := row.Scan(
		&m.ID, &m.OwnerID, &m.Latitude, &m.Longitude, &typ, &color,
		&description, &address, &photoRef, &status, &report,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Type = models.MarkerType(typ)
	m.Color = models.MarkerColor(color)
	m.Status = models.MarkerStatus(status)
	m.Description = description.String
	m.Address = address.String
	m.PhotoRef = photoRef.String
	m.ResolutionReport = report.String
	return &m, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func checkFound(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
