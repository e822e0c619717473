// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/narcomap/narcomap/internal/models"
)

// ModerationHistory returns the full audit trail for a marker, oldest
// first. Records are append-only; there is no update or delete path.
func (db *DB) ModerationHistory(ctx context.Context, markerID string) ([]*models.ModerationRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, marker_id, actor_id, actor_role, action, note, created_at
		FROM moderation_records
		WHERE marker_id = ?
		ORDER BY created_at ASC`, markerID)
	if err != nil {
		return nil, fmt.Errorf("querying moderation history: %w", err)
	}
	defer rows.Close()

	var records []*models.ModerationRecord
	for rows.Next() {
		var rec models.ModerationRecord
		var role, action string
		var note sql.NullString
		if err := rows.Scan(&rec.ID, &rec.MarkerID, &rec.ActorID, &role,
			&action, &note, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning moderation record: %w", err)
		}
		rec.ActorRole = models.Role(role)
		rec.Action = models.ModerationAction(action)
		rec.Note = note.String
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating moderation history: %w", err)
	}
	return records, nil
}

// PendingMarkers returns markers awaiting moderation, oldest first so the
// queue drains fairly.
func (db *DB) PendingMarkers(ctx context.Context, limit, offset int) ([]*models.Marker, int64, error) {
	var total int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM markers WHERE status = ?`,
		string(models.StatusNew)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting pending markers: %w", err)
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+markerColumns+` FROM markers
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?`, string(models.StatusNew), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying pending markers: %w", err)
	}
	defer rows.Close()

	var markers []*models.Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning pending marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating pending markers: %w", err)
	}
	return markers, total, nil
}

// ModeratorStats counts one actor's moderation actions.
func (db *DB) ModeratorStats(ctx context.Context, actorID string) (*models.ModeratorStats, error) {
	stats := &models.ModeratorStats{
		ActorID:  actorID,
		ByAction: make(map[models.ModerationAction]int64),
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT action, COUNT(*) FROM moderation_records
		WHERE actor_id = ?
		GROUP BY action`, actorID)
	if err != nil {
		return nil, fmt.Errorf("querying moderator stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var action string
		var n int64
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scanning moderator stat: %w", err)
		}
		stats.ByAction[models.ModerationAction(action)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating moderator stats: %w", err)
	}
	return stats, nil
}
