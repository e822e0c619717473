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

	"github.com/google/uuid"
)

// SaveOTP stores a fresh one-time code for the phone number and marks any
// earlier unused codes for the same number as used, so only the latest
// code can win.
func (db *DB) SaveOTP(ctx context.Context, phone, code string, expiresAt time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning otp tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE otp_codes SET used = true WHERE phone = ? AND used = false`,
		phone); err != nil {
		return fmt.Errorf("invalidating earlier codes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO otp_codes (id, phone, code, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, false, ?)`,
		uuid.New().String(), phone, code, expiresAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("inserting otp code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing otp: %w", err)
	}
	return nil
}

// ConsumeOTP validates and burns a code. Returns ErrNotFound when no
// matching live code exists (wrong code, expired, or already used).
func (db *DB) ConsumeOTP(ctx context.Context, phone, code string) error {
	var id string
	err := db.conn.QueryRowContext(ctx, `
		SELECT id FROM otp_codes
		WHERE phone = ? AND code = ? AND used = false AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT 1`, phone, code, time.Now().UTC()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying otp code: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE otp_codes SET used = true WHERE id = ?`, id); err != nil {
		return fmt.Errorf("burning otp code: %w", err)
	}
	return nil
}

// PurgeExpiredOTPs deletes codes past their expiry. Called opportunistically.
func (db *DB) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purging otp codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged codes: %w", err)
	}
	return n, nil
}
