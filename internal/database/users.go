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
	"github.com/narcomap/narcomap/internal/models"
)

const userColumns = `id, phone, name, role, active, created_at, updated_at`

// GetUser fetches a user by ID.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByPhone fetches a user by normalized phone number.
func (db *DB) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = ?`, phone)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by phone: %w", err)
	}
	return u, nil
}

// GetOrCreateUserByPhone returns the existing user for the phone number or
// creates a fresh one with the default role. First successful OTP login is
// registration.
func (db *DB) GetOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	u, err := db.GetUserByPhone(ctx, phone)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u = &models.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Role:      models.RoleUser,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Phone, nullable(u.Name), string(u.Role), u.Active,
		u.CreatedAt, u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// ListUsers returns users ordered by creation time, newest first.
func (db *DB) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	var total int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating users: %w", err)
	}
	return users, total, nil
}

// UpdateUserName sets the display name.
func (db *DB) UpdateUserName(ctx context.Context, id, name string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		nullable(name), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating user name %s: %w", id, err)
	}
	return checkFound(res)
}

// UpdateUserRole changes a user's role. Admin only at the API layer.
func (db *DB) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating user role %s: %w", id, err)
	}
	return checkFound(res)
}

// DeactivateUser soft-deletes an account. Markers and moderation history
// stay intact for the audit trail.
func (db *DB) DeactivateUser(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET active = false, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivating user %s: %w", id, err)
	}
	return checkFound(res)
}

// CountUsers returns the total number of accounts.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var name sql.NullString
	var role string
	if err := row.Scan(&u.ID, &u.Phone, &name, &role, &u.Active,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Name = name.String
	u.Role = models.Role(role)
	return &u, nil
}
