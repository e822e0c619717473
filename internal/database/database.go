// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package database implements the Narcomap persistence layer on embedded
// DuckDB via database/sql.
//
// All reads and writes for markers, moderation records, users, and OTP
// codes live here; the service layer never builds SQL. Moderation state
// changes and their audit records commit in a single transaction, see
// ApplyTransition.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb driver
	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/logging"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable marks connection-level failures. Handlers map it to a
// retryable response instead of a generic internal error.
var ErrUnavailable = errors.New("storage unavailable")

// classifyErr tags transient connection failures with ErrUnavailable and
// leaves everything else untouched.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// DB wraps the DuckDB connection pool.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (creating if necessary) the DuckDB database at cfg.Path and
// bootstraps the schema. Use ":memory:" for tests.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	dsn := cfg.Path
	if dsn != ":memory:" && dsn != "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, cfg.Threads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn, path: cfg.Path}
	if err := db.initialize(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("database ready")
	return db, nil
}

func (db *DB) initialize(ctx context.Context) error {
	if err := db.execBatch(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	if err := db.execBatch(ctx, indexDDL); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	return nil
}

// execBatch runs a multi-statement DDL string, one statement at a time.
func (db *DB) execBatch(ctx context.Context, ddl string) error {
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close checkpoints the WAL and closes the pool.
func (db *DB) Close() error {
	if db.path != ":memory:" && db.path != "" {
		if _, err := db.conn.Exec("CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("checkpoint before close failed")
		}
	}
	return db.conn.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
