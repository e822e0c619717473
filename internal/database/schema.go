// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package database

// schemaDDL creates all tables. Statements are split on ";" and run one
// at a time because the driver rejects multi-statement exec.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR PRIMARY KEY,
    phone VARCHAR NOT NULL UNIQUE,
    name VARCHAR,
    role VARCHAR NOT NULL DEFAULT 'user',
    active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS otp_codes (
    id VARCHAR PRIMARY KEY,
    phone VARCHAR NOT NULL,
    code VARCHAR NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    used BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS markers (
    id VARCHAR PRIMARY KEY,
    owner_id VARCHAR NOT NULL,
    latitude DOUBLE NOT NULL,
    longitude DOUBLE NOT NULL,
    type VARCHAR NOT NULL,
    color VARCHAR NOT NULL,
    description VARCHAR,
    address VARCHAR,
    photo_ref VARCHAR,
    status VARCHAR NOT NULL DEFAULT 'new',
    resolution_report VARCHAR,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS moderation_records (
    id VARCHAR PRIMARY KEY,
    marker_id VARCHAR NOT NULL,
    actor_id VARCHAR NOT NULL,
    actor_role VARCHAR NOT NULL,
    action VARCHAR NOT NULL,
    note VARCHAR,
    created_at TIMESTAMPTZ NOT NULL
)
`

// indexDDL creates secondary indexes after the tables exist.
const indexDDL = `
CREATE INDEX IF NOT EXISTS idx_markers_owner ON markers(owner_id);
CREATE INDEX IF NOT EXISTS idx_markers_status ON markers(status);
CREATE INDEX IF NOT EXISTS idx_markers_created ON markers(created_at);
CREATE INDEX IF NOT EXISTS idx_moderation_marker ON moderation_records(marker_id);
CREATE INDEX IF NOT EXISTS idx_otp_phone ON otp_codes(phone)
`
