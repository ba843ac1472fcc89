// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between sqlite and postgres: no NOW(), no JSONB.
const schema = `
-- Tracker sync attempts
CREATE TABLE IF NOT EXISTS sync_log (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL,
    issue_key TEXT NOT NULL,
    ticket_url TEXT NOT NULL,
    vote_value TEXT NOT NULL,
    points DOUBLE PRECISION NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('synced', 'failed')),
    error_message TEXT,
    requested_by TEXT NOT NULL,
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_log_room_id ON sync_log(room_id, created_at);
`
