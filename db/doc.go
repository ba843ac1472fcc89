// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db holds the tracker sync journal.

Room state is never stored here; rooms live in memory only. The journal
records every estimate pushed to the issue tracker so a room can show its
sync history.

# Connecting

Open accepts the two supported drivers:

	conn, err := db.Open("sqlite", "file:quickly-poker.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes the journal table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The statements avoid driver specific SQL so both drivers share one schema.

# Tables

  - sync_log: one row per sync attempt (status "synced" or "failed")

Index on sync_log.(room_id, created_at) for per-room history.

# Journal

	journal := db.NewSyncLog(conn, "sqlite")
	err := journal.Record(ctx, &db.SyncEntry{...})
	entries, err := journal.ListByRoom(ctx, "abc-1234", 20)

Queries are written with $N placeholders and rewritten to ? for sqlite.
*/
package db
