// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sync statuses stored in sync_log.status.
const (
	SyncStatusSynced = "synced"
	SyncStatusFailed = "failed"
)

// DefaultHistoryLimit caps ListByRoom when no limit is given.
const DefaultHistoryLimit = 50

var ErrInvalidEntry = errors.New("invalid sync log entry")

// SyncEntry is one tracker sync attempt.
type SyncEntry struct {
	ID           string
	RoomID       string
	IssueKey     string
	TicketURL    string
	Value        string
	Points       float64
	Status       string
	ErrorMessage string
	RequestedBy  string
	IPHash       string
	CreatedAt    time.Time
}

// SyncLog is the append-only journal of tracker syncs.
type SyncLog struct {
	db         *sql.DB
	driverType string
}

func NewSyncLog(conn *sql.DB, driverType string) *SyncLog {
	return &SyncLog{db: conn, driverType: driverType}
}

// Record appends an entry. ID and CreatedAt are filled in when empty.
func (l *SyncLog) Record(ctx context.Context, entry *SyncEntry) error {
	if entry.RoomID == "" || entry.IssueKey == "" || entry.RequestedBy == "" {
		return fmt.Errorf("%w: room, issue key and requester are required", ErrInvalidEntry)
	}
	if entry.Status != SyncStatusSynced && entry.Status != SyncStatusFailed {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, entry.Status)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	_, err := l.db.ExecContext(ctx, rebind(l.driverType, `
		INSERT INTO sync_log (
			id, room_id, issue_key, ticket_url, vote_value, points,
			status, error_message, requested_by, ip_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`),
		entry.ID,
		entry.RoomID,
		entry.IssueKey,
		entry.TicketURL,
		entry.Value,
		entry.Points,
		entry.Status,
		nullString(entry.ErrorMessage),
		entry.RequestedBy,
		nullString(entry.IPHash),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// ListByRoom returns the room's entries, newest first
func (l *SyncLog) ListByRoom(ctx context.Context, roomID string, limit int) ([]SyncEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := l.db.QueryContext(ctx, rebind(l.driverType, `
		SELECT id, room_id, issue_key, ticket_url, vote_value, points,
		       status, error_message, requested_by, ip_hash, created_at
		FROM sync_log
		WHERE room_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`), roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}
	defer rows.Close()

	entries := []SyncEntry{}
	for rows.Next() {
		var (
			e              SyncEntry
			errMsg, ipHash sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.RoomID, &e.IssueKey, &e.TicketURL, &e.Value, &e.Points,
			&e.Status, &errMsg, &e.RequestedBy, &ipHash, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync: %w", err)
		}
		e.ErrorMessage = errMsg.String
		e.IPHash = ipHash.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
