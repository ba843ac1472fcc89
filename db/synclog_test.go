// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	assert.NoError(t, db.CreateSchema(conn))
}

func TestSyncLog_RecordAndList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	journal := db.NewSyncLog(conn, db.DriverSQLite)
	ctx := context.Background()

	base := testutil.Epoch
	first := &db.SyncEntry{
		RoomID:      "abc-1234",
		IssueKey:    "PROJ-1",
		TicketURL:   "https://acme.atlassian.net/browse/PROJ-1",
		Value:       "5",
		Points:      5,
		Status:      db.SyncStatusSynced,
		RequestedBy: "owner-1",
		IPHash:      "deadbeef",
		CreatedAt:   base,
	}
	second := &db.SyncEntry{
		RoomID:       "abc-1234",
		IssueKey:     "PROJ-2",
		TicketURL:    "https://acme.atlassian.net/browse/PROJ-2",
		Value:        "8",
		Points:       8,
		Status:       db.SyncStatusFailed,
		ErrorMessage: "Field 'story_points' cannot be set.",
		RequestedBy:  "owner-1",
		CreatedAt:    base.Add(time.Minute),
	}
	other := &db.SyncEntry{
		RoomID:      "xyz-9999",
		IssueKey:    "OPS-7",
		TicketURL:   "OPS-7",
		Value:       "3",
		Points:      3,
		Status:      db.SyncStatusSynced,
		RequestedBy: "someone",
		CreatedAt:   base,
	}

	for _, e := range []*db.SyncEntry{first, second, other} {
		require.NoError(t, journal.Record(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	entries, err := journal.ListByRoom(ctx, "abc-1234", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "PROJ-2", entries[0].IssueKey)
	assert.Equal(t, db.SyncStatusFailed, entries[0].Status)
	assert.Equal(t, "Field 'story_points' cannot be set.", entries[0].ErrorMessage)
	assert.Empty(t, entries[0].IPHash)

	assert.Equal(t, "PROJ-1", entries[1].IssueKey)
	assert.Equal(t, 5.0, entries[1].Points)
	assert.Equal(t, "deadbeef", entries[1].IPHash)
	assert.True(t, base.Equal(entries[1].CreatedAt), "created_at round trip: %v", entries[1].CreatedAt)

	limited, err := journal.ListByRoom(ctx, "abc-1234", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "PROJ-2", limited[0].IssueKey)

	none, err := journal.ListByRoom(ctx, "nop-0000", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSyncLog_RecordInvalid(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	journal := db.NewSyncLog(conn, db.DriverSQLite)

	tests := []struct {
		name  string
		entry db.SyncEntry
	}{
		{"missing room", db.SyncEntry{IssueKey: "P-1", RequestedBy: "u", Status: db.SyncStatusSynced}},
		{"missing issue key", db.SyncEntry{RoomID: "abc-1234", RequestedBy: "u", Status: db.SyncStatusSynced}},
		{"missing requester", db.SyncEntry{RoomID: "abc-1234", IssueKey: "P-1", Status: db.SyncStatusSynced}},
		{"unknown status", db.SyncEntry{RoomID: "abc-1234", IssueKey: "P-1", RequestedBy: "u", Status: "pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := journal.Record(context.Background(), &tt.entry)
			assert.ErrorIs(t, err, db.ErrInvalidEntry)
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := db.Open("mysql", "whatever")
	assert.Error(t, err)
}
