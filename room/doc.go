// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package room holds the in-memory state of planning poker rooms.

# Directory

A Directory is the single registry of rooms for a process. It is created in
main and passed to the handlers; tests build as many as they need:

	dir := room.NewDirectory(room.WithLogger(logger))
	snap, err := dir.Create("Sprint 42", room.Identity{ID: "u1", Name: "Ada"})

Rooms live for the lifetime of the process. Nothing is persisted.

# Rounds

Each room runs one round at a time:

	open → (SubmitVote)* → revealed → (Reset | SetTicket) → open

Votes are rejected with ErrRoundClosed while revealed. Reveal, Reset and
SetTicket are reserved to the owner and fail with ErrForbidden for anyone
else. A rejected operation leaves the room untouched.

# Liveness

There is no background sweeper. Every Read heartbeats the requester, then
runs ApplyLivenessPolicy:

  - idle > DisconnectThreshold (30s): participant marked disconnected
  - idle > RemoveThreshold (300s): participant and its vote removed

The owner is never removed, so owner-only operations stay reachable.

# Redaction

Before reveal, Read returns MaskToken for every participant that voted and
omits the others. Raw values are only visible after reveal, when the
snapshot also carries a Summary (distribution, numeric average and median,
consensus).

# Tracker Sync

SyncEstimate sends a numeric estimate to the issue behind the current
ticket. It checks ownership under the room lock, releases the lock, then
calls the Tracker. Identical concurrent syncs share one tracker call.
*/
package room
