// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poker API.

# Handler Types

Each handler is a struct over the shared room directory:

  - RoomHandler: create, read (poll), join, reference deck
  - RoundHandler: vote, reveal, reset, set ticket
  - SyncHandler: push estimates to Jira, sync history, tracker status
  - GuestHandler: guest identity issuance

Handlers are created via constructor functions:

	roomHandler := handlers.NewRoomHandler(dir)
	syncHandler := handlers.NewSyncHandler(dir, jira, journal, cfg)

# Round Lifecycle

	POST /rooms                 → CreateRoom (returns roomId)
	POST /rooms/{id}/join       → JoinRoom
	POST /rooms/{id}/vote       → SubmitVote (409 once revealed)
	POST /rooms/{id}/reveal     → Reveal (owner only)
	POST /rooms/{id}/reset      → Reset (owner only)
	POST /rooms/{id}/ticket     → SetTicket (owner only, starts a new round)
	GET  /rooms/{id}?userId=    → GetRoom

Clients poll GetRoom every 1.5 seconds. Each poll is the requester's
heartbeat and runs the liveness pass, so idle participants are demoted
after 30 seconds and removed after 5 minutes. Votes stay masked until
reveal.

Identities are self-asserted: the userId in the body or query is trusted.
Room codes in the path are case-insensitive.

# Tracker Sync

	POST /rooms/{id}/sync  → SyncEstimate (owner only)
	GET  /rooms/{id}/syncs → ListSyncs
	GET  /tracker          → TrackerStatus

A sync with no value sends the revealed consensus. Every attempt the
tracker saw, accepted or rejected, is written to the sync journal.

# Error Mapping

	room.ErrRoomNotFound        → 404
	room.ErrNotAParticipant     → 403
	room.ErrForbidden           → 403
	room.ErrRoundClosed         → 409
	room.ErrValidation          → 400
	room.ErrTrackerUnconfigured → 400
	room.ErrTrackerRejected     → 502
*/
package handlers
