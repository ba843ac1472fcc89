// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web client.

# Request Types

Types for parsing incoming JSON:

  - CreateRoomRequest: roomName, userId, userName, avatar, authType
  - JoinRoomRequest: userId, userName, avatar, authType
  - VoteRequest: userId, value
  - OwnerActionRequest: userId (reveal, reset)
  - SetTicketRequest: userId, url, title
  - SyncRequest: userId, value (empty means consensus)
  - CreateGuestRequest: name, avatar, authType

# Response Types

Types for JSON responses:

  - CreateRoomResponse: roomId
  - SuccessResponse: success
  - SyncResponse: success, issueKey, value, points
  - SyncHistoryResponse: roomId, syncs
  - TrackerStatusResponse: configured
  - GuestIdentity: id, name, avatar, authType
  - DeckResponse: values, pollIntervalMs
  - ErrorResponse: error, message

# Domain Types

  - RoomSnapshot: redacted room state returned by every poll
  - Participant: member of a room with liveness
  - Ticket: url and title of the item under estimation
  - Summary: distribution and consensus, revealed rounds only
  - SyncLogEntry: one journaled tracker sync (the IP hash is never serialized)

NewRoomSnapshot and NewSyncLogEntries convert from the room and db packages.
*/
package models
