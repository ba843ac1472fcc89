// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import "errors"

var (
	// ErrRoomNotFound is returned when the room code is unknown.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotAParticipant is returned when the acting id never joined the room.
	ErrNotAParticipant = errors.New("not a participant")
	// ErrForbidden is returned when a non-owner calls an owner-only operation.
	ErrForbidden = errors.New("forbidden")
	// ErrRoundClosed is returned for votes submitted after reveal.
	ErrRoundClosed = errors.New("round closed")
	// ErrValidation wraps missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrTrackerUnconfigured is returned when a sync is requested without tracker credentials.
	ErrTrackerUnconfigured = errors.New("tracker not configured")
	// ErrTrackerRejected wraps a failure reported by the tracker.
	ErrTrackerRejected = errors.New("tracker rejected estimate")
	// ErrCodeSpaceExhausted is returned when no free room code was found.
	ErrCodeSpaceExhausted = errors.New("could not allocate a free room code")
)
