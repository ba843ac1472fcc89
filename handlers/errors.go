// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poker/auth"
	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/room"
)

// roomError writes the response for an engine failure.
// action completes "Only the room owner can ..." for ErrForbidden.
func roomError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, room.ErrNotAParticipant):
		middleware.ErrorResponse(w, http.StatusForbidden, "Not a participant of this room")
	case errors.Is(err, room.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the room owner can "+action)
	case errors.Is(err, room.ErrRoundClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Votes are revealed; wait for the next round")
	case errors.Is(err, room.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, detail(err, room.ErrValidation))
	case errors.Is(err, room.ErrTrackerUnconfigured):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Jira integration not configured")
	case errors.Is(err, room.ErrTrackerRejected):
		middleware.ErrorResponse(w, http.StatusBadGateway, detail(err, room.ErrTrackerRejected))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		middleware.ErrorResponse(w, http.StatusGatewayTimeout, "Jira did not answer in time")
	default:
		slog.Error("room operation failed", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// detail strips the sentinel prefix from a wrapped error message
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// roomID reads and normalizes the {id} path value.
// A malformed code can never name a room, so it is reported as not found.
func roomID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := auth.NormalizeRoomCode(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return "", false
	}
	return id, true
}
