// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-poker/room"
)

// APIError is the error reported back to MCP clients as a tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps room errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return &APIError{Code: "ROOM_NOT_FOUND", Message: "room not found", RecoveryHint: "Check the room code"}
	case errors.Is(err, room.ErrNotAParticipant):
		return &APIError{Code: "NOT_A_PARTICIPANT", Message: "not a participant", RecoveryHint: "Call join_room first"}
	case errors.Is(err, room.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "only the room owner can do this"}
	case errors.Is(err, room.ErrRoundClosed):
		return &APIError{Code: "ROUND_CLOSED", Message: "votes are already revealed", RecoveryHint: "Wait for the owner to reset the round"}
	case errors.Is(err, room.ErrValidation):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, room.ErrTrackerUnconfigured):
		return &APIError{Code: "TRACKER_NOT_CONFIGURED", Message: "issue tracker is not configured"}
	case errors.Is(err, room.ErrTrackerRejected):
		return &APIError{Code: "TRACKER_REJECTED", Message: err.Error()}
	case errors.Is(err, room.ErrCodeSpaceExhausted):
		return &APIError{Code: "UNAVAILABLE", Message: err.Error(), RecoveryHint: "Retry later"}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &APIError{Code: "TIMEOUT", Message: "tracker did not answer in time", RecoveryHint: "Retry the sync"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
