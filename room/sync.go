// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// TrackerCallTimeout bounds one shared tracker call. The call is detached
// from any single caller, so cancelling one request does not fail the others.
const TrackerCallTimeout = 15 * time.Second

// Tracker is the issue tracker that receives consensus estimates.
type Tracker interface {
	IsConfigured() bool
	ResolveIssueKey(ticketURL string) (string, bool)
	ApplyEstimate(ctx context.Context, issueKey string, points float64) error
}

// SyncResult describes an estimate accepted by the tracker.
type SyncResult struct {
	RoomID    string
	TicketURL string
	IssueKey  string
	Value     string
	Points    float64
}

// SyncEstimate pushes value to the tracker issue behind the room's ticket.
// An empty value means the consensus value of the revealed round.
//
// Only the owner may sync, and only when the tracker is configured, a ticket
// is set and the value is numeric. The room lock is released before the
// tracker is called; the outcome never feeds back into room state.
// On ErrTrackerRejected the returned result still describes the attempt.
// When ctx ends first, ctx.Err() is returned and the call is left to finish
// for any other caller sharing it.
func (d *Directory) SyncEstimate(ctx context.Context, tracker Tracker, roomID, callerID, value string) (SyncResult, error) {
	var (
		ticket    *Ticket
		revealed  bool
		consensus Summary
	)
	err := d.with(roomID, func(r *Room) error {
		if callerID != r.OwnerID {
			return ErrForbidden
		}
		if r.Ticket != nil {
			t := *r.Ticket
			ticket = &t
		}
		revealed = r.Revealed
		if revealed {
			consensus = Summarize(r.Votes)
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	if tracker == nil || !tracker.IsConfigured() {
		return SyncResult{}, ErrTrackerUnconfigured
	}
	if ticket == nil {
		return SyncResult{}, fmt.Errorf("%w: no ticket set for this room", ErrValidation)
	}
	issueKey, ok := tracker.ResolveIssueKey(ticket.URL)
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: cannot extract an issue key from %q", ErrValidation, ticket.URL)
	}

	if value == "" {
		switch {
		case !revealed:
			return SyncResult{}, fmt.Errorf("%w: votes are not revealed", ErrValidation)
		case !consensus.Consensus:
			return SyncResult{}, fmt.Errorf("%w: no consensus to sync", ErrValidation)
		}
		value = consensus.ConsensusValue
	}
	points, ok := ParsePoints(value)
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: %q is not a valid story point value", ErrValidation, value)
	}

	result := SyncResult{
		RoomID:    roomID,
		TicketURL: ticket.URL,
		IssueKey:  issueKey,
		Value:     value,
		Points:    points,
	}

	key := roomID + "\x00" + issueKey + "\x00" + strconv.FormatFloat(points, 'g', -1, 64)
	ch := d.syncs.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), TrackerCallTimeout)
		defer cancel()
		return nil, tracker.ApplyEstimate(callCtx, issueKey, points)
	})

	var shared bool
	select {
	case res := <-ch:
		err, shared = res.Err, res.Shared
	case <-ctx.Done():
		// the shared call keeps running for the remaining callers
		d.logger.Warn("tracker sync abandoned by caller", "room_id", roomID, "issue_key", issueKey, "error", ctx.Err())
		return result, ctx.Err()
	}
	if err != nil {
		d.logger.Warn("tracker sync failed", "room_id", roomID, "issue_key", issueKey, "error", err)
		return result, fmt.Errorf("%w: %s", ErrTrackerRejected, err.Error())
	}

	d.logger.Info("estimate synced", "room_id", roomID, "issue_key", issueKey, "points", points, "shared", shared)
	return result, nil
}
