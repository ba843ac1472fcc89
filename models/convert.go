// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/room"
)

// NewRoomSnapshot converts an engine snapshot to its wire form
func NewRoomSnapshot(s room.Snapshot) RoomSnapshot {
	out := RoomSnapshot{
		ID:           s.ID,
		Name:         s.Name,
		OwnerID:      s.OwnerID,
		Participants: make([]Participant, 0, len(s.Participants)),
		Votes:        s.Votes,
		Revealed:     s.Revealed,
		CreatedAt:    s.CreatedAt,
	}
	if out.Votes == nil {
		out.Votes = map[string]string{}
	}
	for _, p := range s.Participants {
		out.Participants = append(out.Participants, Participant{
			ID:        p.ID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			AuthType:  string(p.AuthType),
			Role:      string(p.Role),
			JoinedAt:  p.JoinedAt,
			LastSeen:  p.LastSeen,
			Connected: p.Connected,
		})
	}
	if s.Ticket != nil {
		out.Ticket = &Ticket{URL: s.Ticket.URL, Title: s.Ticket.Title}
	}
	if s.Summary != nil {
		out.Summary = &Summary{
			VoteCount:      s.Summary.VoteCount,
			Distribution:   s.Summary.Distribution,
			Average:        s.Summary.Average,
			Median:         s.Summary.Median,
			Consensus:      s.Summary.Consensus,
			ConsensusValue: s.Summary.ConsensusValue,
		}
	}
	return out
}

// NewSyncLogEntries converts journal rows to their wire form
func NewSyncLogEntries(entries []db.SyncEntry) []SyncLogEntry {
	out := make([]SyncLogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, SyncLogEntry{
			ID:          e.ID,
			IssueKey:    e.IssueKey,
			TicketURL:   e.TicketURL,
			Value:       e.Value,
			Points:      e.Points,
			Status:      e.Status,
			Error:       e.ErrorMessage,
			RequestedBy: e.RequestedBy,
			IPHash:      e.IPHash,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
