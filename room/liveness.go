// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"maps"
	"sort"
	"time"
)

// heartbeat marks id as seen at now. Unknown ids are ignored.
func heartbeat(r *Room, id string, now time.Time) {
	if p, ok := r.Participants[id]; ok {
		p.LastSeen = now
		p.Connected = true
	}
}

// ApplyLivenessPolicy demotes participants idle longer than DisconnectThreshold
// and removes those idle longer than RemoveThreshold, together with their vote.
// The owner is never removed, only marked disconnected.
// It returns the participants that were removed.
func ApplyLivenessPolicy(r *Room, now time.Time) []Participant {
	var removed []Participant
	for id, p := range r.Participants {
		age := now.Sub(p.LastSeen)
		switch {
		case age > RemoveThreshold && id != r.OwnerID:
			removed = append(removed, *p)
			delete(r.Participants, id)
			delete(r.Votes, id)
		case age > DisconnectThreshold:
			p.Connected = false
		}
	}
	return removed
}

// RedactVotes returns the outward vote view: raw values once revealed,
// MaskToken for every voter otherwise.
func RedactVotes(r *Room) map[string]string {
	if r.Revealed {
		return maps.Clone(r.Votes)
	}
	out := make(map[string]string, len(r.Votes))
	for id := range r.Votes {
		out[id] = MaskToken
	}
	return out
}

// snapshot builds the redacted view of r. Callers hold the room lock.
func snapshot(r *Room) Snapshot {
	s := Snapshot{
		ID:           r.ID,
		Name:         r.Name,
		OwnerID:      r.OwnerID,
		Participants: make([]Participant, 0, len(r.Participants)),
		Votes:        RedactVotes(r),
		Revealed:     r.Revealed,
		CreatedAt:    r.CreatedAt,
	}
	for _, p := range r.Participants {
		s.Participants = append(s.Participants, *p)
	}
	sort.Slice(s.Participants, func(i, j int) bool {
		a, b := s.Participants[i], s.Participants[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
	if r.Ticket != nil {
		t := *r.Ticket
		s.Ticket = &t
	}
	if r.Revealed {
		summary := Summarize(r.Votes)
		s.Summary = &summary
	}
	if s.Votes == nil {
		s.Votes = map[string]string{}
	}
	return s
}
