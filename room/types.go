// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"maps"
	"time"
)

// Observable timing contract.
const (
	DisconnectThreshold = 30 * time.Second
	RemoveThreshold     = 300 * time.Second
	PollInterval        = 1500 * time.Millisecond
)

// MaxNameLength bounds participant display names, in characters.
const MaxNameLength = 64

// MaskToken replaces vote values before reveal.
const MaskToken = "?"

// ReferenceDeck is the card set offered to clients. Any string is accepted as a vote.
var ReferenceDeck = []string{"0", "1", "2", "3", "5", "8", "13", "21", "34", "?", "☕"}

// Role is fixed when a participant first enters the room.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// AuthType records where an identity came from. Informational only.
type AuthType string

const (
	AuthGuest  AuthType = "guest"
	AuthGoogle AuthType = "google"
)

// Identity is what a client asserts about itself on create and join.
type Identity struct {
	ID       string
	Name     string
	Avatar   string
	AuthType AuthType
}

// Participant is one identity inside a room.
type Participant struct {
	ID        string
	Name      string
	Avatar    string
	AuthType  AuthType
	Role      Role
	JoinedAt  time.Time
	LastSeen  time.Time
	Connected bool
}

// Ticket is the work item currently being estimated.
type Ticket struct {
	URL   string
	Title string
}

// Room is the authoritative state of one estimation session.
type Room struct {
	ID           string
	Name         string
	OwnerID      string
	Participants map[string]*Participant
	Votes        map[string]string
	Ticket       *Ticket
	Revealed     bool
	CreatedAt    time.Time
}

// clone returns a deep copy that shares nothing with r.
func (r *Room) clone() Room {
	out := *r
	out.Participants = make(map[string]*Participant, len(r.Participants))
	for id, p := range r.Participants {
		cp := *p
		out.Participants[id] = &cp
	}
	out.Votes = maps.Clone(r.Votes)
	if out.Votes == nil {
		out.Votes = map[string]string{}
	}
	if r.Ticket != nil {
		t := *r.Ticket
		out.Ticket = &t
	}
	return out
}

// startRound clears the in-flight round.
func (r *Room) startRound() {
	r.Votes = map[string]string{}
	r.Revealed = false
}

// Snapshot is the redacted view returned by Read.
type Snapshot struct {
	ID           string
	Name         string
	OwnerID      string
	Participants []Participant
	Votes        map[string]string
	Ticket       *Ticket
	Revealed     bool
	CreatedAt    time.Time
	// Summary is only set once votes are revealed.
	Summary *Summary
}
