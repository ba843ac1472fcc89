// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mcpserver

import (
	"time"

	"github.com/danielhkuo/quickly-poker/room"
)

// Tool results carry timestamps as RFC 3339 strings so the inferred output
// schemas stay plain JSON types.

type RoomView struct {
	RoomID       string            `json:"roomId"`
	Name         string            `json:"name"`
	OwnerID      string            `json:"ownerId"`
	Revealed     bool              `json:"revealed"`
	CreatedAt    string            `json:"createdAt"`
	Participants []ParticipantView `json:"participants"`
	Votes        map[string]string `json:"votes" jsonschema:"vote per participant id, masked until revealed"`
	Ticket       *TicketView       `json:"ticket,omitempty"`
	Summary      *SummaryView      `json:"summary,omitempty"`
}

type ParticipantView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	AuthType  string `json:"authType"`
	Role      string `json:"role"`
	Connected bool   `json:"connected"`
	JoinedAt  string `json:"joinedAt"`
	LastSeen  string `json:"lastSeen"`
}

type TicketView struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type SummaryView struct {
	VoteCount      int            `json:"voteCount"`
	Distribution   map[string]int `json:"distribution"`
	Average        *float64       `json:"average,omitempty"`
	Median         *float64       `json:"median,omitempty"`
	Consensus      bool           `json:"consensus"`
	ConsensusValue string         `json:"consensusValue,omitempty"`
}

func newRoomView(s room.Snapshot) RoomView {
	v := RoomView{
		RoomID:       s.ID,
		Name:         s.Name,
		OwnerID:      s.OwnerID,
		Revealed:     s.Revealed,
		CreatedAt:    timestamp(s.CreatedAt),
		Participants: make([]ParticipantView, 0, len(s.Participants)),
		Votes:        s.Votes,
	}
	if v.Votes == nil {
		v.Votes = map[string]string{}
	}
	for _, p := range s.Participants {
		v.Participants = append(v.Participants, ParticipantView{
			ID:        p.ID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			AuthType:  string(p.AuthType),
			Role:      string(p.Role),
			Connected: p.Connected,
			JoinedAt:  timestamp(p.JoinedAt),
			LastSeen:  timestamp(p.LastSeen),
		})
	}
	if s.Ticket != nil {
		v.Ticket = &TicketView{URL: s.Ticket.URL, Title: s.Ticket.Title}
	}
	if s.Summary != nil {
		v.Summary = &SummaryView{
			VoteCount:      s.Summary.VoteCount,
			Distribution:   s.Summary.Distribution,
			Average:        s.Summary.Average,
			Median:         s.Summary.Median,
			Consensus:      s.Summary.Consensus,
			ConsensusValue: s.Summary.ConsensusValue,
		}
	}
	return v
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
