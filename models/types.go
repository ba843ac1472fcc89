// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
	AuthType string `json:"authType,omitempty"`
}

type JoinRoomRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
	AuthType string `json:"authType,omitempty"`
}

type VoteRequest struct {
	UserID string `json:"userId"`
	Value  string `json:"value"`
}

// OwnerActionRequest is the body of reveal and reset
type OwnerActionRequest struct {
	UserID string `json:"userId"`
}

type SetTicketRequest struct {
	UserID string `json:"userId"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
}

// Value empty means "sync the revealed consensus"
type SyncRequest struct {
	UserID string `json:"userId"`
	Value  string `json:"value,omitempty"`
}

type CreateGuestRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	AuthType string `json:"authType,omitempty"`
}

// Response types

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type SyncResponse struct {
	Success  bool    `json:"success"`
	IssueKey string  `json:"issueKey"`
	Value    string  `json:"value"`
	Points   float64 `json:"points"`
}

type SyncHistoryResponse struct {
	RoomID string         `json:"roomId"`
	Syncs  []SyncLogEntry `json:"syncs"`
}

type TrackerStatusResponse struct {
	Configured bool `json:"configured"`
}

type GuestIdentity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	AuthType string `json:"authType"`
}

type DeckResponse struct {
	Values         []string `json:"values"`
	PollIntervalMS int64    `json:"pollIntervalMs"`
}

// Domain types

type Participant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	AuthType  string    `json:"authType"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
	LastSeen  time.Time `json:"lastSeen"`
	Connected bool      `json:"connected"`
}

type Ticket struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Summary struct {
	VoteCount      int            `json:"voteCount"`
	Distribution   map[string]int `json:"distribution"`
	Average        *float64       `json:"average,omitempty"`
	Median         *float64       `json:"median,omitempty"`
	Consensus      bool           `json:"consensus"`
	ConsensusValue string         `json:"consensusValue,omitempty"`
}

// RoomSnapshot is what a poll of GET /rooms/{id} returns.
// Votes hold the mask token until Revealed is true.
type RoomSnapshot struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	OwnerID      string            `json:"ownerId"`
	Participants []Participant     `json:"participants"`
	Votes        map[string]string `json:"votes"`
	Ticket       *Ticket           `json:"ticket,omitempty"`
	Revealed     bool              `json:"revealed"`
	CreatedAt    time.Time         `json:"createdAt"`
	Summary      *Summary          `json:"summary,omitempty"`
}

type SyncLogEntry struct {
	ID          string    `json:"id"`
	IssueKey    string    `json:"issueKey"`
	TicketURL   string    `json:"ticketUrl"`
	Value       string    `json:"value"`
	Points      float64   `json:"points"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	RequestedBy string    `json:"requestedBy"`
	IPHash      string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
