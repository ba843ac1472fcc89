// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/danielhkuo/quickly-poker/auth"
	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/room"
)

const (
	syncTimeout        = 15 * time.Second
	titleLookupTimeout = 5 * time.Second
)

type tools struct {
	dir     *room.Directory
	tracker Tracker
	journal *db.SyncLog
	logger  *slog.Logger
}

// Tool inputs

type CreateRoomInput struct {
	Name      string `json:"name" jsonschema:"room display name"`
	OwnerID   string `json:"ownerId,omitempty" jsonschema:"participant id of the owner; a guest id is issued when omitted"`
	OwnerName string `json:"ownerName" jsonschema:"display name of the owner"`
	Avatar    string `json:"avatar,omitempty"`
}

type JoinRoomInput struct {
	RoomID        string `json:"roomId" jsonschema:"room code such as abc-1234"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name" jsonschema:"display name"`
	Avatar        string `json:"avatar,omitempty"`
}

type SubmitVoteInput struct {
	RoomID        string `json:"roomId"`
	ParticipantID string `json:"participantId"`
	Value         string `json:"value" jsonschema:"card value, usually one of 0 1 2 3 5 8 13 21 34 ? ☕"`
}

type OwnerActionInput struct {
	RoomID        string `json:"roomId"`
	ParticipantID string `json:"participantId" jsonschema:"must be the room owner"`
}

type SetTicketInput struct {
	RoomID        string `json:"roomId"`
	ParticipantID string `json:"participantId" jsonschema:"must be the room owner"`
	URL           string `json:"url" jsonschema:"ticket url, e.g. a Jira browse link"`
	Title         string `json:"title,omitempty" jsonschema:"defaults to the issue summary, else the url"`
}

type GetRoomInput struct {
	RoomID        string `json:"roomId"`
	ParticipantID string `json:"participantId,omitempty" jsonschema:"marks this participant as seen"`
}

type SyncEstimateInput struct {
	RoomID        string `json:"roomId"`
	ParticipantID string `json:"participantId" jsonschema:"must be the room owner"`
	Value         string `json:"value,omitempty" jsonschema:"numeric estimate; defaults to the revealed consensus"`
}

// Tool outputs

type CreateRoomOutput struct {
	RoomID  string `json:"roomId"`
	OwnerID string `json:"ownerId"`
}

type AckOutput struct {
	Success bool `json:"success"`
}

type SyncEstimateOutput struct {
	IssueKey string  `json:"issueKey"`
	Value    string  `json:"value"`
	Points   float64 `json:"points"`
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_room",
		Description: "Create a planning poker room owned by the caller",
	}, t.createRoom)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "join_room",
		Description: "Join a room, or refresh your name and presence if already in it",
	}, t.joinRoom)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_vote",
		Description: "Cast or replace your vote for the current round",
	}, t.submitVote)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reveal_votes",
		Description: "Reveal all votes of the current round (owner only)",
	}, t.revealVotes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_round",
		Description: "Clear the votes and start a new round (owner only)",
	}, t.resetRound)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_ticket",
		Description: "Set the ticket being estimated and start a new round (owner only)",
	}, t.setTicket)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_room",
		Description: "Read the room; votes are masked until revealed",
	}, t.getRoom)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sync_estimate",
		Description: "Write the estimate to the tracker issue of the current ticket (owner only)",
	}, t.syncEstimate)
}

func (t *tools) createRoom(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateRoomInput) (*sdkmcp.CallToolResult, CreateRoomOutput, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		ownerID = auth.NewGuestID()
	}
	snap, err := t.dir.Create(in.Name, room.Identity{
		ID:     ownerID,
		Name:   in.OwnerName,
		Avatar: in.Avatar,
	})
	if err != nil {
		return nil, CreateRoomOutput{}, mapError(err)
	}
	return nil, CreateRoomOutput{RoomID: snap.ID, OwnerID: ownerID}, nil
}

func (t *tools) joinRoom(ctx context.Context, _ *sdkmcp.CallToolRequest, in JoinRoomInput) (*sdkmcp.CallToolResult, RoomView, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, RoomView{}, err
	}
	if err := t.dir.Join(id, room.Identity{ID: in.ParticipantID, Name: in.Name, Avatar: in.Avatar}); err != nil {
		return nil, RoomView{}, mapError(err)
	}
	return t.read(id, in.ParticipantID)
}

func (t *tools) submitVote(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitVoteInput) (*sdkmcp.CallToolResult, AckOutput, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, AckOutput{}, err
	}
	if err := t.dir.SubmitVote(id, in.ParticipantID, in.Value); err != nil {
		return nil, AckOutput{}, mapError(err)
	}
	return nil, AckOutput{Success: true}, nil
}

func (t *tools) revealVotes(ctx context.Context, _ *sdkmcp.CallToolRequest, in OwnerActionInput) (*sdkmcp.CallToolResult, RoomView, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, RoomView{}, err
	}
	if err := t.dir.Reveal(id, in.ParticipantID); err != nil {
		return nil, RoomView{}, mapError(err)
	}
	return t.read(id, in.ParticipantID)
}

func (t *tools) resetRound(ctx context.Context, _ *sdkmcp.CallToolRequest, in OwnerActionInput) (*sdkmcp.CallToolResult, AckOutput, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, AckOutput{}, err
	}
	if err := t.dir.Reset(id, in.ParticipantID); err != nil {
		return nil, AckOutput{}, mapError(err)
	}
	return nil, AckOutput{Success: true}, nil
}

func (t *tools) setTicket(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetTicketInput) (*sdkmcp.CallToolResult, TicketView, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, TicketView{}, err
	}

	title := in.Title
	if strings.TrimSpace(title) == "" {
		if err := t.dir.CheckOwner(id, in.ParticipantID); err != nil {
			return nil, TicketView{}, mapError(err)
		}
		title = t.lookupTitle(ctx, in.URL)
	}
	if err := t.dir.SetTicket(id, in.ParticipantID, in.URL, title); err != nil {
		return nil, TicketView{}, mapError(err)
	}

	r, _ := t.dir.Get(id)
	if r.Ticket == nil {
		return nil, TicketView{URL: in.URL, Title: title}, nil
	}
	return nil, TicketView{URL: r.Ticket.URL, Title: r.Ticket.Title}, nil
}

func (t *tools) getRoom(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRoomInput) (*sdkmcp.CallToolResult, RoomView, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, RoomView{}, err
	}
	return t.read(id, in.ParticipantID)
}

func (t *tools) syncEstimate(ctx context.Context, _ *sdkmcp.CallToolRequest, in SyncEstimateInput) (*sdkmcp.CallToolResult, SyncEstimateOutput, error) {
	id, err := normalize(in.RoomID)
	if err != nil {
		return nil, SyncEstimateOutput{}, err
	}

	syncCtx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	result, err := t.dir.SyncEstimate(syncCtx, t.tracker, id, in.ParticipantID, in.Value)
	switch {
	case err == nil:
		t.record(ctx, result, in.ParticipantID, nil)
	case errors.Is(err, room.ErrTrackerRejected):
		t.record(ctx, result, in.ParticipantID, err)
		return nil, SyncEstimateOutput{}, mapError(err)
	default:
		return nil, SyncEstimateOutput{}, mapError(err)
	}

	return nil, SyncEstimateOutput{
		IssueKey: result.IssueKey,
		Value:    result.Value,
		Points:   result.Points,
	}, nil
}

func (t *tools) read(id, participantID string) (*sdkmcp.CallToolResult, RoomView, error) {
	snap, err := t.dir.Read(id, participantID)
	if err != nil {
		return nil, RoomView{}, mapError(err)
	}
	return nil, newRoomView(snap), nil
}

func (t *tools) lookupTitle(ctx context.Context, ticketURL string) string {
	if t.tracker == nil || !t.tracker.IsConfigured() {
		return ""
	}
	key, ok := t.tracker.ResolveIssueKey(ticketURL)
	if !ok {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, titleLookupTimeout)
	defer cancel()

	issue, err := t.tracker.GetIssue(ctx, key)
	if err != nil {
		t.logger.Warn("ticket title lookup failed", "issue_key", key, "error", err)
		return ""
	}
	return issue.Summary
}

// record journals a sync attempt. MCP callers have no client address, so
// the entry carries no ip hash.
func (t *tools) record(ctx context.Context, result room.SyncResult, requestedBy string, syncErr error) {
	if t.journal == nil {
		return
	}

	entry := &db.SyncEntry{
		RoomID:      result.RoomID,
		IssueKey:    result.IssueKey,
		TicketURL:   result.TicketURL,
		Value:       result.Value,
		Points:      result.Points,
		Status:      db.SyncStatusSynced,
		RequestedBy: requestedBy,
	}
	if syncErr != nil {
		entry.Status = db.SyncStatusFailed
		entry.ErrorMessage = strings.TrimPrefix(syncErr.Error(), room.ErrTrackerRejected.Error()+": ")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := t.journal.Record(ctx, entry); err != nil {
		t.logger.Error("failed to record sync", "room_id", result.RoomID, "issue_key", result.IssueKey, "error", err)
	}
}

func normalize(roomID string) (string, error) {
	id, err := auth.NormalizeRoomCode(roomID)
	if err != nil {
		return "", MapError(room.ErrRoomNotFound)
	}
	return id, nil
}
