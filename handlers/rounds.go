// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
	"github.com/danielhkuo/quickly-poker/tracker"
)

// titleLookupTimeout bounds the issue summary lookup on SetTicket
const titleLookupTimeout = 5 * time.Second

// Tracker is the issue tracker as the handlers use it
type Tracker interface {
	room.Tracker
	GetIssue(ctx context.Context, issueKey string) (tracker.Issue, error)
}

type RoundHandler struct {
	dir     *room.Directory
	tracker Tracker
}

func NewRoundHandler(dir *room.Directory, tracker Tracker) *RoundHandler {
	return &RoundHandler{dir: dir, tracker: tracker}
}

// SubmitVote handles POST /rooms/{id}/vote
func (h *RoundHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" || req.Value == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId and value are required")
		return
	}

	if err := h.dir.SubmitVote(id, req.UserID, req.Value); err != nil {
		roomError(w, err, "vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Reveal handles POST /rooms/{id}/reveal
func (h *RoundHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, "reveal votes", h.dir.Reveal)
}

// Reset handles POST /rooms/{id}/reset
func (h *RoundHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, "reset the round", h.dir.Reset)
}

func (h *RoundHandler) ownerAction(w http.ResponseWriter, r *http.Request, action string, fn func(roomID, callerID string) error) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	var req models.OwnerActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := fn(id, req.UserID); err != nil {
		roomError(w, err, action)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// SetTicket handles POST /rooms/{id}/ticket
// Without a title, the tracker issue summary is used when available, else the url.
func (h *RoundHandler) SetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	var req models.SetTicketRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.URL) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId and url are required")
		return
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		// only the owner of an existing room may cause a Jira lookup
		if err := h.dir.CheckOwner(id, req.UserID); err != nil {
			roomError(w, err, "change the ticket")
			return
		}
		title = h.lookupTitle(r.Context(), req.URL)
	}

	if err := h.dir.SetTicket(id, req.UserID, req.URL, title); err != nil {
		roomError(w, err, "change the ticket")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// lookupTitle returns the issue summary, or "" when it cannot be fetched
func (h *RoundHandler) lookupTitle(ctx context.Context, ticketURL string) string {
	if h.tracker == nil || !h.tracker.IsConfigured() {
		return ""
	}
	key, ok := h.tracker.ResolveIssueKey(ticketURL)
	if !ok {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, titleLookupTimeout)
	defer cancel()

	issue, err := h.tracker.GetIssue(ctx, key)
	if err != nil {
		slog.Warn("ticket title lookup failed", "issue_key", key, "error", err)
		return ""
	}
	return issue.Summary
}
