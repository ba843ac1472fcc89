// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-poker/auth"
	"github.com/danielhkuo/quickly-poker/cliparse"
	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
)

// syncTimeout bounds one tracker round trip
const syncTimeout = 15 * time.Second

type SyncHandler struct {
	dir     *room.Directory
	tracker Tracker
	journal *db.SyncLog
	cfg     cliparse.Config
}

// NewSyncHandler creates the handler. A nil journal disables sync history.
func NewSyncHandler(dir *room.Directory, tracker Tracker, journal *db.SyncLog, cfg cliparse.Config) *SyncHandler {
	return &SyncHandler{dir: dir, tracker: tracker, journal: journal, cfg: cfg}
}

// SyncEstimate handles POST /rooms/{id}/sync
func (h *SyncHandler) SyncEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	var req models.SyncRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncTimeout)
	defer cancel()

	result, err := h.dir.SyncEstimate(ctx, h.tracker, id, req.UserID, req.Value)

	switch {
	case err == nil:
		h.record(r, result, req.UserID, nil)
	case errors.Is(err, room.ErrTrackerRejected):
		h.record(r, result, req.UserID, err)
		roomError(w, err, "sync estimates")
		return
	default:
		roomError(w, err, "sync estimates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SyncResponse{
		Success:  true,
		IssueKey: result.IssueKey,
		Value:    result.Value,
		Points:   result.Points,
	})
}

// record appends the attempt to the journal. Failures are logged only:
// the tracker has already been called.
func (h *SyncHandler) record(r *http.Request, result room.SyncResult, requestedBy string, syncErr error) {
	if h.journal == nil {
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
		IPHash:      auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
	}
	if syncErr != nil {
		entry.Status = db.SyncStatusFailed
		entry.ErrorMessage = detail(syncErr, room.ErrTrackerRejected)
	}

	// detached from the request so a disconnecting client does not drop the row
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()

	if err := h.journal.Record(ctx, entry); err != nil {
		slog.Error("failed to record sync", "room_id", result.RoomID, "issue_key", result.IssueKey, "error", err)
	}
}

// ListSyncs handles GET /rooms/{id}/syncs?limit=
func (h *SyncHandler) ListSyncs(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}
	if _, exists := h.dir.Get(id); !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	resp := models.SyncHistoryResponse{RoomID: id, Syncs: []models.SyncLogEntry{}}
	if h.journal != nil {
		entries, err := h.journal.ListByRoom(r.Context(), id, limit)
		if err != nil {
			slog.Error("failed to list syncs", "room_id", id, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		resp.Syncs = models.NewSyncLogEntries(entries)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// TrackerStatus handles GET /tracker
func (h *SyncHandler) TrackerStatus(w http.ResponseWriter, r *http.Request) {
	configured := h.tracker != nil && h.tracker.IsConfigured()
	middleware.JSONResponse(w, http.StatusOK, models.TrackerStatusResponse{Configured: configured})
}
