// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
)

type RoomHandler struct {
	dir *room.Directory
}

func NewRoomHandler(dir *room.Directory) *RoomHandler {
	return &RoomHandler{dir: dir}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.RoomName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "roomName is required")
		return
	}
	if req.UserID == "" || req.UserName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId and userName are required")
		return
	}

	snap, err := h.dir.Create(req.RoomName, room.Identity{
		ID:       req.UserID,
		Name:     req.UserName,
		Avatar:   req.Avatar,
		AuthType: room.AuthType(req.AuthType),
	})
	if err != nil {
		roomError(w, err, "create rooms")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{RoomID: snap.ID})
}

// GetRoom handles GET /rooms/{id}?userId=
// Every call is a heartbeat for userId and runs the liveness pass.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	snap, err := h.dir.Read(id, r.URL.Query().Get("userId"))
	if err != nil {
		roomError(w, err, "read this room")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	middleware.JSONResponse(w, http.StatusOK, models.NewRoomSnapshot(snap))
}

// JoinRoom handles POST /rooms/{id}/join
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" || req.UserName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId and userName are required")
		return
	}

	err := h.dir.Join(id, room.Identity{
		ID:       req.UserID,
		Name:     req.UserName,
		Avatar:   req.Avatar,
		AuthType: room.AuthType(req.AuthType),
	})
	if err != nil {
		roomError(w, err, "join")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// GetDeck handles GET /deck
func (h *RoomHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.DeckResponse{
		Values:         room.ReferenceDeck,
		PollIntervalMS: room.PollInterval.Milliseconds(),
	})
}
