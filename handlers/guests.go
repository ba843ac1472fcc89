// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poker/auth"
	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
)

type GuestHandler struct{}

func NewGuestHandler() *GuestHandler {
	return &GuestHandler{}
}

// CreateGuest handles POST /guests
// Issues a fresh identity the client keeps and sends as userId.
func (h *GuestHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGuestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len([]rune(name)) > room.MaxNameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is too long")
		return
	}

	authType := room.AuthType(req.AuthType)
	switch authType {
	case "":
		authType = room.AuthGuest
	case room.AuthGuest, room.AuthGoogle:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "authType must be one of: guest, google")
		return
	}

	guest := models.GuestIdentity{
		ID:       auth.NewGuestID(),
		Name:     name,
		Avatar:   req.Avatar,
		AuthType: string(authType),
	}

	slog.Info("guest identity issued", "guest_id", guest.ID, "auth_type", guest.AuthType)
	middleware.JSONResponse(w, http.StatusCreated, guest)
}
