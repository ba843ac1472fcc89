// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-poker/cliparse"
	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/handlers"
	"github.com/danielhkuo/quickly-poker/mcpserver"
	"github.com/danielhkuo/quickly-poker/middleware"
	"github.com/danielhkuo/quickly-poker/room"
)

// NewRouter wires every endpoint to dir. jira and journal may be nil.
func NewRouter(dir *room.Directory, jira handlers.Tracker, journal *db.SyncLog, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(dir)
	roundHandler := handlers.NewRoundHandler(dir, jira)
	syncHandler := handlers.NewSyncHandler(dir, jira, journal, cfg)
	guestHandler := handlers.NewGuestHandler()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rooms
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/{id}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("POST /rooms/{id}/join", middleware.WithLogging(roomHandler.JoinRoom))

	// Rounds
	mux.HandleFunc("POST /rooms/{id}/vote", middleware.WithLogging(roundHandler.SubmitVote))
	mux.HandleFunc("POST /rooms/{id}/reveal", middleware.WithLogging(roundHandler.Reveal))
	mux.HandleFunc("POST /rooms/{id}/reset", middleware.WithLogging(roundHandler.Reset))
	mux.HandleFunc("POST /rooms/{id}/ticket", middleware.WithLogging(roundHandler.SetTicket))

	// Tracker sync
	mux.HandleFunc("POST /rooms/{id}/sync", middleware.WithLogging(syncHandler.SyncEstimate))
	mux.HandleFunc("GET /rooms/{id}/syncs", middleware.WithLogging(syncHandler.ListSyncs))
	mux.HandleFunc("GET /tracker", middleware.WithLogging(syncHandler.TrackerStatus))

	// Identities and reference data
	mux.HandleFunc("POST /guests", middleware.WithLogging(guestHandler.CreateGuest))
	mux.HandleFunc("GET /deck", middleware.WithLogging(roomHandler.GetDeck))

	// MCP (streamable HTTP, logs its own traffic)
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(mcpserver.NewServer(mcpserver.Config{
		Directory: dir,
		Tracker:   jira,
		Journal:   journal,
		Logger:    slog.Default(),
	})))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poker API v1"))
	})

	return mux
}
