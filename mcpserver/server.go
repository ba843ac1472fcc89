// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mcpserver

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/room"
	"github.com/danielhkuo/quickly-poker/tracker"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

const serverInstructions = `Planning poker rooms.
Create a room with create_room, share its code, and let participants join_room.
Each participant votes with submit_vote; votes stay hidden ("?") until the owner calls reveal_votes.
Poll get_room with your participant id to stay connected and read the summary after reveal.
Owners can set_ticket, reset_round and sync_estimate to push the agreed points to the tracker.`

// Tracker is the issue tracker used by the sync and ticket tools.
type Tracker interface {
	room.Tracker
	GetIssue(ctx context.Context, issueKey string) (tracker.Issue, error)
}

// Config contains server dependencies. Tracker and Journal are optional.
type Config struct {
	Directory *room.Directory
	Tracker   Tracker
	Journal   *db.SyncLog
	Logger    *slog.Logger
}

// NewServer creates an MCP server exposing the room operations as tools.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "quickly-poker",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(toolCallLoggingMiddleware(cfg.Logger))
	server.AddSendingMiddleware(outboundLoggingMiddleware(cfg.Logger))

	registerTools(server, &tools{
		dir:     cfg.Directory,
		tracker: cfg.Tracker,
		journal: cfg.Journal,
		logger:  cfg.Logger,
	})

	return server
}
