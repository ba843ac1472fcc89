// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poker API server.

Quickly Poker runs planning poker rooms: an owner creates a room, teammates
join with a self-asserted identity, everyone votes on the current ticket, and
votes stay hidden until the owner reveals them. Clients poll the room every
1.5s; polling doubles as presence.

# Starting the Server

Everything has a default, so a bare start works with a local sqlite journal:

	go run .

With flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jira-base-url https://acme.atlassian.net

# Configuration

Settings come from defaults, an optional YAML file (-c / POKER_CONFIG), the
environment (after .env is loaded), then CLI flags. See package cliparse.

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t), DATABASE_URL (-d): sync journal (default: sqlite file)
  - JIRA_BASE_URL, JIRA_EMAIL, JIRA_API_TOKEN: enable estimate sync
  - LOG_LEVEL: debug, info, warn or error

# Architecture

Room state lives in memory only; the database holds the tracker sync journal.

  - room: Directory, round lifecycle, liveness, redaction, consensus
  - handlers: HTTP request handlers (rooms, rounds, sync, guests)
  - mcpserver: the same operations as MCP tools at /mcp
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - tracker: Jira client
  - auth: Room codes and guest ids
  - db: Sync journal
  - cliparse: Configuration parsing

SIGINT and SIGTERM drain the HTTP server before the journal is closed.
*/
package main
