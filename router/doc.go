// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poker API.

NewRouter creates a configured http.ServeMux over one room Directory:

	mux := router.NewRouter(dir, jiraClient, journal, cfg)

# Endpoints

Health:

	GET /health

Rooms:

	POST /rooms            - Create room (caller becomes owner)
	GET  /rooms/{id}       - Poll room state (?userId= heartbeats)
	POST /rooms/{id}/join  - Join or refresh identity

Rounds:

	POST /rooms/{id}/vote   - Cast or replace a vote
	POST /rooms/{id}/reveal - Reveal votes (owner)
	POST /rooms/{id}/reset  - New round (owner)
	POST /rooms/{id}/ticket - Change ticket, new round (owner)

Tracker:

	POST /rooms/{id}/sync  - Push estimate to Jira (owner)
	GET  /rooms/{id}/syncs - Sync history, newest first
	GET  /tracker          - Whether Jira is configured

Other:

	POST /guests - Issue a guest identity
	GET  /deck   - Card values and poll interval
	/mcp         - Model Context Protocol endpoint

Every route except /health, / and /mcp is wrapped with middleware.WithLogging.
*/
package router
