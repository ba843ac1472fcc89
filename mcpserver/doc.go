// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mcpserver exposes the room operations as Model Context Protocol tools.

The tools share the process Directory with the HTTP API, so an assistant and
a browser can sit in the same room:

	create_room   join_room    submit_vote  reveal_votes
	reset_round   set_ticket   get_room     sync_estimate

Identity is self-asserted like on the HTTP API: every tool takes the acting
participantId. Domain errors come back as tool errors carrying a code from
MapError (ROOM_NOT_FOUND, FORBIDDEN, ROUND_CLOSED, ...).

NewHTTPHandler serves the server over streamable HTTP; the router mounts it
at /mcp.
*/
package mcpserver
