// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolCallLoggingMiddleware logs every inbound tool call at info with the
// tool, room and participant it targets. Other methods are logged at debug.
func toolCallLoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)

			if method != "tools/call" {
				if !strings.HasPrefix(method, "notifications/") {
					logger.Debug("mcp request", "method", method, "session_id", sessionID(req), "duration", time.Since(start), "error", err)
				}
				return result, err
			}

			call := describeToolCall(req)
			attrs := []any{
				"tool", call.Tool,
				"room_id", call.RoomID,
				"participant_id", call.ParticipantID,
				"session_id", sessionID(req),
				"duration", time.Since(start),
			}
			switch res, _ := result.(*sdkmcp.CallToolResult); {
			case err != nil:
				logger.Warn("mcp tool call failed", append(attrs, "error", err)...)
			case res != nil && res.IsError:
				logger.Info("mcp tool call rejected", append(attrs, "reason", toolErrorText(res))...)
			default:
				logger.Info("mcp tool call", attrs...)
			}
			return result, err
		}
	}
}

// outboundLoggingMiddleware logs server-initiated messages at debug.
func outboundLoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Debug("mcp outbound", "method", method, "session_id", sessionID(req))
			}
			return next(ctx, method, req)
		}
	}
}

type toolCall struct {
	Tool          string
	RoomID        string
	ParticipantID string
}

// describeToolCall reads the tool name and the room arguments shared by
// every tool. Missing fields stay empty.
func describeToolCall(req sdkmcp.Request) (call toolCall) {
	defer func() {
		if recover() != nil {
			call = toolCall{}
		}
	}()
	params, ok := req.GetParams().(*sdkmcp.CallToolParamsRaw)
	if !ok || params == nil {
		return toolCall{}
	}
	call.Tool = params.Name

	var args struct {
		RoomID        string `json:"roomId"`
		ParticipantID string `json:"participantId"`
		OwnerID       string `json:"ownerId"`
	}
	if len(params.Arguments) > 0 && json.Unmarshal(params.Arguments, &args) == nil {
		call.RoomID = args.RoomID
		call.ParticipantID = args.ParticipantID
		if call.ParticipantID == "" {
			call.ParticipantID = args.OwnerID
		}
	}
	return call
}

func toolErrorText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// sessionID tolerates requests without a live session.
func sessionID(req sdkmcp.Request) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if req == nil || req.GetSession() == nil {
		return ""
	}
	return req.GetSession().ID()
}
