package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleSessionStatus returns the panel snapshot as JSON.
func (s *Server) handleSessionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.status.Status(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleTranscriptTail returns the trailing messages of a session.
func (s *Server) handleTranscriptTail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := request.GetString("session", "")
	if session == "" {
		session = s.status.Status().SessionID
	}
	if session == "" {
		return mcp.NewToolResultError("no session id given and no session is active"), nil
	}

	count := request.GetInt("count", 20)
	if count < 1 {
		return mcp.NewToolResultError("count must be positive"), nil
	}

	entries, err := s.reader.Replay(ctx, session)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read transcript: %v", err)), nil
	}
	if len(entries) > count {
		entries = entries[len(entries)-count:]
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("(empty transcript)"), nil
	}

	var b strings.Builder
	for _, e := range entries {
		line := e.Text
		if e.Role == "command" && e.FriendlySummary != "" {
			line = e.FriendlySummary
		}
		fmt.Fprintf(&b, "[%s] %s\n", e.Role, strings.TrimSpace(line))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleSessionList lists the stored session ids.
func (s *Server) handleSessionList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.reader.Sessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}
	if len(sessions) == 0 {
		return mcp.NewToolResultText("(no sessions)"), nil
	}
	return mcp.NewToolResultText(strings.Join(sessions, "\n")), nil
}
