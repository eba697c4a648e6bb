package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the observation tools. Everything here reads state;
// driving the panel stays with the human at the keyboard.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("session-status",
			mcp.WithDescription("Get the panel's current state: session id, workspace, busy flag, login state"),
		),
		s.handleSessionStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("transcript-tail",
			mcp.WithDescription("Return the last messages of a session transcript"),
			mcp.WithString("session", mcp.Description("Session id; defaults to the current session")),
			mcp.WithNumber("count", mcp.Description("Number of trailing messages to return (default 20)")),
		),
		s.handleTranscriptTail,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("session-list",
			mcp.WithDescription("List session ids present in the transcript store"),
		),
		s.handleSessionList,
	)
}
