// Package mcpserver exposes the panel's state over MCP so other local tools
// (editors, scripts, a second agent) can observe a run without scraping the
// terminal. All tools are read-only.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/transcript"
)

// Status is a snapshot of the panel for the session-status tool.
type Status struct {
	SessionID string `json:"session_id"`
	Workspace string `json:"workspace"`
	Busy      bool   `json:"busy"`
	Auth      string `json:"auth"`
	Reasoning string `json:"reasoning,omitempty"`
	Messages  int    `json:"messages"`
}

// StatusProvider supplies the current panel snapshot. Implementations must be
// safe to call from the server's request goroutines.
type StatusProvider interface {
	Status() Status
}

// TranscriptReader is the subset of the transcript store the tools need.
type TranscriptReader interface {
	Replay(ctx context.Context, session string) ([]transcript.Entry, error)
	Sessions(ctx context.Context) ([]string, error)
}

// Server manages an embedded MCP HTTP server exposing panel observation tools.
type Server struct {
	status     StatusProvider
	reader     TranscriptReader
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	port       int
	mu         sync.Mutex
}

// New creates a server. It is not started until Start is called.
func New(status StatusProvider, reader TranscriptReader) *Server {
	return &Server{status: status, reader: reader}
}

// Start starts the MCP HTTP server on a random loopback port and returns the
// port number.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"codexpane-status",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port
	if err := listener.Close(); err != nil {
		return 0, fmt.Errorf("failed to close listener: %w", err)
	}

	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	httpServer := s.httpServer
	go func() {
		if err := httpServer.Start(addr); err != nil {
			logger.Error("mcp server error: %v", err)
		}
	}()

	logger.Debug("mcp server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		logger.Warn("error stopping mcp server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.httpServer = nil
	s.mcpServer = nil
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
