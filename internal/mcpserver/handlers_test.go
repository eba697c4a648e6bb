package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/codexpane/internal/transcript"
)

type fakeStatus struct {
	status Status
}

func (f *fakeStatus) Status() Status { return f.status }

// setupTestServer builds a server backed by a real transcript store in a
// temp directory.
func setupTestServer(t *testing.T) (*Server, *transcript.Store, *fakeStatus) {
	t.Helper()

	store, err := transcript.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to open transcript store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	status := &fakeStatus{status: Status{
		SessionID: "sess-1",
		Workspace: "/ws",
		Busy:      false,
		Auth:      "loggedIn",
		Messages:  0,
	}}
	return New(status, store), store, status
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestHandleSessionStatus(t *testing.T) {
	srv, _, status := setupTestServer(t)
	status.status.Busy = true
	status.status.Reasoning = "**Fixing tests**"

	result, err := srv.handleSessionStatus(context.Background(), callRequest("session-status", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := extractText(result)
	for _, want := range []string{`"session_id": "sess-1"`, `"busy": true`, `"auth": "loggedIn"`, "Fixing tests"} {
		if !strings.Contains(text, want) {
			t.Errorf("status output missing %q:\n%s", want, text)
		}
	}
}

func TestHandleTranscriptTail(t *testing.T) {
	srv, store, _ := setupTestServer(t)
	ctx := context.Background()

	for _, e := range []transcript.Entry{
		{Session: "sess-1", Role: "user", Text: "list files"},
		{Session: "sess-1", Role: "command", Text: "main.go\n", FriendlySummary: "Listed ."},
		{Session: "sess-1", Role: "assistant", Text: "Done"},
	} {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	result, err := srv.handleTranscriptTail(ctx, callRequest("transcript-tail", map[string]any{"count": float64(2)}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := extractText(result)

	if strings.Contains(text, "[user]") {
		t.Errorf("tail of 2 should drop the oldest entry:\n%s", text)
	}
	if !strings.Contains(text, "[command] Listed .") {
		t.Errorf("command entries should show their summary:\n%s", text)
	}
	if !strings.Contains(text, "[assistant] Done") {
		t.Errorf("missing assistant entry:\n%s", text)
	}
}

func TestHandleTranscriptTail_DefaultsToCurrentSession(t *testing.T) {
	srv, store, _ := setupTestServer(t)
	ctx := context.Background()

	if err := store.Append(ctx, transcript.Entry{Session: "sess-1", Role: "user", Text: "hello"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	result, err := srv.handleTranscriptTail(ctx, callRequest("transcript-tail", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(extractText(result), "[user] hello") {
		t.Errorf("expected current session's entry, got:\n%s", extractText(result))
	}
}

func TestHandleTranscriptTail_EmptySession(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	result, err := srv.handleTranscriptTail(context.Background(), callRequest("transcript-tail", map[string]any{"session": "nope"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(extractText(result), "empty transcript") {
		t.Errorf("expected empty-transcript marker, got %q", extractText(result))
	}
}

func TestHandleSessionList(t *testing.T) {
	srv, store, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleSessionList(ctx, callRequest("session-list", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(extractText(result), "no sessions") {
		t.Errorf("expected no-sessions marker, got %q", extractText(result))
	}

	if err := store.Append(ctx, transcript.Entry{Session: "sess-a", Role: "user", Text: "x"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	result, err = srv.handleSessionList(ctx, callRequest("session-list", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(extractText(result), "sess-a") {
		t.Errorf("expected sess-a in listing, got %q", extractText(result))
	}
}
