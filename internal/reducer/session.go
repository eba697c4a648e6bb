// Package reducer turns the codex event stream into deterministic UI state.
// A Session owns the transcript log, the busy flag, the login sub-state and
// the per-run working directory; every inbound event reduces to a list of
// Updates the UI applies in order. The one invariant that matters most: no
// sequence of events, errors or panics may leave the session stuck busy.
package reducer

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/codexpane/internal/errors"
	"github.com/mark3labs/codexpane/internal/gitdiff"
)

// Session is the state for one panel. It is driven by a single goroutine;
// the zero working directory and auth state are established per prompt.
type Session struct {
	busy              bool
	auth              AuthStatus
	authDetail        string
	lastCwd           string
	lastCommandOutput string
	reasoning         string
	messages          []Message

	diffs gitdiff.Provider
}

// New creates a session in the checking auth state with no transcript.
// A nil provider disables git-based diff recovery.
func New(diffs gitdiff.Provider) *Session {
	if diffs == nil {
		diffs = gitdiff.Nop{}
	}
	return &Session{auth: AuthChecking, diffs: diffs}
}

// Busy reports whether a run is in flight.
func (s *Session) Busy() bool { return s.busy }

// Auth returns the current login sub-state.
func (s *Session) Auth() AuthStatus { return s.auth }

// Reasoning returns the in-flight reasoning text, "" when idle.
func (s *Session) Reasoning() string { return s.reasoning }

// Messages returns the transcript log. The slice is owned by the session;
// callers must not mutate it.
func (s *Session) Messages() []Message { return s.messages }

// SetAuth transitions the login sub-state.
func (s *Session) SetAuth(status AuthStatus, detail string) Update {
	s.auth = status
	s.authDetail = detail
	return Update{Auth: &AuthChange{Status: status, Detail: detail}}
}

// BeginPrompt validates a prompt submission and enters the busy state.
// Rejections (not logged in, already busy, no workspace) append a short
// system message and return a sentinel error; no subprocess may be spawned
// when an error is returned.
func (s *Session) BeginPrompt(prompt, workDir string) ([]Update, error) {
	if strings.TrimSpace(prompt) == "" {
		return []Update{s.append(Message{
			Role: RoleSystem,
			Text: "Type a prompt before submitting.",
		})}, errors.ErrEmptyPrompt
	}
	if s.auth != AuthLoggedIn {
		return []Update{s.append(Message{
			Role: RoleSystem,
			Text: "You need to log in before sending a prompt. Run codexpane login or press ctrl+g.",
		})}, errors.ErrNotLoggedIn
	}
	if s.busy {
		return []Update{s.append(Message{
			Role: RoleSystem,
			Text: "The agent is still working. Wait for the current run to finish.",
		})}, errors.ErrBusy
	}
	if workDir == "" {
		return []Update{s.append(Message{
			Role: RoleSystem,
			Text: "No workspace folder is open, so there is nowhere to run the agent.",
		})}, errors.ErrNoWorkspace
	}

	s.busy = true
	s.lastCwd = workDir
	s.reasoning = ""

	return []Update{
		s.append(Message{Role: RoleUser, Text: strings.TrimSpace(prompt)}),
		busyUpdate(true),
		reasoningUpdate(""),
	}, nil
}

// Finish ends the current run. It must be called exactly once per started
// run, from a defer, regardless of how the run ended: it is the only place
// the busy flag is guaranteed to clear. A non-nil runErr is classified and
// surfaced as a plain-language assistant message.
func (s *Session) Finish(runErr error) []Update {
	s.busy = false
	s.reasoning = ""

	updates := []Update{busyUpdate(false), reasoningUpdate("")}
	if runErr == nil {
		return updates
	}

	var be *errors.BinaryError
	var text string
	switch {
	case stderrors.As(runErr, &be):
		text = fmt.Sprintf("The codex CLI at %s could not be used (%s). %s.", be.Path, be.Reason, be.Hint)
	case stderrors.Is(runErr, errors.ErrAgentFailed):
		text = "The codex agent stopped unexpectedly. Check the log file for details and try again."
	default:
		text = "Something went wrong while running the agent. Please try again."
	}
	return append(updates, s.append(Message{Role: RoleAssistant, Text: text}))
}

// Restore preloads messages recovered from a persisted transcript. Meant to
// run once, before any prompt is submitted.
func (s *Session) Restore(msgs []Message) []Update {
	updates := make([]Update, 0, len(msgs))
	for _, m := range msgs {
		updates = append(updates, s.append(m))
	}
	return updates
}

// Reset clears the transcript. Busy state and auth are untouched; only an
// explicit user action gets here.
func (s *Session) Reset() []Update {
	s.messages = nil
	s.lastCommandOutput = ""
	s.reasoning = ""
	return []Update{{ClearMessages: true}, reasoningUpdate("")}
}

// append records a message in the log and returns the matching update.
func (s *Session) append(m Message) Update {
	s.messages = append(s.messages, m)
	return appendUpdate(m)
}

// resolvePath resolves an agent-reported path against the run's working
// directory. Absolute paths pass through; relative paths with no known cwd
// resolve to "".
func (s *Session) resolvePath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if s.lastCwd == "" {
		return ""
	}
	return filepath.Join(s.lastCwd, p)
}
