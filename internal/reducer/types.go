package reducer

import "github.com/mark3labs/codexpane/internal/cmdparse"

// Role identifies who a transcript message belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleCommand   Role = "command"
)

// AuthStatus is the login sub-state machine.
type AuthStatus string

const (
	AuthChecking  AuthStatus = "checking"
	AuthLoggedIn  AuthStatus = "loggedIn"
	AuthLoggedOut AuthStatus = "loggedOut"
	AuthLoggingIn AuthStatus = "loggingIn"
	AuthError     AuthStatus = "error"
)

// Target is a clickable file or directory referenced by a command message.
type Target struct {
	Label string // Short display label
	Path  string // Absolute path
	IsDir bool   // Directory targets open a listing instead of a file
}

// FileChangeRecord describes one file mutation, enriched with whatever diff
// could be recovered. Line is the first changed line, 1-based, 0 when no
// diff was found or the diff had no numbered hunks.
type FileChangeRecord struct {
	Path    string // As reported by the agent
	AbsPath string // Resolved against the run's working directory
	Kind    string // "add", "delete", "update" (free-form)
	Diff    string // Unified-diff text, possibly recovered heuristically
	Line    int
}

// Message is one entry of the transcript log.
type Message struct {
	Role Role
	Text string

	// Command-message extras.
	Command         string // The command as typed by the agent
	FriendlyTitle   string // "" when suppressed, e.g. for pure exploration
	FriendlySummary string // One-line interpretation of the command
	Targets         []Target
	Parsed          []cmdparse.ParsedCommand

	// File-change extras.
	FileChanges []FileChangeRecord
}

// Navigation asks the UI to open a file, optionally at a line (1-based,
// 0 means top of file).
type Navigation struct {
	Path string
	Line int
}

// AuthChange reports a login sub-state transition.
type AuthChange struct {
	Status AuthStatus
	Detail string // e.g. the auth method, or an error description
}

// Update is one UI-facing effect derived from an event. Fields are optional;
// a single event may produce several updates.
type Update struct {
	Append          *Message
	Busy            *bool
	Reasoning       *string
	Navigate        *Navigation
	Auth            *AuthChange
	ClearMessages   bool
	ClearHighlights bool
}

func appendUpdate(m Message) Update   { return Update{Append: &m} }
func busyUpdate(b bool) Update        { return Update{Busy: &b} }
func reasoningUpdate(s string) Update { return Update{Reasoning: &s} }
