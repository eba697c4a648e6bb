package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/codexpane/internal/reducer"
)

// Footer renders the bottom status bar: working state on the left, git
// branch and key hints on the right.
type Footer struct {
	width     int
	branch    string
	auth      reducer.AuthStatus
	busy      bool
	reasoning string
	spinner   string
}

// NewFooter creates a new Footer component.
func NewFooter(branch string) *Footer {
	return &Footer{branch: branch, auth: reducer.AuthChecking}
}

// SetWidth updates the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetState updates the run state shown on the left.
func (f *Footer) SetState(busy bool, reasoning string, auth reducer.AuthStatus) {
	f.busy = busy
	f.reasoning = reasoning
	f.auth = auth
}

// SetSpinnerFrame updates the spinner glyph shown while busy.
func (f *Footer) SetSpinnerFrame(frame string) {
	f.spinner = frame
}

// Render returns the footer line.
func (f *Footer) Render() string {
	left := f.stateSegment()
	right := f.hintSegment()

	padding := f.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 2 {
		padding = 2
	}
	content := left + strings.Repeat(" ", padding) + right
	if lipgloss.Width(content) > f.width && f.width > 0 {
		content = left
	}
	return styleFooter.Render(content)
}

func (f *Footer) stateSegment() string {
	switch f.auth {
	case reducer.AuthChecking:
		return styleFooterLabel.Render("checking login...")
	case reducer.AuthLoggedOut:
		return styleFooterError.Render("logged out") + styleFooterLabel.Render("  press ctrl+g to log in")
	case reducer.AuthLoggingIn:
		return styleFooterLabel.Render("logging in...")
	case reducer.AuthError:
		return styleFooterError.Render("login check failed")
	}

	if f.busy {
		thinking := f.reasoning
		if thinking == "" {
			thinking = "Working..."
		}
		return f.spinner + " " + styleReasoning.Render(thinking)
	}
	return styleFooterLabel.Render("ready")
}

func (f *Footer) hintSegment() string {
	parts := []string{
		styleFooterKey.Render("[enter]") + styleFooterLabel.Render("send"),
		styleFooterKey.Render("[ctrl+o]") + styleFooterLabel.Render("open"),
		styleFooterKey.Render("[ctrl+l]") + styleFooterLabel.Render("clear"),
		styleFooterKey.Render("[ctrl+c]") + styleFooterLabel.Render("quit"),
	}
	hints := strings.Join(parts, "  ")

	if f.branch != "" {
		return styleFooterBranch.Render(" "+f.branch) + "  " + hints
	}
	return hints
}
