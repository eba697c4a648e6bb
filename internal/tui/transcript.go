package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/alecthomas/chroma/v2/quick"

	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/reducer"
)

// Transcript displays the message log with auto-scroll.
type Transcript struct {
	viewport    viewport.Model
	messages    []reducer.Message
	markdown    *glamour.TermRenderer
	width       int
	height      int
	autoScroll  bool
	ready       bool
	highlighted bool // Whether the newest command's targets are decorated
}

// NewTranscript creates a new Transcript component.
func NewTranscript() *Transcript {
	return &Transcript{
		messages:   make([]reducer.Message, 0),
		autoScroll: true,
	}
}

// Init initializes the transcript component.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update handles messages for the transcript.
func (t *Transcript) Update(msg tea.Msg) tea.Cmd {
	if !t.ready {
		return nil
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)

	// Manual scrolling away from the bottom disables auto-scroll.
	switch msg.(type) {
	case tea.KeyPressMsg, tea.MouseMsg:
		t.autoScroll = t.viewport.AtBottom()
	}

	return cmd
}

// Render returns the transcript view as a string.
func (t *Transcript) Render() string {
	if !t.ready {
		return styleDim.Render("Waiting for terminal size...")
	}
	return t.viewport.View()
}

// UpdateSize updates the transcript dimensions.
func (t *Transcript) UpdateSize(width, height int) {
	t.width = width
	t.height = height

	if !t.ready {
		t.viewport = viewport.New(
			viewport.WithWidth(width),
			viewport.WithHeight(height),
		)
		t.viewport.MouseWheelEnabled = true
		t.viewport.MouseWheelDelta = 3
		t.ready = true
	} else {
		t.viewport.SetWidth(width)
		t.viewport.SetHeight(height)
	}

	// Re-wrap markdown at the new width.
	t.markdown = nil
	t.refreshContent()
}

// Append adds a message to the transcript.
func (t *Transcript) Append(m reducer.Message) {
	t.messages = append(t.messages, m)
	if m.Role == reducer.RoleCommand && len(m.Targets) > 0 {
		t.highlighted = true
	}
	t.refreshContent()
}

// ClearHighlights removes target decoration from older command messages.
func (t *Transcript) ClearHighlights() {
	if !t.highlighted {
		return
	}
	t.highlighted = false
	t.refreshContent()
}

// Clear resets the transcript content.
func (t *Transcript) Clear() {
	t.messages = make([]reducer.Message, 0)
	t.highlighted = false
	if t.ready {
		t.viewport.SetContent("")
		t.viewport.GotoTop()
	}
	t.autoScroll = true
}

// Messages returns the rendered message log.
func (t *Transcript) Messages() []reducer.Message {
	return t.messages
}

// LatestTarget returns the newest message's first target path and line, for
// open-in-editor. Returns "" when nothing is navigable.
func (t *Transcript) LatestTarget() (string, int) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		m := t.messages[i]
		if len(m.FileChanges) > 0 && m.FileChanges[0].AbsPath != "" {
			return m.FileChanges[0].AbsPath, m.FileChanges[0].Line
		}
		if len(m.Targets) > 0 {
			return m.Targets[0].Path, 0
		}
	}
	return "", 0
}

// refreshContent rebuilds the viewport content from messages.
func (t *Transcript) refreshContent() {
	if !t.ready {
		return
	}

	contentWidth := t.width - 2
	var rendered strings.Builder
	for i, msg := range t.messages {
		rendered.WriteString(t.renderMessage(msg, contentWidth, i == len(t.messages)-1))
		rendered.WriteString("\n")
	}

	t.viewport.SetContent(rendered.String())
	if t.autoScroll {
		t.viewport.GotoBottom()
	}
}

func (t *Transcript) renderMessage(m reducer.Message, width int, newest bool) string {
	switch m.Role {
	case reducer.RoleUser:
		return styleUserLabel.Render("you") + "\n" + wrapText(m.Text, width) + "\n"
	case reducer.RoleSystem:
		return styleSystemText.Render(wrapText(m.Text, width)) + "\n"
	case reducer.RoleCommand:
		return t.renderCommand(m, width, newest)
	default:
		return t.renderAssistant(m, width)
	}
}

// renderCommand shows the friendly interpretation first and the raw command
// dimmed underneath. Targets are underlined only while the message is the
// newest one; stale highlights are cleared as the run moves on.
func (t *Transcript) renderCommand(m reducer.Message, width int, newest bool) string {
	var b strings.Builder

	if m.FriendlyTitle != "" {
		b.WriteString(styleCommandTitle.Render(m.FriendlyTitle))
		b.WriteString("  ")
	}
	if m.FriendlySummary != "" {
		b.WriteString(styleCommandSummary.Render(m.FriendlySummary))
		b.WriteString("\n")
	}
	if m.Command != "" {
		b.WriteString(styleDim.Render(wrapText("$ "+m.Command, width)))
		b.WriteString("\n")
	}

	if len(m.Targets) > 0 && newest && t.highlighted {
		labels := make([]string, 0, len(m.Targets))
		for _, target := range m.Targets {
			labels = append(labels, styleTarget.Render(target.Label))
		}
		b.WriteString(strings.Join(labels, "  "))
		b.WriteString("\n")
	}
	return b.String()
}

// renderAssistant renders assistant prose as markdown and any file changes as
// highlighted diffs.
func (t *Transcript) renderAssistant(m reducer.Message, width int) string {
	var b strings.Builder
	b.WriteString(styleAssistantLabel.Render("codex"))
	b.WriteString("\n")
	b.WriteString(t.renderMarkdown(m.Text, width))

	for _, change := range m.FileChanges {
		if change.Diff == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(renderDiff(change.Diff))
	}
	return b.String()
}

func (t *Transcript) renderMarkdown(text string, width int) string {
	if t.markdown == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithEnvironmentConfig(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logger.Warn("markdown renderer unavailable: %v", err)
			return wrapText(text, width) + "\n"
		}
		t.markdown = r
	}

	out, err := t.markdown.Render(text)
	if err != nil {
		return wrapText(text, width) + "\n"
	}
	return out
}

// renderDiff runs the diff through chroma. On any failure the raw text is
// shown instead.
func renderDiff(diff string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, diff, "diff", "terminal256", "monokai"); err != nil {
		return diff + "\n"
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// wrapText wraps text to the given width at word boundaries.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		for len(line) > width {
			breakPoint := width
			for j := width; j > 0; j-- {
				if line[j] == ' ' {
					breakPoint = j
					break
				}
			}
			result.WriteString(line[:breakPoint])
			result.WriteString("\n")
			line = strings.TrimLeft(line[breakPoint:], " ")
		}
		result.WriteString(line)
	}
	return result.String()
}
