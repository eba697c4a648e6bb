package tui

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// PromptInput is the multi-line prompt box at the bottom of the panel.
type PromptInput struct {
	model textarea.Model
}

// NewPromptInput creates a focused prompt input.
func NewPromptInput() *PromptInput {
	t := textarea.New()
	t.Placeholder = "Ask codex to do something..."
	t.ShowLineNumbers = false
	t.SetHeight(3)
	t.Focus()
	return &PromptInput{model: t}
}

// Update handles input messages.
func (p *PromptInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return cmd
}

// View renders the input box.
func (p *PromptInput) View() string {
	return p.model.View()
}

// SetWidth updates the input width.
func (p *PromptInput) SetWidth(width int) {
	p.model.SetWidth(width)
}

// Value returns the trimmed prompt text.
func (p *PromptInput) Value() string {
	return strings.TrimSpace(p.model.Value())
}

// Reset clears the input.
func (p *PromptInput) Reset() {
	p.model.Reset()
}

// Focus gives the input keyboard focus.
func (p *PromptInput) Focus() tea.Cmd {
	return p.model.Focus()
}

// Blur removes keyboard focus.
func (p *PromptInput) Blur() {
	p.model.Blur()
}

// Focused reports whether the input has focus.
func (p *PromptInput) Focused() bool {
	return p.model.Focused()
}
