package tui

import "charm.land/lipgloss/v2"

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#06B6D4")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorBase      = lipgloss.Color("#E5E7EB")
)

var (
	styleDim = lipgloss.NewStyle().Foreground(colorMuted)

	styleUserLabel      = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleAssistantLabel = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	styleSystemText     = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)
	styleCommandTitle   = lipgloss.NewStyle().Foreground(colorBase).Bold(true)
	styleCommandSummary = lipgloss.NewStyle().Foreground(colorSecondary)
	styleTarget         = lipgloss.NewStyle().Foreground(colorSuccess).Underline(true)
	styleReasoning      = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	styleFooter       = lipgloss.NewStyle().Foreground(colorMuted)
	styleFooterKey    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleFooterLabel  = lipgloss.NewStyle().Foreground(colorMuted)
	styleFooterBranch = lipgloss.NewStyle().Foreground(colorSecondary)
	styleFooterError  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)
