package tui

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/reducer"
)

// Controller is the panel-side interface the UI drives. Calls must not
// block; results come back asynchronously as ApplyMsg updates.
type Controller interface {
	SubmitPrompt(prompt string)
	StartLogin()
	ClearTranscript()
}

// ApplyMsg carries reducer updates from the panel into the UI loop.
type ApplyMsg struct {
	Updates []reducer.Update
}

// editorFinishedMsg is sent when an external editor process exits.
type editorFinishedMsg struct {
	err error
}

const (
	inputHeight  = 3
	footerHeight = 1
)

// App is the top-level BubbleTea model for the panel.
type App struct {
	ctx        context.Context
	controller Controller
	workDir    string

	transcript *Transcript
	input      *PromptInput
	footer     *Footer
	spinner    Spinner

	busy       bool
	reasoning  string
	auth       reducer.AuthStatus
	editorOpen bool

	width    int
	height   int
	quitting bool
}

// NewApp creates the panel UI. branch may be empty when the workspace is not
// a git repository.
func NewApp(ctx context.Context, controller Controller, workDir, branch string, editorOpen bool) *App {
	return &App{
		ctx:        ctx,
		controller: controller,
		workDir:    workDir,
		transcript: NewTranscript(),
		input:      NewPromptInput(),
		footer:     NewFooter(branch),
		spinner:    NewSpinner(),
		auth:       reducer.AuthChecking,
		editorOpen: editorOpen,
	}
}

// Init initializes the app.
func (a *App) Init() tea.Cmd {
	return a.input.Focus()
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.transcript.UpdateSize(msg.Width, msg.Height-inputHeight-footerHeight-1)
		a.input.SetWidth(msg.Width)
		a.footer.SetWidth(msg.Width)
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case spinner.TickMsg:
		cmd := a.spinner.Update(msg)
		a.footer.SetSpinnerFrame(a.spinner.View())
		if !a.busy {
			return a, nil
		}
		return a, cmd

	case ApplyMsg:
		return a, a.apply(msg.Updates)

	case editorFinishedMsg:
		if msg.err != nil {
			logger.Warn("editor exited with error: %v", msg.err)
		}
		return a, a.input.Focus()
	}

	var cmds []tea.Cmd
	if cmd := a.transcript.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.input.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit

	case "enter":
		prompt := a.input.Value()
		a.controller.SubmitPrompt(prompt)
		if prompt != "" && !a.busy && a.auth == reducer.AuthLoggedIn {
			// Accepted submissions clear the box; rejected ones keep the
			// text so nothing typed is lost.
			a.input.Reset()
		}
		return a, nil

	case "ctrl+g":
		if a.auth == reducer.AuthLoggedOut || a.auth == reducer.AuthError {
			a.controller.StartLogin()
		}
		return a, nil

	case "ctrl+l":
		a.controller.ClearTranscript()
		return a, nil

	case "ctrl+o":
		return a, a.openLatestTarget()
	}

	var cmds []tea.Cmd
	if cmd := a.input.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.transcript.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// apply folds reducer updates into the UI state.
func (a *App) apply(updates []reducer.Update) tea.Cmd {
	var cmds []tea.Cmd
	for _, u := range updates {
		if u.ClearHighlights {
			a.transcript.ClearHighlights()
		}
		if u.ClearMessages {
			a.transcript.Clear()
		}
		if u.Append != nil {
			a.transcript.Append(*u.Append)
		}
		if u.Busy != nil {
			wasBusy := a.busy
			a.busy = *u.Busy
			if a.busy && !wasBusy {
				cmds = append(cmds, a.spinner.Tick())
			}
		}
		if u.Reasoning != nil {
			a.reasoning = *u.Reasoning
		}
		if u.Auth != nil {
			a.auth = u.Auth.Status
		}
		if u.Navigate != nil && a.editorOpen {
			cmds = append(cmds, a.openInEditor(u.Navigate.Path, u.Navigate.Line))
		}
	}
	a.footer.SetState(a.busy, a.reasoning, a.auth)
	return tea.Batch(cmds...)
}

// openLatestTarget opens the newest file target in the user's editor.
func (a *App) openLatestTarget() tea.Cmd {
	path, line := a.transcript.LatestTarget()
	if path == "" {
		return nil
	}
	return a.openInEditor(path, line)
}

func (a *App) openInEditor(path string, line int) tea.Cmd {
	var opts []editor.Option
	if line > 0 {
		opts = append(opts, editor.OpenAtLine(line))
	}
	cmd, err := editor.Cmd("codexpane", path, opts...)
	if err != nil {
		logger.Warn("cannot build editor command for %s: %v", path, err)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the panel.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		a.transcript.Render(),
		a.input.View(),
		a.footer.Render(),
	)
	view.Content = lipgloss.NewLayer(content)
	return view
}
