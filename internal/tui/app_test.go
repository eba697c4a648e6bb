package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/codexpane/internal/reducer"
)

type fakeController struct {
	prompts []string
	logins  int
	clears  int
}

func (f *fakeController) SubmitPrompt(prompt string) { f.prompts = append(f.prompts, prompt) }

func (f *fakeController) StartLogin() { f.logins++ }

func (f *fakeController) ClearTranscript() { f.clears++ }

func newTestApp(t *testing.T) (*App, *fakeController) {
	t.Helper()
	ctrl := &fakeController{}
	app := NewApp(context.Background(), ctrl, "/ws", "main", false)

	msg := tea.WindowSizeMsg{Width: 100, Height: 40}
	updated, _ := app.Update(msg)
	return updated.(*App), ctrl
}

func applyUpdates(t *testing.T, app *App, updates ...reducer.Update) *App {
	t.Helper()
	updated, _ := app.Update(ApplyMsg{Updates: updates})
	return updated.(*App)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.transcript == nil {
		t.Error("expected non-nil transcript")
	}
	if app.input == nil {
		t.Error("expected non-nil input")
	}
	if app.footer == nil {
		t.Error("expected non-nil footer")
	}
	if app.auth != reducer.AuthChecking {
		t.Errorf("auth: got %s, want checking", app.auth)
	}
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	updated, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = updated.(*App)

	if app.width != 80 {
		t.Errorf("width: got %d, want 80", app.width)
	}
	if app.height != 24 {
		t.Errorf("height: got %d, want 24", app.height)
	}
}

func TestApp_HandleKeyPress_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.handleKeyPress(tea.KeyPressMsg{Text: "ctrl+c"})

	if !app.quitting {
		t.Error("expected quitting to be true")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestApp_SubmitPrompt(t *testing.T) {
	app, ctrl := newTestApp(t)
	app = applyUpdates(t, app, reducer.Update{Auth: &reducer.AuthChange{Status: reducer.AuthLoggedIn}})

	app.input.model.SetValue("list the files")
	updated, _ := app.handleKeyPress(tea.KeyPressMsg{Text: "enter"})
	app = updated.(*App)

	if len(ctrl.prompts) != 1 || ctrl.prompts[0] != "list the files" {
		t.Fatalf("prompts = %v, want [list the files]", ctrl.prompts)
	}
	if app.input.Value() != "" {
		t.Error("accepted submission should clear the input")
	}
}

func TestApp_SubmitPrompt_RejectedKeepsText(t *testing.T) {
	app, ctrl := newTestApp(t)
	app = applyUpdates(t, app,
		reducer.Update{Auth: &reducer.AuthChange{Status: reducer.AuthLoggedIn}},
		reducer.Update{Busy: boolPtr(true)},
	)

	app.input.model.SetValue("second prompt")
	updated, _ := app.handleKeyPress(tea.KeyPressMsg{Text: "enter"})
	app = updated.(*App)

	if len(ctrl.prompts) != 1 {
		t.Fatalf("controller should still see the submission, got %v", ctrl.prompts)
	}
	if app.input.Value() != "second prompt" {
		t.Errorf("rejected submission should keep the text, got %q", app.input.Value())
	}
}

func TestApp_LoginKey(t *testing.T) {
	app, ctrl := newTestApp(t)

	// Not logged out yet, key is a no-op.
	app.handleKeyPress(tea.KeyPressMsg{Text: "ctrl+g"})
	if ctrl.logins != 0 {
		t.Error("login should not start while auth state is checking")
	}

	app = applyUpdates(t, app, reducer.Update{Auth: &reducer.AuthChange{Status: reducer.AuthLoggedOut}})
	app.handleKeyPress(tea.KeyPressMsg{Text: "ctrl+g"})
	if ctrl.logins != 1 {
		t.Errorf("logins = %d, want 1", ctrl.logins)
	}
}

func TestApp_ClearKey(t *testing.T) {
	app, ctrl := newTestApp(t)

	app.handleKeyPress(tea.KeyPressMsg{Text: "ctrl+l"})
	if ctrl.clears != 1 {
		t.Errorf("clears = %d, want 1", ctrl.clears)
	}
}

func TestApp_Apply_BusyStartsSpinner(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := app.apply([]reducer.Update{{Busy: boolPtr(true)}})
	if !app.busy {
		t.Error("expected busy state")
	}
	if cmd == nil {
		t.Error("expected spinner tick command when becoming busy")
	}

	cmd = app.apply([]reducer.Update{{Busy: boolPtr(true)}})
	if cmd != nil {
		t.Error("already-busy update should not start another ticker")
	}
}

func TestApp_Apply_MessagesAndClear(t *testing.T) {
	app, _ := newTestApp(t)

	app = applyUpdates(t, app,
		reducer.Update{Append: &reducer.Message{Role: reducer.RoleUser, Text: "hello"}},
		reducer.Update{Append: &reducer.Message{Role: reducer.RoleAssistant, Text: "hi"}},
	)
	if len(app.transcript.Messages()) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(app.transcript.Messages()))
	}

	app = applyUpdates(t, app, reducer.Update{ClearMessages: true})
	if len(app.transcript.Messages()) != 0 {
		t.Error("ClearMessages should empty the transcript")
	}
}

func TestApp_Apply_ReasoningAndAuth(t *testing.T) {
	app, _ := newTestApp(t)

	app = applyUpdates(t, app,
		reducer.Update{Reasoning: strPtr("**Reading code**")},
		reducer.Update{Auth: &reducer.AuthChange{Status: reducer.AuthLoggedIn}},
	)
	if app.reasoning != "**Reading code**" {
		t.Errorf("reasoning = %q", app.reasoning)
	}
	if app.auth != reducer.AuthLoggedIn {
		t.Errorf("auth = %s, want loggedIn", app.auth)
	}
}

func TestApp_View(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()
	if !view.AltScreen {
		t.Error("expected AltScreen to be enabled")
	}
	if view.MouseMode != tea.MouseModeCellMotion {
		t.Errorf("mouse mode: got %v, want MouseModeCellMotion", view.MouseMode)
	}
}

func TestTranscript_LatestTarget(t *testing.T) {
	tr := NewTranscript()
	tr.UpdateSize(80, 20)

	if path, _ := tr.LatestTarget(); path != "" {
		t.Errorf("empty transcript should have no target, got %q", path)
	}

	tr.Append(reducer.Message{
		Role:    reducer.RoleCommand,
		Targets: []reducer.Target{{Label: "main.go", Path: "/ws/main.go"}},
	})
	tr.Append(reducer.Message{
		Role: reducer.RoleAssistant,
		FileChanges: []reducer.FileChangeRecord{
			{Path: "a.go", AbsPath: "/ws/a.go", Line: 12},
		},
	})

	path, line := tr.LatestTarget()
	if path != "/ws/a.go" || line != 12 {
		t.Errorf("LatestTarget = %q:%d, want /ws/a.go:12", path, line)
	}
}

func TestTranscript_HighlightLifecycle(t *testing.T) {
	tr := NewTranscript()
	tr.UpdateSize(80, 20)

	tr.Append(reducer.Message{
		Role:    reducer.RoleCommand,
		Targets: []reducer.Target{{Label: "src", Path: "/ws/src", IsDir: true}},
	})
	if !tr.highlighted {
		t.Error("appending a command with targets should set the highlight")
	}

	tr.ClearHighlights()
	if tr.highlighted {
		t.Error("ClearHighlights should drop the decoration")
	}
}

func TestFooter_States(t *testing.T) {
	f := NewFooter("main")
	f.SetWidth(120)

	if !strings.Contains(f.Render(), "checking login") {
		t.Errorf("initial footer should show login check:\n%s", f.Render())
	}

	f.SetState(false, "", reducer.AuthLoggedOut)
	if !strings.Contains(f.Render(), "logged out") {
		t.Errorf("footer should show logged out state:\n%s", f.Render())
	}

	f.SetState(true, "**Editing files**", reducer.AuthLoggedIn)
	if !strings.Contains(f.Render(), "Editing files") {
		t.Errorf("busy footer should show the reasoning headline:\n%s", f.Render())
	}

	f.SetState(false, "", reducer.AuthLoggedIn)
	out := f.Render()
	if !strings.Contains(out, "ready") || !strings.Contains(out, "main") {
		t.Errorf("idle footer should show ready plus the branch:\n%s", out)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line untouched", "hello", 10, "hello"},
		{"wraps at space", "hello brave world", 11, "hello brave\nworld"},
		{"zero width untouched", "hello", 0, "hello"},
		{"preserves newlines", "a\nb", 10, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.in, tt.width); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
