// Package panel wires the pieces together: transcript storage, the codex
// runner, the event reducer and the TUI. It owns the goroutines; the reducer
// itself stays single-threaded behind the panel's mutex.
package panel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/codexpane/internal/codex"
	"github.com/mark3labs/codexpane/internal/config"
	"github.com/mark3labs/codexpane/internal/errors"
	"github.com/mark3labs/codexpane/internal/events"
	"github.com/mark3labs/codexpane/internal/gitdiff"
	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/mcpserver"
	"github.com/mark3labs/codexpane/internal/reducer"
	"github.com/mark3labs/codexpane/internal/transcript"
	"github.com/mark3labs/codexpane/internal/tui"
)

// PanelConfig holds configuration for creating a Panel.
type PanelConfig struct {
	WorkDir       string         // Workspace the agent runs in
	Settings      *config.Config // Resolved configuration
	ResumeSession string         // Session id to replay, "" for a fresh session
}

// Panel is the running application.
type Panel struct {
	cfg PanelConfig

	store     *transcript.Store
	session   *reducer.Session
	sessionID string
	runner    *codex.Runner
	mcp       *mcpserver.Server

	tuiApp     *tui.App
	tuiProgram *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	errCh  chan error
	mu     sync.Mutex
}

// New creates a Panel with the given configuration.
func New(cfg PanelConfig) (*Panel, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Panel{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		errCh:  make(chan error, 16),
	}, nil
}

// Start initializes storage, the runner, the optional MCP server and the TUI.
func (p *Panel) Start() error {
	if err := os.MkdirAll(p.cfg.Settings.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := transcript.Open(p.ctx, filepath.Join(p.cfg.Settings.DataDir, "nats"))
	if err != nil {
		return err
	}
	p.store = store

	if p.cfg.ResumeSession != "" {
		p.sessionID = p.cfg.ResumeSession
	} else {
		p.sessionID = transcript.NewSessionID()
	}

	p.session = reducer.New(&gitdiff.Git{})
	p.runner = codex.NewRunner(codex.RunnerConfig{
		Bin:     p.cfg.Settings.CodexBin,
		Model:   p.cfg.Settings.Model,
		WorkDir: p.cfg.WorkDir,
	})

	if p.cfg.Settings.MCPServer {
		p.mcp = mcpserver.New(p, p.store)
		port, err := p.mcp.Start(p.ctx)
		if err != nil {
			logger.Warn("mcp server did not start: %v", err)
			p.mcp = nil
		} else {
			logger.Info("mcp server listening on port %d", port)
		}
	}

	branch := gitdiff.Branch(p.cfg.WorkDir)
	p.tuiApp = tui.NewApp(p.ctx, p, p.cfg.WorkDir, branch, p.cfg.Settings.EditorOpen)
	p.tuiProgram = tea.NewProgram(p.tuiApp)

	go p.drainErrors()
	errors.SafeGo(p.checkLogin, p.errCh)
	if p.cfg.ResumeSession != "" {
		errors.SafeGo(p.replaySession, p.errCh)
	}
	return nil
}

// Run blocks on the TUI until the user quits.
func (p *Panel) Run() error {
	if _, err := p.tuiProgram.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// Stop shuts everything down.
func (p *Panel) Stop() error {
	p.cancel()
	if p.mcp != nil {
		if err := p.mcp.Stop(); err != nil {
			logger.Warn("mcp server stop: %v", err)
		}
	}
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// SessionID returns the active session id.
func (p *Panel) SessionID() string {
	return p.sessionID
}

// SubmitPrompt validates the prompt and, when accepted, starts a codex run
// in the background. Implements tui.Controller.
func (p *Panel) SubmitPrompt(prompt string) {
	p.mu.Lock()
	updates, err := p.session.BeginPrompt(prompt, p.cfg.WorkDir)
	p.mu.Unlock()

	p.send(updates)
	p.persist(updates)
	if err != nil {
		logger.Debug("prompt rejected: %v", err)
		return
	}

	errors.SafeGo(func() error {
		p.runPrompt(prompt)
		return nil
	}, p.errCh)
}

// StartLogin hands the terminal to the codex CLI's interactive login, then
// re-checks credentials. Implements tui.Controller.
func (p *Panel) StartLogin() {
	errors.SafeGo(func() error {
		p.setAuth(reducer.AuthLoggingIn, "")

		if err := p.tuiProgram.ReleaseTerminal(); err != nil {
			logger.Warn("failed to release terminal for login: %v", err)
		}
		loginErr := p.runner.Login(p.ctx)
		if err := p.tuiProgram.RestoreTerminal(); err != nil {
			logger.Warn("failed to restore terminal after login: %v", err)
		}
		if loginErr != nil {
			logger.Warn("login flow failed: %v", loginErr)
		}

		return p.checkLogin()
	}, p.errCh)
}

// ClearTranscript resets the visible message log. Implements tui.Controller.
func (p *Panel) ClearTranscript() {
	p.mu.Lock()
	updates := p.session.Reset()
	p.mu.Unlock()
	p.send(updates)
}

// Status implements mcpserver.StatusProvider.
func (p *Panel) Status() mcpserver.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return mcpserver.Status{
		SessionID: p.sessionID,
		Workspace: p.cfg.WorkDir,
		Busy:      p.session.Busy(),
		Auth:      string(p.session.Auth()),
		Reasoning: p.session.Reasoning(),
		Messages:  len(p.session.Messages()),
	}
}

// runPrompt drives one codex subprocess to completion. Finish always runs,
// whatever the stream did.
func (p *Panel) runPrompt(prompt string) {
	var runErr error
	defer func() {
		p.mu.Lock()
		updates := p.session.Finish(runErr)
		p.mu.Unlock()
		p.send(updates)
		p.persist(updates)
	}()

	runErr = p.runner.Run(p.ctx, prompt, p.onLine)
}

// onLine decodes one stream line and feeds it to the reducer. Malformed
// lines are logged and skipped.
func (p *Panel) onLine(line []byte) {
	ev, err := events.DecodeLine(line)
	if err != nil {
		logger.Warn("skipping stream line: %v", err)
		return
	}

	p.mu.Lock()
	updates := p.session.Reduce(ev)
	p.mu.Unlock()
	p.send(updates)
	p.persist(updates)
}

// checkLogin probes `codex login status` and pushes the result to the UI.
func (p *Panel) checkLogin() error {
	ok, method, err := p.runner.CheckLogin(p.ctx)
	switch {
	case err != nil:
		logger.Warn("login check failed: %v", err)
		p.setAuth(reducer.AuthError, err.Error())
	case ok:
		p.setAuth(reducer.AuthLoggedIn, string(method))
	default:
		p.setAuth(reducer.AuthLoggedOut, "")
	}
	return nil
}

// replaySession reloads a persisted transcript into the reducer and the UI.
func (p *Panel) replaySession() error {
	entries, err := p.store.Replay(p.ctx, p.sessionID)
	if err != nil {
		logger.Warn("session replay failed: %v", err)
		return nil
	}

	msgs := make([]reducer.Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, reducer.Message{
			Role:            reducer.Role(e.Role),
			Text:            e.Text,
			Command:         e.Command,
			FriendlyTitle:   e.FriendlyTitle,
			FriendlySummary: e.FriendlySummary,
		})
	}

	p.mu.Lock()
	updates := p.session.Restore(msgs)
	p.mu.Unlock()
	p.send(updates)
	return nil
}

func (p *Panel) setAuth(status reducer.AuthStatus, detail string) {
	p.mu.Lock()
	update := p.session.SetAuth(status, detail)
	p.mu.Unlock()
	p.send([]reducer.Update{update})
}

// send pushes updates into the TUI's message loop.
func (p *Panel) send(updates []reducer.Update) {
	if len(updates) == 0 || p.tuiProgram == nil {
		return
	}
	p.tuiProgram.Send(tui.ApplyMsg{Updates: updates})
}

// persist writes appended messages to the transcript store. Failures are
// logged, never fatal.
func (p *Panel) persist(updates []reducer.Update) {
	if p.store == nil {
		return
	}
	for _, u := range updates {
		if u.Append == nil {
			continue
		}
		entry := transcript.Entry{
			Session:         p.sessionID,
			Role:            string(u.Append.Role),
			Text:            u.Append.Text,
			Command:         u.Append.Command,
			FriendlyTitle:   u.Append.FriendlyTitle,
			FriendlySummary: u.Append.FriendlySummary,
		}
		if err := p.store.Append(p.ctx, entry); err != nil {
			logger.Warn("transcript write failed: %v", err)
		}
	}
}

// drainErrors logs goroutine failures; a background error must never crash
// the panel.
func (p *Panel) drainErrors() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case err := <-p.errCh:
			logger.Error("background error: %v", err)
		}
	}
}
