// Package codex wraps the external codex CLI: preflight checks on the
// binary, streaming JSON-mode execution, and the login sub-flow. It knows
// nothing about the event payloads themselves; raw stdout lines are handed
// to the caller one at a time.
package codex

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mark3labs/codexpane/internal/errors"
	"github.com/mark3labs/codexpane/internal/logger"
)

// Runner spawns one codex subprocess per prompt and streams its output.
type Runner struct {
	bin     string
	model   string
	workDir string
}

// RunnerConfig holds configuration for creating a new Runner.
type RunnerConfig struct {
	Bin     string // Path or name of the codex executable
	Model   string // Model override (optional)
	WorkDir string // Working directory for the run
}

// NewRunner creates a new Runner instance.
func NewRunner(cfg RunnerConfig) *Runner {
	bin := cfg.Bin
	if bin == "" {
		bin = "codex"
	}
	return &Runner{bin: bin, model: cfg.Model, workDir: cfg.WorkDir}
}

// Preflight verifies the codex executable is usable before spawning it.
// The three failure shapes (missing, not executable, zero-byte placeholder)
// each get a distinct, actionable error so the panel can tell the user what
// to fix instead of surfacing a raw spawn failure.
func (r *Runner) Preflight() error {
	resolved := r.bin
	if !strings.ContainsRune(resolved, os.PathSeparator) {
		p, err := exec.LookPath(resolved)
		if err != nil {
			return errors.NewBinaryError(resolved, "missing",
				"install the codex CLI and ensure it is on PATH")
		}
		resolved = p
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return errors.NewBinaryError(resolved, "missing",
			"install the codex CLI and ensure it is on PATH")
	}
	if info.Size() == 0 {
		return errors.NewBinaryError(resolved, "placeholder",
			"the file is empty; reinstall the codex CLI")
	}
	if info.Mode().Perm()&0o111 == 0 {
		return errors.NewBinaryError(resolved, "not executable",
			fmt.Sprintf("run: chmod +x %s", resolved))
	}
	return nil
}

// Run executes one prompt in JSON streaming mode. Every stdout line is
// passed to onLine as it arrives; the call blocks until the subprocess
// exits. A non-zero exit wraps ErrAgentFailed.
func (r *Runner) Run(ctx context.Context, prompt string, onLine func(line []byte)) error {
	if err := r.Preflight(); err != nil {
		return err
	}

	args := []string{"exec", "--json"}
	if r.model != "" {
		args = append(args, "-m", r.model)
	}
	if r.workDir != "" {
		args = append(args, "-C", r.workDir)
	}
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	logger.Debug("Starting codex subprocess: %s %v", r.bin, args[:len(args)-1])
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAgentFailed, err)
	}

	// Drain stderr in the background so the subprocess can't block on it.
	go func() {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			logger.Debug("codex stderr: %s", sc.Text())
		}
	}()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		onLine(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("codex stdout read error: %v", err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAgentFailed, err)
	}
	return nil
}
