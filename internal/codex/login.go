package codex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"
)

// AuthMethod describes how the codex CLI is authenticated.
type AuthMethod string

const (
	AuthNone    AuthMethod = ""
	AuthChatGPT AuthMethod = "ChatGPT"
	AuthAPIKey  AuthMethod = "API key"
)

var (
	chatGPTPattern = regexp.MustCompile(`(?i)ChatGPT`)
	apiKeyPattern  = regexp.MustCompile(`(?i)API key`)
)

// CheckLogin shells out to `codex login status` and reports whether usable
// credentials exist. The CLI signals the mode on stdout rather than with a
// structured exit protocol, so the output is pattern-matched.
func (r *Runner) CheckLogin(ctx context.Context) (bool, AuthMethod, error) {
	if err := r.Preflight(); err != nil {
		return false, AuthNone, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin, "login", "status")
	out, err := cmd.CombinedOutput()
	if err != nil {
		// Non-zero exit means logged out, not a failure of the check.
		return false, AuthNone, nil
	}
	return ParseLoginStatus(string(out))
}

// ParseLoginStatus interprets the stdout of a successful `codex login status`.
func ParseLoginStatus(output string) (bool, AuthMethod, error) {
	switch {
	case chatGPTPattern.MatchString(output):
		return true, AuthChatGPT, nil
	case apiKeyPattern.MatchString(output):
		return true, AuthAPIKey, nil
	default:
		return false, AuthNone, nil
	}
}

// Login runs the CLI's interactive login, inheriting the terminal. Blocks
// until the flow completes or the context is cancelled.
func (r *Runner) Login(ctx context.Context) error {
	if err := r.Preflight(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.bin, "login")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("codex login failed: %w", err)
	}
	return nil
}
