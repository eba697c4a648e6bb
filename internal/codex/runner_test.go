package codex

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	cperrors "github.com/mark3labs/codexpane/internal/errors"
)

func TestPreflight(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name string, content []byte, mode os.FileMode) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, content, mode); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name   string
		bin    string
		reason string // Expected BinaryError reason, "" for success
	}{
		{
			name:   "missing file",
			bin:    filepath.Join(dir, "does-not-exist"),
			reason: "missing",
		},
		{
			name:   "missing from PATH",
			bin:    "definitely-not-a-real-binary-name-xyz",
			reason: "missing",
		},
		{
			name:   "zero-byte placeholder",
			bin:    writeFile("placeholder", nil, 0o755),
			reason: "placeholder",
		},
		{
			name:   "not executable",
			bin:    writeFile("noexec", []byte("#!/bin/sh\n"), 0o644),
			reason: "not executable",
		},
		{
			name:   "usable binary",
			bin:    writeFile("ok", []byte("#!/bin/sh\nexit 0\n"), 0o755),
			reason: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(RunnerConfig{Bin: tt.bin})
			err := r.Preflight()
			if tt.reason == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, cperrors.ErrBinaryMissing) {
				t.Errorf("expected ErrBinaryMissing match, got %v", err)
			}
			var be *cperrors.BinaryError
			if !errors.As(err, &be) {
				t.Fatalf("expected BinaryError, got %T", err)
			}
			if be.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", be.Reason, tt.reason)
			}
		})
	}
}

func TestParseLoginStatus(t *testing.T) {
	tests := []struct {
		name   string
		output string
		wantOK bool
		method AuthMethod
	}{
		{"chatgpt login", "Logged in using ChatGPT\n", true, AuthChatGPT},
		{"chatgpt case-insensitive", "logged in with CHATGPT plan: plus", true, AuthChatGPT},
		{"api key login", "Logged in using an API key\n", true, AuthAPIKey},
		{"api key case-insensitive", "using api KEY credentials", true, AuthAPIKey},
		{"logged out", "Not logged in\n", false, AuthNone},
		{"empty output", "", false, AuthNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, method, err := ParseLoginStatus(tt.output)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK || method != tt.method {
				t.Errorf("got (%v, %q), want (%v, %q)", ok, method, tt.wantOK, tt.method)
			}
		})
	}
}

func TestNewRunner_DefaultBin(t *testing.T) {
	r := NewRunner(RunnerConfig{})
	if r.bin != "codex" {
		t.Errorf("bin = %q, want codex", r.bin)
	}
}
