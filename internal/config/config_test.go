package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME and the working directory at temp dirs so the test
// never sees the developer's real config files.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.CodexBin != "codex" {
		t.Errorf("CodexBin = %q, want codex", cfg.CodexBin)
	}
	if cfg.DataDir != ".codexpane" {
		t.Errorf("DataDir = %q, want .codexpane", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !cfg.EditorOpen {
		t.Error("EditorOpen should default to true")
	}
	if cfg.MCPServer {
		t.Error("MCPServer should default to false")
	}
}

func TestLoad_GlobalFile(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Model = "o4-mini"
	cfg.LogLevel = "debug"
	if err := WriteGlobal(cfg); err != nil {
		t.Fatalf("WriteGlobal failed: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists should report true after WriteGlobal")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "o4-mini" {
		t.Errorf("Model = %q, want o4-mini", loaded.Model)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", loaded.LogLevel)
	}
	// Untouched fields keep their defaults.
	if loaded.CodexBin != "codex" {
		t.Errorf("CodexBin = %q, want codex", loaded.CodexBin)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := Default()
	global.Model = "global-model"
	global.DataDir = ".global-data"
	if err := WriteGlobal(global); err != nil {
		t.Fatalf("WriteGlobal failed: %v", err)
	}

	project := Default()
	project.Model = "project-model"
	project.DataDir = ".project-data"
	if err := WriteProject(project); err != nil {
		t.Fatalf("WriteProject failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "project-model" {
		t.Errorf("Model = %q, want project-model", loaded.Model)
	}
	if loaded.DataDir != ".project-data" {
		t.Errorf("DataDir = %q, want .project-data", loaded.DataDir)
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	project := Default()
	project.Model = "file-model"
	if err := WriteProject(project); err != nil {
		t.Fatalf("WriteProject failed: %v", err)
	}

	t.Setenv("CODEXPANE_MODEL", "env-model")
	t.Setenv("CODEXPANE_CODEX_BIN", "/opt/codex/bin/codex")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "env-model" {
		t.Errorf("Model = %q, want env-model", loaded.Model)
	}
	if loaded.CodexBin != "/opt/codex/bin/codex" {
		t.Errorf("CodexBin = %q, want /opt/codex/bin/codex", loaded.CodexBin)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile(ProjectPath(), []byte("model: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.CodexBin = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty codex_bin should be rejected")
	}

	cfg = Default()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log_level should be rejected")
	}
}

func TestResolvedLogFile(t *testing.T) {
	cfg := Default()
	if got, want := cfg.ResolvedLogFile(), filepath.Join(".codexpane", "codexpane.log"); got != want {
		t.Errorf("ResolvedLogFile = %q, want %q", got, want)
	}

	cfg.LogFile = "/tmp/custom.log"
	if cfg.ResolvedLogFile() != "/tmp/custom.log" {
		t.Errorf("explicit log_file should win, got %q", cfg.ResolvedLogFile())
	}
}
