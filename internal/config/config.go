// Package config resolves the panel's configuration from, in increasing
// precedence, built-in defaults, the global config file, the project config
// file, and CODEXPANE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all panel settings.
type Config struct {
	CodexBin   string `mapstructure:"codex_bin" yaml:"codex_bin"`
	Model      string `mapstructure:"model" yaml:"model"`
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MCPServer  bool   `mapstructure:"mcp_server" yaml:"mcp_server"`
	EditorOpen bool   `mapstructure:"editor_open" yaml:"editor_open"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CodexBin:   "codex",
		Model:      "",
		DataDir:    ".codexpane",
		LogLevel:   "info",
		LogFile:    "",
		MCPServer:  false,
		EditorOpen: true,
	}
}

// GlobalPath returns the path of the per-user config file.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "codexpane", "codexpane.yml")
	}
	return filepath.Join(home, ".config", "codexpane", "codexpane.yml")
}

// ProjectPath returns the path of the per-project config file.
func ProjectPath() string {
	return "codexpane.yml"
}

// Exists reports whether either config file is present.
func Exists() bool {
	if _, err := os.Stat(GlobalPath()); err == nil {
		return true
	}
	_, err := os.Stat(ProjectPath())
	return err == nil
}

// Load resolves the configuration. Missing files are not an error; malformed
// files are.
func Load() (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("codex_bin", def.CodexBin)
	v.SetDefault("model", def.Model)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("mcp_server", def.MCPServer)
	v.SetDefault("editor_open", def.EditorOpen)

	for _, path := range []string{GlobalPath(), ProjectPath()} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("CODEXPANE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks invariants that would otherwise fail late and confusingly.
func (c *Config) Validate() error {
	if c.CodexBin == "" {
		return fmt.Errorf("codex_bin must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ResolvedLogFile returns the log file path, defaulting to a file inside the
// data directory when log_file is unset.
func (c *Config) ResolvedLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "codexpane.log")
}

// WriteGlobal writes cfg to the per-user config file, creating parent
// directories as needed.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeFile(path, cfg)
}

// WriteProject writes cfg to the per-project config file.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
