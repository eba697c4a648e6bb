package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/codexpane/internal/config"
	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/panel"
)

var (
	flagWorkDir string
	flagModel   string
	flagResume  string
	flagMCP     bool
)

// loadSettings resolves configuration and applies command-line overrides.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if cmd.Flags().Changed("mcp") {
		cfg.MCPServer = flagMCP
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger.Init(cfg.ResolvedLogFile(), logger.ParseLevel(cfg.LogLevel))
	defer logger.Close()

	p, err := panel.New(panel.PanelConfig{
		WorkDir:       flagWorkDir,
		Settings:      cfg,
		ResumeSession: flagResume,
	})
	if err != nil {
		return err
	}

	if err := p.Start(); err != nil {
		return err
	}
	defer func() {
		if err := p.Stop(); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}()

	logger.Info("panel started, session %s", p.SessionID())
	return p.Run()
}
