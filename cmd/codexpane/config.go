package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/mark3labs/codexpane/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Display the current resolved configuration showing values from all sources.

Configuration precedence (highest to lowest):
  1. Environment variables (CODEXPANE_*)
  2. Project config (./codexpane.yml)
  3. Global config (~/.config/codexpane/codexpane.yml)
  4. Defaults`,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

var flagConfigProject bool

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigProject, "project", false, "write ./codexpane.yml instead of the global config")
	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	globalPath := config.GlobalPath()
	projectPath := config.ProjectPath()
	absProjectPath, err := filepath.Abs(projectPath)
	if err != nil {
		absProjectPath = projectPath
	}

	configRows := [][]string{
		{"codex_bin", cfg.CodexBin},
		{"model", cfg.Model},
		{"data_dir", cfg.DataDir},
		{"log_level", cfg.LogLevel},
		{"log_file", cfg.ResolvedLogFile()},
		{"mcp_server", strconv.FormatBool(cfg.MCPServer)},
		{"editor_open", strconv.FormatBool(cfg.EditorOpen)},
	}

	configTable := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Key", "Value").
		Rows(configRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})

	titleStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	fmt.Println(titleStyle.Render("Configuration"))
	fmt.Println(configTable)
	fmt.Println()

	fileRows := [][]string{
		{"Global", globalPath, fileStatus(globalPath)},
		{"Project", absProjectPath, fileStatus(projectPath)},
	}
	filesTable := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Type", "Path", "Status").
		Rows(fileRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 {
				if row < len(fileRows) && fileRows[row][2] == "✓" {
					return style.Foreground(colorSuccess)
				}
				return style.Foreground(colorWarning)
			}
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})

	fmt.Println(titleStyle.Render("Config Files"))
	fmt.Println(filesTable)

	if !config.Exists() {
		fmt.Println()
		noteStyle := lipgloss.NewStyle().Foreground(colorWarning)
		fmt.Println(noteStyle.Render("No config files found. Run 'codexpane config init' to create one."))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if flagConfigProject {
		if err := config.WriteProject(cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.ProjectPath())
		return nil
	}
	if err := config.WriteGlobal(cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", config.GlobalPath())
	return nil
}

func fileStatus(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "✓"
	}
	return "not found"
}
