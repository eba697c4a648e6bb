package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/mark3labs/codexpane/internal/codex"
	"github.com/mark3labs/codexpane/internal/gitdiff"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check dependencies and environment",
	Long: `Check that required dependencies are installed and accessible.

This command verifies that:
- codex is installed, executable and not a broken placeholder
- codex has usable login credentials
- the workspace is (or is not) a git repository
- the data directory is writable`,
	RunE: runDoctor,
}

// Theme colors (catppuccin mocha)
var (
	colorPrimary = lipgloss.Color("#cba6f7") // Mauve
	colorMuted   = lipgloss.Color("#a6adc8") // Subtext0
	colorBase    = lipgloss.Color("#cdd6f4") // Text
	colorSuccess = lipgloss.Color("#a6e3a1") // Green
	colorWarning = lipgloss.Color("#f9e2af") // Yellow
	colorError   = lipgloss.Color("#f38ba8") // Red
	colorBorder  = lipgloss.Color("#585b70") // Surface2
)

type checkResult struct {
	name    string
	status  string
	details string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	runner := codex.NewRunner(codex.RunnerConfig{Bin: cfg.CodexBin})

	var results []checkResult
	allOk := true

	// codex binary
	if err := runner.Preflight(); err != nil {
		results = append(results, checkResult{
			name:    "codex",
			status:  "FAIL",
			details: err.Error(),
		})
		allOk = false
	} else {
		details := "usable"
		if out, err := exec.Command(cfg.CodexBin, "--version").CombinedOutput(); err == nil {
			details = strings.TrimSpace(string(out))
		}
		results = append(results, checkResult{name: "codex", status: "OK", details: details})
	}

	// login credentials
	ok, method, err := runner.CheckLogin(cmd.Context())
	switch {
	case err != nil:
		results = append(results, checkResult{name: "login", status: "WARN", details: "check failed: " + err.Error()})
	case ok:
		results = append(results, checkResult{name: "login", status: "OK", details: string(method)})
	default:
		results = append(results, checkResult{name: "login", status: "WARN", details: "logged out; run: codexpane login"})
	}

	// git repository
	wd := flagWorkDir
	if wd == "" {
		wd, _ = os.Getwd()
	}
	if branch := gitdiff.Branch(wd); branch != "" {
		results = append(results, checkResult{name: "git", status: "OK", details: "branch " + branch})
	} else {
		results = append(results, checkResult{name: "git", status: "WARN", details: "not a git repository; diff recovery limited"})
	}

	// data directory
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		results = append(results, checkResult{name: "data dir", status: "FAIL", details: err.Error()})
		allOk = false
	} else {
		results = append(results, checkResult{name: "data dir", status: "OK", details: cfg.DataDir})
	}

	// Build rows with status icons
	rows := make([][]string, len(results))
	for i, r := range results {
		var icon string
		switch r.status {
		case "OK":
			icon = "✓"
		case "FAIL":
			icon = "⊗"
		case "WARN":
			icon = "⊘"
		}
		rows[i] = []string{r.name, icon, r.details}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Check", "Status", "Details").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}

			style := lipgloss.NewStyle().Padding(0, 1)

			if col == 1 {
				switch results[row].status {
				case "OK":
					return style.Foreground(colorSuccess)
				case "FAIL":
					return style.Foreground(colorError)
				case "WARN":
					return style.Foreground(colorWarning)
				}
			}
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})

	fmt.Println(t)
	fmt.Println()

	successStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	if allOk {
		fmt.Println(successStyle.Render("✓ All checks passed!"))
		return nil
	}
	fmt.Println(errorStyle.Render("⊗ Some checks failed. Fix them before starting the panel."))
	return fmt.Errorf("doctor check failed")
}
