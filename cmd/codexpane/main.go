package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codexpane",
	Short: "Terminal side panel for the codex CLI",
	Long: `codexpane is a terminal companion panel for the codex CLI.
It runs codex in JSON streaming mode, translates the raw event stream and
shell commands into a readable transcript, recovers diffs for file changes,
and persists every session via embedded NATS JetStream.`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagWorkDir, "workdir", "C", "", "workspace directory (default: current directory)")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model override passed to codex")
	rootCmd.Flags().StringVar(&flagResume, "resume", "", "session id to replay on startup")
	rootCmd.Flags().BoolVar(&flagMCP, "mcp", false, "expose panel state over a local MCP server")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
