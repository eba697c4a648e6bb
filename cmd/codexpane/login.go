package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/codexpane/internal/codex"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to codex",
	Long: `Run the codex CLI's interactive login flow, then report which
authentication method is active.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	runner := codex.NewRunner(codex.RunnerConfig{Bin: cfg.CodexBin, Model: cfg.Model})

	ok, method, err := runner.CheckLogin(cmd.Context())
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("Already logged in (%s)\n", method)
		return nil
	}

	if err := runner.Login(cmd.Context()); err != nil {
		return err
	}

	ok, method, err = runner.CheckLogin(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("login did not produce usable credentials")
	}
	fmt.Printf("Logged in (%s)\n", method)
	return nil
}
