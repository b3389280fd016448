package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/config"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded navigations",
		Long: `History lists the navigations recorded by "fragnav resolve --history",
most recent first. Parameter values are never stored: each navigation
keeps a SHA3-256 digest of its parameters and their count.

Examples:
  fragnav history
  fragnav history --limit 50 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	reportFlags(cmd)
	cmd.Flags().IntP("limit", "l", config.DefaultHistoryLimit,
		"Maximum number of navigations to list (0 lists everything)")
	cmd.Flags().StringP("window", "w", "", "Only list navigations of this window")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	window, err := cmd.Flags().GetString("window")
	if err != nil {
		return err
	}

	env, err := setup(cfg, true)
	if err != nil {
		return err
	}
	defer env.Close()

	records, err := env.store.ListNavigations(cmd.Context(), window, limit)
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	if _, err := newReportWriter(cfg, output).WriteHistory(records); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
