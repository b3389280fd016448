package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/navigator"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <fragment>...",
		Short: "Resolve fragments through the navigation chain",
		Long: `Resolve opens a fresh window for every fragment and reports the page it
displays, the parameters it received, the visible fragment afterwards and
any problem shown to the user.

Fragments may be given with or without the leading "#". Entity parameters
are looked up in the fragnav database.

Examples:
  fragnav resolve 'Ticket/XYZ' '#Product/34/userId=7'
  fragnav resolve --json --concurrency 8 'Report/weekly' '!About'
  fragnav resolve --history 'Ticket/XYZ'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolveCmd,
	}

	reportFlags(cmd)
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of fragments resolved at the same time")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the whole batch")
	cmd.Flags().Bool("history", false,
		"Record every placed page in the navigation history")

	return cmd
}

// runResolveCmd executes the resolve command.
func runResolveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	cfg.RecordHistory, err = cmd.Flags().GetBool("history")
	if err != nil {
		return err
	}

	env, err := setup(cfg, true)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext(env.logger)
	defer cancel()

	return runResolve(ctx, cmd, env, args)
}

// runResolve resolves the fragments and writes the report.
func runResolve(ctx context.Context, cmd *cobra.Command, env *environment, fragments []string) error {
	ctx, cancel := context.WithTimeout(ctx, env.cfg.Timeout)
	defer cancel()

	for i, f := range fragments {
		fragments[i] = strings.TrimPrefix(f, "#")
	}

	resolver := navigator.NewBatchResolver(env.app,
		navigator.WithConcurrency(env.cfg.Concurrency),
		navigator.WithBatchLogger(env.logger),
	)

	results, err := resolver.Resolve(ctx, fragments)
	if err != nil {
		return fmt.Errorf("failed to resolve fragments: %w", err)
	}

	output, closeOutput, err := openOutput(cmd, env.cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	if _, err := newReportWriter(env.cfg, output).WriteResolutions(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
