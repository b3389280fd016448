package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRoutesCmd creates the routes command.
func NewRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Routes lists every declared page with its URI name, flags, parameter
slots and an example fragment.

Examples:
  fragnav routes
  fragnav routes --markdown -o routes.md`,
		Args: cobra.NoArgs,
		RunE: runRoutesCmd,
	}

	reportFlags(cmd)

	return cmd
}

// runRoutesCmd executes the routes command.
func runRoutesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}

	env, err := setup(cfg, false)
	if err != nil {
		return err
	}
	defer env.Close()

	output, closeOutput, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	table := env.app.RouteTable()
	if _, err := newReportWriter(cfg, output).WriteRoutes(&table); err != nil {
		return fmt.Errorf("failed to write route table: %w", err)
	}
	return nil
}
