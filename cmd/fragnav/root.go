// Package main provides the entry point for the fragnav CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for fragnav.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragnav",
		Short: "URI fragment navigation for single-window applications",
		Long: `fragnav maps URI fragments such as "#Product/34/userId=7" to pages and
their parameters.

Pages and their parameter slots are declared in a .fragnav.yaml file
(see "fragnav init"). Without a configuration file, the pages of the
built-in template are used.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .fragnav.yaml in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory holding the fragnav database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewRoutesCmd())
	cmd.AddCommand(NewLinkCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewEntityCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
