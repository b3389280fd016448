package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/config"
)

//go:embed templates/fragnav.yaml
var configTemplate embed.FS

// tomlConfigFile is the default output of "init --toml".
const tomlConfigFile = ".fragnav.toml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter fragnav configuration file",
		Long: `Init writes a commented .fragnav.yaml declaring a few example pages:
a home page, pages with positional, named, entity and enum parameters, a
page guarded by a navigation warning and a crawlable page. Edit it to
declare your own pages.

With --toml the same declarations are written as TOML, without comments.

Examples:
  fragnav init
  fragnav init -o config/pages.yaml
  fragnav init --toml
  fragnav init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path (default: .fragnav.yaml, or .fragnav.toml with --toml)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing file")
	cmd.Flags().Bool("toml", false,
		"Write the configuration as TOML")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	asTOML, err := cmd.Flags().GetBool("toml")
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = config.DefaultConfigFile
		if asTOML {
			outputPath = tomlConfigFile
		}
	}
	if asTOML && !strings.EqualFold(filepath.Ext(outputPath), ".toml") {
		return fmt.Errorf("TOML configuration files must end in .toml: %s", outputPath)
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := renderTemplate(asTOML)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	file, err := templateFile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s with %d example pages.\n", outputPath, len(file.Pages))
	fmt.Fprintln(out, "Try:")
	fmt.Fprintln(out, "  fragnav routes")
	fmt.Fprintln(out, "  fragnav resolve 'Ticket/XYZ' '#!About'")
	fmt.Fprintln(out, "  fragnav crawl")

	return nil
}

// renderTemplate returns the embedded template, re-encoded as TOML when asked.
func renderTemplate(asTOML bool) ([]byte, error) {
	if !asTOML {
		content, err := configTemplate.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config template: %w", err)
		}
		return content, nil
	}

	file, err := templateFile()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("# fragnav configuration file, see \"fragnav init\" for the commented YAML version.\n\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return nil, fmt.Errorf("failed to encode config template: %w", err)
	}
	return buf.Bytes(), nil
}
