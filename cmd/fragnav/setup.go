package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/database"
	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/log"
	"github.com/nao1215/fragnav/internal/navigator"
	"github.com/nao1215/fragnav/internal/registry"
	"github.com/nao1215/fragnav/internal/report"
)

// templatePath is the embedded configuration template.
const templatePath = "templates/fragnav.yaml"

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getGlobalString retrieves a persistent string flag from the command or the root.
func getGlobalString(cmd *cobra.Command, name string) (string, error) {
	if v, err := cmd.Flags().GetString(name); err == nil {
		return v, nil
	}
	return cmd.Root().PersistentFlags().GetString(name)
}

// buildConfig creates a Config from the global flags and the configuration file.
//
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise the pages of the embedded template are used.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = getGlobalString(cmd, "config")
	if err != nil {
		return nil, err
	}

	dbDir, err := getGlobalString(cmd, "db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	var file *config.File
	switch {
	case configPath != "":
		file, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		file, err = templateFile()
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyFile(file)

	return cfg, nil
}

// templateFile decodes the embedded configuration template.
func templateFile() (*config.File, error) {
	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config template: %w", err)
	}

	var file config.File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}
	return &file, nil
}

// setupLogger creates a structured logger based on the configuration.
// Parameter values that look like secrets are masked.
func setupLogger(cfg *config.Config, codec *fragment.Codec) (*slog.Logger, error) {
	level, err := log.Level(cfg.Verbose, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewSecureLogger(os.Stderr, level, log.WithCodec(codec)), nil
}

// newCodec creates the fragment codec from the configured separators.
func newCodec(cfg *config.Config) (*fragment.Codec, error) {
	codec, err := fragment.NewCodec(
		fragment.WithParamSeparator(cfg.ParamSeparator),
		fragment.WithValueSeparator(cfg.ValueSeparator),
	)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return codec, nil
}

// environment is everything a command needs to navigate.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *navigator.Application
	store  *database.Store
}

// Close releases the database, if one was opened.
func (e *environment) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// setup validates the configuration, registers the declared pages and
// builds the application. The database is opened when withStore is true;
// it then serves entity lookups and, when enabled, navigation history.
func setup(cfg *config.Config, withStore bool) (*environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	codec, err := newCodec(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := setupLogger(cfg, codec)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	slog.SetDefault(logger)

	var pages []config.PageConfig
	if cfg.Pages != nil {
		pages = cfg.Pages.Pages
	}
	descriptors, err := registry.FromConfig(pages)
	if err != nil {
		return nil, fmt.Errorf("invalid page declarations: %w", err)
	}

	reg, err := registry.New(descriptors,
		registry.WithHomePage(cfg.HomePage),
		registry.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register pages: %w", err)
	}

	env := &environment{cfg: cfg, logger: logger}

	opts := []navigator.AppOption{
		navigator.WithCodec(codec),
		navigator.WithLogger(logger),
		navigator.WithLayout(layoutFactory(cfg)),
	}

	if withStore {
		env.store, err = database.Open(cfg.DBDir, database.Options{
			CreateIfNotExists: true,
			EnableWAL:         true,
			Codec:             codec,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("database opened", "path", env.store.Path())

		opts = append(opts, navigator.WithEntityFinder(env.store))
		if cfg.RecordHistory {
			opts = append(opts, navigator.WithHistory(env.store))
		}
	}

	env.app = navigator.NewApplication(reg, opts...)
	return env, nil
}

// layoutFactory returns the layout constructor selected by the configuration.
func layoutFactory(cfg *config.Config) func() navigator.Layout {
	if cfg.Layout == config.LayoutHeaderFooter {
		header, footer := cfg.Header, cfg.Footer
		return func() navigator.Layout {
			return navigator.NewHeaderFooterLayout(header, footer)
		}
	}
	return func() navigator.Layout {
		return navigator.NewPlainLayout()
	}
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// reportFlags adds the output format flags shared by report commands.
func reportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// readReportFlags copies the output format flags into the configuration.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	return err
}

// openOutput returns the report destination: the report file when one is
// configured, the command output otherwise. The returned function closes it.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain entity data that should only be readable by the owner
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// newReportWriter creates the report writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
