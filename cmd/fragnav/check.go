package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/crawler"
	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/navigator"
	"github.com/nao1215/fragnav/internal/report"
)

// errBrokenLinks is returned by check --strict when a link does not
// resolve cleanly.
var errBrokenLinks = errors.New("broken fragment links found")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.html>...",
		Short: "Resolve the fragment links found in HTML files",
		Long: `Check extracts the fragment links ("#Ticket/ABC", "#!About",
"?_escaped_fragment_=About") of the given HTML files and resolves each
distinct fragment once.

Links such as "index.html#Ticket/ABC" count as fragment links when
--base names the application document.

Examples:
  fragnav check docs/index.html
  fragnav check --strict --base https://app.example.com/index.html site/*.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheckCmd,
	}

	reportFlags(cmd)
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of fragments resolved at the same time")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the whole batch")
	cmd.Flags().String("base", "",
		"URL of the application document for absolute links")
	cmd.Flags().Bool("strict", false,
		"Fail when a link shows a problem, an exception or an error")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
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

	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}

	env, err := setup(cfg, true)
	if err != nil {
		return err
	}
	defer env.Close()

	fragments, err := collectFragments(env.app.Codec(), base, args)
	if err != nil {
		return err
	}
	env.logger.Debug("fragment links collected",
		"files", len(args),
		"fragments", len(fragments),
	)

	ctx, cancel := signalContext(env.logger)
	defer cancel()

	results, err := checkFragments(ctx, env, fragments)
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cmd, env.cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	if _, err := newReportWriter(env.cfg, output).WriteResolutions(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if strict {
		summary := report.Summarize(results)
		if broken := summary.Total - summary.Counts[model.OutcomeOK]; broken > 0 {
			return fmt.Errorf("%w: %d of %d", errBrokenLinks, broken, summary.Total)
		}
	}
	return nil
}

// collectFragments parses every file and returns the distinct fragment
// links in the order they are first seen.
func collectFragments(codec *fragment.Codec, base string, files []string) ([]string, error) {
	var opts []crawler.ParserOption
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		opts = append(opts, crawler.WithBaseURL(u))
	}
	parser := crawler.NewParser(codec, opts...)

	seen := make(map[string]bool)
	var fragments []string

	for _, path := range files {
		result, err := parseFile(parser, path)
		if err != nil {
			return nil, err
		}
		for _, f := range result.Fragments {
			if !seen[f] {
				seen[f] = true
				fragments = append(fragments, f)
			}
		}
	}

	return fragments, nil
}

func parseFile(parser *crawler.Parser, path string) (*crawler.ParseResult, error) {
	f, err := os.Open(path) //nolint:gosec // the user names the files to check
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	result, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// checkFragments resolves the collected fragments.
func checkFragments(ctx context.Context, env *environment, fragments []string) ([]*model.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, env.cfg.Timeout)
	defer cancel()

	resolver := navigator.NewBatchResolver(env.app,
		navigator.WithConcurrency(env.cfg.Concurrency),
		navigator.WithBatchLogger(env.logger),
	)

	results, err := resolver.Resolve(ctx, fragments)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fragments: %w", err)
	}
	return results, nil
}
