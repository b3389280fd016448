package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/crawler"
	"github.com/nao1215/fragnav/internal/navigator"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-fragment]",
		Short: "Follow the fragment links rendered by the pages",
		Long: `Crawl resolves the start fragment (the home page by default), extracts
the fragment links from the rendered content, and resolves them in turn,
level by level, until the depth or page limit is reached.

Every resolution is reported with its depth and the links found on it,
so broken links show up as "Invalid URL" problems.

Patterns use glob syntax over the fragment without "#" and "!":
  --ignore 'Editor/*'       skip every Editor fragment
  --follow 'Ticket/*'       crawl only Ticket fragments

Examples:
  fragnav crawl
  fragnav crawl '#!About' --depth 2
  fragnav crawl --crawlable-only --markdown -o crawl.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	reportFlags(cmd)
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of fragments of one level resolved at the same time")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the whole crawl")
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Number of link levels followed from the start fragment")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum number of fragments resolved")
	cmd.Flags().Bool("crawlable-only", false,
		`Follow only links marked crawlable with "!"`)
	cmd.Flags().StringSlice("ignore", nil,
		"Fragment patterns to skip (repeatable)")
	cmd.Flags().StringSlice("follow", nil,
		"Fragment patterns to follow; others are skipped (repeatable)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
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

	start := ""
	if len(args) == 1 {
		start = args[0]
	}
	if cfg.Pages != nil {
		cfg.ApplyCrawl(cfg.Pages.CrawlSettings(start))
	}
	if err := readCrawlFlags(cmd, cfg); err != nil {
		return err
	}

	env, err := setup(cfg, true)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext(env.logger)
	defer cancel()

	return runCrawl(ctx, cmd, env, start)
}

// readCrawlFlags applies the crawl flags given on the command line over the
// settings of the configuration file. Pattern flags add to the configured
// patterns.
func readCrawlFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("depth") {
		if cfg.CrawlDepth, err = flags.GetInt("depth"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("crawlable-only") {
		if cfg.CrawlableOnly, err = flags.GetBool("crawlable-only"); err != nil {
			return err
		}
	}

	ignore, err := flags.GetStringSlice("ignore")
	if err != nil {
		return err
	}
	cfg.IgnorePatterns = append(cfg.IgnorePatterns, ignore...)

	follow, err := flags.GetStringSlice("follow")
	if err != nil {
		return err
	}
	cfg.FollowPatterns = append(cfg.FollowPatterns, follow...)

	return nil
}

// runCrawl crawls from start and writes the resolutions.
// Resolutions gathered before a timeout are still reported.
func runCrawl(ctx context.Context, cmd *cobra.Command, env *environment, start string) error {
	ctx, cancel := context.WithTimeout(ctx, env.cfg.Timeout)
	defer cancel()

	resolver := navigator.NewBatchResolver(env.app,
		navigator.WithConcurrency(env.cfg.Concurrency),
		navigator.WithBatchLogger(env.logger),
	)

	spider := crawler.NewSpider(resolver,
		crawler.WithCodec(env.app.Codec()),
		crawler.WithMaxDepth(env.cfg.CrawlDepth),
		crawler.WithMaxPages(env.cfg.MaxPages),
		crawler.WithCrawlableOnly(env.cfg.CrawlableOnly),
		crawler.WithIgnorePatterns(env.cfg.IgnorePatterns),
		crawler.WithFollowPatterns(env.cfg.FollowPatterns),
		crawler.WithLogger(env.logger),
	)

	results, crawlErr := spider.Crawl(ctx, start)
	if crawlErr != nil {
		env.logger.Warn("crawl interrupted",
			"pages", len(results),
			"error", crawlErr,
		)
	}

	output, closeOutput, err := openOutput(cmd, env.cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	if _, err := newReportWriter(env.cfg, output).WriteResolutions(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if crawlErr != nil {
		return fmt.Errorf("failed to complete crawl: %w", crawlErr)
	}
	return nil
}
