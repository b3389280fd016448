package config

import "strings"

// CrawlConfig holds the crawl settings of the configuration file.
type CrawlConfig struct {
	// Depth overrides the crawl depth. If zero, the current CrawlDepth is kept.
	Depth int `yaml:"depth,omitempty" toml:"depth"`

	// MaxPages overrides the page limit. If zero, the current MaxPages is kept.
	MaxPages int `yaml:"maxPages,omitempty" toml:"max_pages"`

	// CrawlableOnly follows only links marked crawlable with "!".
	CrawlableOnly bool `yaml:"crawlableOnly,omitempty" toml:"crawlable_only"`

	// IgnorePatterns are fragment patterns to skip during crawling.
	// Patterns use glob syntax over the fragment without "#" and "!".
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty" toml:"ignore_patterns"`

	// FollowPatterns are fragment patterns to follow during crawling.
	// If specified, only fragments matching these patterns are crawled.
	FollowPatterns []string `yaml:"followPatterns,omitempty" toml:"follow_patterns"`
}

// CrawlFile is the crawl section of the configuration file.
type CrawlFile struct {
	// Defaults applies to every crawl unless overridden for its start fragment.
	Defaults CrawlConfig `yaml:"defaults,omitempty" toml:"defaults"`

	// Starts maps start fragments (without "#") to their crawl settings.
	// The home page is keyed by "".
	Starts map[string]CrawlConfig `yaml:"starts,omitempty" toml:"starts"`
}

// CrawlSettings returns the crawl settings for a start fragment.
// It merges the start-specific settings with the defaults.
func (f *File) CrawlSettings(start string) CrawlConfig {
	result := f.Crawl.Defaults

	s, ok := f.Crawl.Starts[strings.TrimPrefix(start, "#")]
	if !ok {
		return result
	}

	if s.Depth != 0 {
		result.Depth = s.Depth
	}
	if s.MaxPages != 0 {
		result.MaxPages = s.MaxPages
	}
	if s.CrawlableOnly {
		result.CrawlableOnly = true
	}
	if len(s.IgnorePatterns) > 0 {
		result.IgnorePatterns = s.IgnorePatterns
	}
	if len(s.FollowPatterns) > 0 {
		result.FollowPatterns = s.FollowPatterns
	}

	return result
}

// ApplyCrawl merges crawl settings into the configuration.
// Zero values keep the current settings.
func (c *Config) ApplyCrawl(s CrawlConfig) {
	if s.Depth != 0 {
		c.CrawlDepth = s.Depth
	}
	if s.MaxPages != 0 {
		c.MaxPages = s.MaxPages
	}
	if s.CrawlableOnly {
		c.CrawlableOnly = true
	}
	if len(s.IgnorePatterns) > 0 {
		c.IgnorePatterns = s.IgnorePatterns
	}
	if len(s.FollowPatterns) > 0 {
		c.FollowPatterns = s.FollowPatterns
	}
}
