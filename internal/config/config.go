package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultParamSeparator separates the page name and the parameters of a fragment.
	DefaultParamSeparator = "/"

	// DefaultValueSeparator separates the key and the value of a named parameter.
	DefaultValueSeparator = "="

	// DefaultConcurrency of 4 concurrent resolutions is plenty for a CLI.
	// Every resolution runs in its own window, so there is no shared
	// mutable state to contend on.
	DefaultConcurrency = 4

	// DefaultTimeout bounds a whole batch of resolutions.
	DefaultTimeout = 30 * time.Second

	// DefaultLayout renders the page slot only.
	DefaultLayout = LayoutPlain

	// DefaultCrawlDepth is the number of links followed from the start
	// fragment by "fragnav crawl".
	DefaultCrawlDepth = 5

	// DefaultMaxPages bounds the fragments resolved by one crawl.
	DefaultMaxPages = 100

	// DefaultHistoryLimit is the number of navigations listed by "fragnav history".
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "fragnav"
)

// Layout names accepted in the configuration.
const (
	// LayoutPlain renders the current page alone.
	LayoutPlain = "plain"

	// LayoutHeaderFooter renders a header, the current page and a footer.
	LayoutHeaderFooter = "header-footer"
)

// reservedSeparatorChars may not appear in separators: they are part of the
// fragment syntax itself.
const reservedSeparatorChars = "#!"

// Config holds all configuration options for fragnav.
// This struct is populated from the configuration file and CLI flags and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct, the same as the page
// declarations which stay in File, since the number of options is small.
type Config struct {
	// ParamSeparator separates the page name and the parameters of a fragment.
	ParamSeparator string

	// ValueSeparator separates the key and the value of a named parameter.
	ValueSeparator string

	// HomePage is the identifier of the home page.
	// When empty, the first declared page is the home page.
	HomePage string

	// Layout selects how the window assembles its content.
	Layout string

	// Header and Footer are the texts of the header-footer layout.
	Header string
	Footer string

	// LogLevel is the level name from the configuration file.
	// Verbose takes precedence over it.
	LogLevel string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Concurrency is the number of fragments resolved at the same time.
	Concurrency int

	// Timeout bounds a whole batch of resolutions.
	Timeout time.Duration

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .fragnav.yaml in the current directory,
	// then in the user's home directory, then in the XDG config directory.
	ConfigFilePath string

	// Pages holds the page declarations loaded from the config file.
	Pages *File

	// JSONReport enables JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the SQLite database.
	// Defaults to XDG data directory (~/.local/share/fragnav on Linux).
	DBDir string

	// RecordHistory stores every placed page in the database.
	RecordHistory bool

	// CrawlDepth is the maximum number of links followed by a crawl.
	CrawlDepth int

	// MaxPages is the maximum number of fragments resolved by a crawl.
	MaxPages int

	// CrawlableOnly makes a crawl follow only links marked crawlable.
	CrawlableOnly bool

	// IgnorePatterns are fragment patterns a crawl skips.
	IgnorePatterns []string

	// FollowPatterns restrict a crawl to the matching fragments.
	FollowPatterns []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ParamSeparator: DefaultParamSeparator,
		ValueSeparator: DefaultValueSeparator,
		Layout:         DefaultLayout,
		Concurrency:    DefaultConcurrency,
		Timeout:        DefaultTimeout,
		CrawlDepth:     DefaultCrawlDepth,
		MaxPages:       DefaultMaxPages,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for fragnav.
// On Linux: ~/.local/share/fragnav
// On macOS: ~/Library/Application Support/fragnav
// On Windows: %LOCALAPPDATA%\fragnav
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for fragnav.
// On Linux: ~/.config/fragnav
// On macOS: ~/Library/Application Support/fragnav
// On Windows: %APPDATA%\fragnav
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the navigator settings of a configuration file into the
// configuration and keeps the page declarations. Empty settings in the file
// leave the current values untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	n := f.Navigator
	if n.ParamSeparator != "" {
		c.ParamSeparator = n.ParamSeparator
	}
	if n.ValueSeparator != "" {
		c.ValueSeparator = n.ValueSeparator
	}
	if n.HomePage != "" {
		c.HomePage = n.HomePage
	}
	if n.Layout != "" {
		c.Layout = n.Layout
	}
	if n.Header != "" {
		c.Header = n.Header
	}
	if n.Footer != "" {
		c.Footer = n.Footer
	}
	if n.LogLevel != "" {
		c.LogLevel = n.LogLevel
	}

	c.Pages = f
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// Page declarations are validated when the page registry is built, since
// only the registry knows every rule a declaration must follow.
func (c *Config) Validate() error {
	if !validSeparator(c.ParamSeparator) || !validSeparator(c.ValueSeparator) {
		return ErrInvalidSeparator
	}

	if c.ParamSeparator == c.ValueSeparator {
		return ErrSameSeparators
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDepth < 0 {
		return ErrInvalidCrawlDepth
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.Layout {
	case LayoutPlain, LayoutHeaderFooter:
	default:
		return ErrUnknownLayout
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

func validSeparator(sep string) bool {
	return sep != "" && !strings.ContainsAny(sep, reservedSeparatorChars)
}
