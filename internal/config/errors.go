package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() while the messages stay human-readable.
var (
	// ErrInvalidSeparator is returned when a fragment separator is empty or
	// uses a character reserved by the fragment syntax ("#" or "!").
	ErrInvalidSeparator = errors.New("invalid separator: must be non-empty and must not contain '#' or '!'")

	// ErrSameSeparators is returned when the parameter separator equals the
	// value separator. Named parameters could not be told apart from positional ones.
	ErrSameSeparators = errors.New("invalid separators: parameter and value separators must differ")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the resolution timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDepth is returned when the crawl depth is negative.
	// Zero is valid and resolves the start fragment only.
	ErrInvalidCrawlDepth = errors.New("invalid crawl depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the crawl page limit is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownLayout is returned when the layout is neither "plain" nor "header-footer".
	ErrUnknownLayout = errors.New("unknown layout: must be 'plain' or 'header-footer'")

	// ErrInvalidLogLevel is returned when the log level is not one of
	// debug, info, warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn or error")
)
