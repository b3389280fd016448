// Package log provides logging with automatic masking of sensitive values,
// built on top of the standard slog package.
//
// URL fragments carry user input, so the attributes that hold fragments
// ("fragment", "params", "uri") are parsed and the values of sensitive
// named parameters are masked while the rest of the fragment stays readable:
//
//	Account/42/token=abc123  ->  Account/42/token=***REDACTED***
//
// Attributes whose key itself is sensitive (password, token, session, ...)
// and values that look like credentials (JWTs, bearer tokens) are masked
// as a whole. Masking also applies in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, slog.LevelDebug,
//	    log.WithSensitiveParams("userId"))
//	slog.SetDefault(logger)
package log
