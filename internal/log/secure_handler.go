package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/fragnav/internal/fragment"
)

// sensitiveKeys contains attribute keys and parameter names that are always
// masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"refresh_token": true,
	"session":       true,
	"session_id":    true,
	"sessionid":     true,
	"sid":           true,
	"jsessionid":    true,
	"credential":    true,
	"credentials":   true,
	"auth":          true,
}

// sensitiveKeywords mark a key as sensitive when contained in it.
// The bare "key" keyword is left out: "primary_key" and "monkey" are fine.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "session",
}

// sensitivePatterns contains regex patterns that indicate sensitive values.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Long alphanumeric strings, as most API keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// fragmentKeys are the attribute keys whose values are fragments or
// parameter parts.
var fragmentKeys = map[string]bool{
	"fragment": true,
	"params":   true,
	"uri":      true,
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler to mask sensitive information before
// records reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger so
// that every package keeps logging through a plain *slog.Logger.
type SecureHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler

	// params are extra parameter names to mask in fragments, lower-cased.
	params map[string]bool

	// codec splits fragments into parameter tokens.
	codec *fragment.Codec
}

// Option configures a SecureHandler.
type Option func(*SecureHandler)

// WithSensitiveParams masks the values of the given named parameters in
// fragments, in addition to the built-in sensitive names.
func WithSensitiveParams(names ...string) Option {
	return func(h *SecureHandler) {
		for _, name := range names {
			h.params[strings.ToLower(name)] = true
		}
	}
}

// WithCodec sets the codec used to split fragments. The default uses "/" and "=".
func WithCodec(codec *fragment.Codec) Option {
	return func(h *SecureHandler) {
		h.codec = codec
	}
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler, opts ...Option) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &SecureHandler{
		handler: handler,
		params:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.codec == nil {
		h.codec = fragment.Default()
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return h.derive(h.handler.WithAttrs(sanitizedAttrs))
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return h.derive(h.handler.WithGroup(name))
}

func (h *SecureHandler) derive(handler slog.Handler) *SecureHandler {
	return &SecureHandler{handler: handler, params: h.params, codec: h.codec}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if isSensitiveName(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if fragmentKeys[keyLower] {
		return slog.String(a.Key, h.MaskFragment(value))
	}
	if isSensitiveValue(value) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// MaskFragment masks the values of sensitive named parameters in a
// fragment or parameter part. Other tokens are kept as they are.
func (h *SecureHandler) MaskFragment(raw string) string {
	if raw == "" {
		return raw
	}

	sep := h.codec.ParamSeparator()
	tokens := strings.Split(raw, sep)
	masked := false

	for i, token := range tokens {
		key, value, named := h.codec.SplitToken(token)
		switch {
		case named && (h.params[strings.ToLower(key)] || isSensitiveName(strings.ToLower(key))),
			named && isSensitiveValue(value):
			tokens[i] = h.codec.NamedToken(key, MaskValue)
			masked = true
		case !named && isSensitiveValue(token):
			tokens[i] = MaskValue
			masked = true
		}
	}

	if !masked {
		return raw
	}
	return strings.Join(tokens, sep)
}

// isSensitiveName reports whether a lower-cased key or parameter name is sensitive.
func isSensitiveName(key string) bool {
	if sensitiveKeys[key] {
		return true
	}
	return slices.ContainsFunc(sensitiveKeywords, func(keyword string) bool {
		return strings.Contains(key, keyword)
	})
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	return slices.ContainsFunc(sensitivePatterns, func(p *regexp.Regexp) bool {
		return p.MatchString(value)
	})
}

// NewSecureLogger creates a text logger with secure handling at the given level.
func NewSecureLogger(w io.Writer, level slog.Level, opts ...Option) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(textHandler, opts...))
}

// NewSecureJSONLogger creates a JSON logger with secure handling at the
// given level. Useful for structured log aggregation.
func NewSecureJSONLogger(w io.Writer, level slog.Level, opts ...Option) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(jsonHandler, opts...))
}

// ParseLevel parses "debug", "info", "warn" or "error", case-insensitively.
// An empty string is "warn".
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}

// Level returns the level for a verbose flag and a configured level name.
// Verbose always wins.
func Level(verbose bool, configured string) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	return ParseLevel(configured)
}
