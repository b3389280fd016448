package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/fragnav/internal/fragment"
)

// Error classes. Every typed error of this package matches exactly one of
// them with errors.Is.
var (
	// ErrConfiguration marks programming and setup mistakes: duplicate pages,
	// malformed parameter declarations, misuse of a link builder.
	// These are fatal and never recovered.
	ErrConfiguration = errors.New("navigation configuration error")

	// ErrParam marks problems with user supplied URL parameters.
	// The navigation is aborted and the previous page stays in place.
	ErrParam = errors.New("invalid URL parameter")

	// ErrPageInstantiation marks a page factory failure.
	// It is recovered by placing an ExceptionPage.
	ErrPageInstantiation = errors.New("page instantiation failed")
)

// ConfigurationError reports a setup or link-building mistake.
type ConfigurationError struct {
	// Op is the operation that detected the problem ("register", "build").
	Op string

	// PageID identifies the page concerned, empty when not page specific.
	PageID string

	// Reason describes the mistake.
	Reason string
}

// NewConfigurationError creates a ConfigurationError with a formatted reason.
func NewConfigurationError(op, pageID, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Op:     op,
		PageID: pageID,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.PageID != "" {
		sb.WriteString(" page ")
		sb.WriteString(strconv.Quote(e.PageID))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ParamError reports a URL parameter that cannot be injected into a page.
type ParamError struct {
	// PageID identifies the target page.
	PageID string

	// Position is the 0-based position of the parameter, -1 for named ones
	// and for cross-field validation failures.
	Position int

	// Name is the name of a named parameter.
	Name string

	// Field is the page slot the value was meant for.
	Field string

	// Value is the raw value found in the URL, if any.
	Value string

	// Reason is the message shown to the user.
	Reason string
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrParam.
func (e *ParamError) Is(target error) bool {
	return target == ErrParam
}

// PageInstantiationError reports that a page could not be constructed.
type PageInstantiationError struct {
	// PageID identifies the page that failed.
	PageID string

	// Params are the parameters of the navigation.
	Params fragment.Params

	// Err is the factory error, or the recovered panic value.
	Err error

	// Trace is the rendered failure trace shown on the exception page.
	Trace string
}

// Error implements the error interface.
func (e *PageInstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate page %q: %v", e.PageID, e.Err)
}

// Unwrap returns the underlying factory error.
func (e *PageInstantiationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPageInstantiation.
func (e *PageInstantiationError) Is(target error) bool {
	return target == ErrPageInstantiation
}
