package model

import (
	"context"

	"github.com/nao1215/fragnav/internal/fragment"
)

// Page is a navigable unit of content. The navigation packages never look
// inside a page; they only check for the optional capabilities below.
type Page any

// ParamChangeListener is implemented by pages that want to be told about
// the parameters they were placed with, including in-place updates where
// only the parameters changed.
type ParamChangeListener interface {
	ParamChanged(ctx context.Context, event NavigationEvent)
}

// NavigationWarner is implemented by pages that may hold unsaved state.
// A non-empty warning makes the navigation wait for the user to confirm.
type NavigationWarner interface {
	NavigationWarning() string
}

// ExtraValidator is implemented by pages that validate their parameters as
// a whole once every slot has been injected. A non-empty message fails the
// injection.
type ExtraValidator interface {
	ValidateParams(params fragment.Params) string
}

// Renderer is implemented by pages that can render themselves as text.
// Layouts use it to assemble the window content.
type Renderer interface {
	Render() string
}

// Titled is implemented by pages that expose a title.
type Titled interface {
	Title() string
}

// EntityKeyer is implemented by entities referenced from URL parameters.
// The key is what appears in the fragment.
type EntityKeyer interface {
	EntityKey() string
}

// Problem is a user facing navigation problem: an unknown page name,
// a bad parameter, a failed page construction.
type Problem struct {
	// Message is the short text shown to the user.
	Message string

	// Detail explains the problem.
	Detail string

	// Fragment is the fragment being navigated to, when known.
	Fragment string

	// PageID is the target page, when known.
	PageID string

	// Err is the underlying error, if any.
	Err error
}

// String returns "Message: Detail", or Message alone without a detail.
func (p Problem) String() string {
	if p.Detail == "" {
		return p.Message
	}
	return p.Message + ": " + p.Detail
}

// Notifier displays problems to the user.
// It is implemented by the hosting application.
type Notifier interface {
	ReportProblem(ctx context.Context, problem Problem)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, problem Problem)

// ReportProblem calls f.
func (f NotifierFunc) ReportProblem(ctx context.Context, problem Problem) {
	f(ctx, problem)
}
