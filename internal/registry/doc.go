// Package registry maps page identifiers to the names used in fragments.
//
// A Registry is built once at startup from a static list of Descriptors and
// is immutable afterwards, so it can be shared by every window and session
// without locking. Registration problems are reported together as
// *model.ConfigurationError values combined with go.uber.org/multierr.
package registry
