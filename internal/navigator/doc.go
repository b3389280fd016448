// Package navigator ties the fragment codec, the page registry, the
// parameter binder and the interceptor chain together.
//
// An Application holds what every window shares: the registry, the codec,
// the binder and the interceptor list. It is built once at startup and is
// safe for concurrent use. A Navigator is one window: it owns the displayed
// page and the visible fragment, and serializes the navigations of that
// window. Windows never share mutable state, so different windows navigate
// concurrently.
package navigator
