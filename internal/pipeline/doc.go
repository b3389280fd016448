// Package pipeline runs a navigation request through an ordered chain of
// interceptors and places the resulting page.
//
// The interceptor list is built once at startup and shared read-only by every
// navigation. Each navigation gets its own Invocation, which carries the
// mutable request (target page, parameters, URI update flag) and a cursor
// into the shared list.
//
// An interceptor continues the chain by calling Invocation.Invoke, before or
// after its own logic, so interceptors compose as before/after advice:
//
//	A-enter, B-enter, C-enter, placement, C-exit, B-exit, A-exit
//
// An interceptor that returns without continuing suspends the invocation.
// A suspended invocation is resumed later by calling Invoke again, which
// runs the next interceptor; Abort ends it for good.
//
// Design decision: The chain recurses through Invoke rather than looping,
// because after-advice must run once the rest of the chain has placed the
// page. The recursion depth is bounded by the number of interceptors.
package pipeline
