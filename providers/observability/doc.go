// Package observability defines the tracing and structured logging
// interfaces used by the memory stores and the chat client chain.
//
// The central entry point is [Provider], which composes [Tracer] and [Logger]
// into a single injectable dependency. The active [Span] travels through a
// [context.Context]; stores call [SpanFromContext] and record events on it
// when one is present, and do nothing otherwise.
//
// The semconv.go file holds the attribute keys, span names and event names
// that components use when recording observations.
package observability
