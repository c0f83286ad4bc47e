// Package middleware provides built-in middleware implementations for the
// chat client. Each middleware is constructed via a New* function that returns
// a [client.Middleware] ready to be passed to [client.WithMiddleware] or
// [client.BuildChain].
//
// # Available Middleware
//
//   - [NewMemoryMiddleware]: Replays the recent history of a conversation from
//     a [memory.ChatMemory] before each call and records the new turn after it.
//
//   - [NewTimeoutMiddleware]: Adds a per-request deadline via context.WithTimeout,
//     covering memory reads and writes as well as the provider call when it
//     wraps the memory middleware.
//
//   - [NewLoggingMiddleware]: Emits structured slog log entries before and after
//     every provider call, with three verbosity levels (Minimal, Standard, Verbose).
//
// # Usage
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewMemoryMiddleware(store, middleware.WithLastN(20)),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
//	ctx = middleware.WithConversationID(ctx, "session-42")
//	resp, err := c.SendMessage(ctx, "hello")
//
// Middlewares execute outermost-first: the first entry in WithMiddleware is the
// outermost wrapper. In the example above, a request travels:
//
//	Timeout → Memory → Logging → Provider
//
// so the logged request already carries the replayed history.
package middleware
