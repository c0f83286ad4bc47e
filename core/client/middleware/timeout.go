package middleware

import (
	"context"
	"time"

	"github.com/leofalp/chatmemory/core/client"
	"github.com/leofalp/chatmemory/providers/ai"
)

// NewTimeoutMiddleware creates a Middleware that enforces a per-request
// deadline. The context is wrapped with context.WithTimeout and canceled once
// next returns. Everything below it in the chain, memory round trips
// included, shares the deadline.
//
// If the caller supplies a context that already has a shorter deadline, that
// shorter deadline wins as per normal context semantics. A non-positive
// timeout disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
