package client

import (
	"context"

	"github.com/leofalp/chatmemory/providers/ai"
)

// SendFunc is a function that sends a chat request to the LLM provider and returns
// the completed response. It is the base unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware intercepts and optionally transforms LLM send requests and responses.
// Each Middleware receives the next SendFunc in the chain and returns a new SendFunc
// that wraps it. Middlewares are applied outermost-first: the first middleware in
// the slice is the outermost wrapper.
type Middleware func(next SendFunc) SendFunc

// AroundChain is the older single-method interceptor contract: an advisor
// receives the rest of the chain and calls NextAroundCall to continue it.
//
// Deprecated: use Middleware. SendFunc implements AroundChain so existing
// advisors keep working while they migrate.
type AroundChain interface {
	NextAroundCall(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)
}

// NextAroundCall invokes f, continuing the chain.
func (f SendFunc) NextAroundCall(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return f(ctx, request)
}

// Compile-time check: SendFunc must implement AroundChain.
var _ AroundChain = SendFunc(nil)

// BuildChain wraps base with middlewares. They are applied in reverse so that
// middlewares[0] is outermost, i.e. the first to execute on an incoming
// request and the last to see the response. Nil entries are skipped.
func BuildChain(base SendFunc, middlewares ...Middleware) SendFunc {
	chain := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		chain = middlewares[i](chain)
	}
	return chain
}

// providerSendFunc adapts a provider to the base of a chain.
func providerSendFunc(provider ai.Provider) SendFunc {
	return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}
}
