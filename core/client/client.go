package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/observability"
)

// ErrNilProvider is returned by New when no provider is supplied.
var ErrNilProvider = errors.New("client: provider must not be nil")

// Client sends prompts to a provider through a fixed middleware chain.
// It holds no conversation state; history lives in a memory store reached
// through the memory middleware. A Client is safe for concurrent use.
type Client struct {
	provider     ai.Provider
	chain        SendFunc
	defaultModel string
	systemPrompt string
}

type clientConfig struct {
	middlewares  []Middleware
	observer     observability.Provider
	defaultModel string
	systemPrompt string
}

// Option configures a Client.
type Option func(*clientConfig)

// WithMiddleware appends middlewares to the chain. Earlier entries wrap later
// ones.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *clientConfig) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// WithObserver enables tracing and logging of every call. The observability
// middleware is prepended to the chain so it observes the final outcome.
func WithObserver(observer observability.Provider) Option {
	return func(c *clientConfig) {
		c.observer = observer
	}
}

// WithDefaultModel sets the model used when a request does not name one.
func WithDefaultModel(model string) Option {
	return func(c *clientConfig) {
		c.defaultModel = model
	}
}

// WithSystemPrompt sets the system prompt attached to requests built by
// SendMessage.
func WithSystemPrompt(prompt string) Option {
	return func(c *clientConfig) {
		c.systemPrompt = prompt
	}
}

// New builds a Client around provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	for i, middleware := range cfg.middlewares {
		if middleware == nil {
			return nil, fmt.Errorf("client: middleware %d is nil", i)
		}
	}

	middlewares := cfg.middlewares
	if cfg.observer != nil {
		middlewares = append([]Middleware{NewObservabilityMiddleware(cfg.observer, cfg.defaultModel)}, middlewares...)
	}

	return &Client{
		provider:     provider,
		chain:        BuildChain(providerSendFunc(provider), middlewares...),
		defaultModel: cfg.defaultModel,
		systemPrompt: cfg.systemPrompt,
	}, nil
}

// SendMessage sends prompt as a single user message through the chain.
func (c *Client) SendMessage(ctx context.Context, prompt string) (*ai.ChatResponse, error) {
	if prompt == "" {
		return nil, errors.New("client: prompt must not be empty")
	}

	return c.Send(ctx, ai.ChatRequest{
		Messages:     []ai.Message{*ai.NewUserMessage(prompt)},
		SystemPrompt: c.systemPrompt,
	})
}

// Send passes request through the chain. An empty Model is replaced by the
// client's default model.
func (c *Client) Send(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.defaultModel
	}
	return c.chain(ctx, request)
}
