package ai

import "context"

// Provider is the interface every model backend satisfies. The chat client
// threads requests through its middleware chain and hands the final request
// to SendMessage.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails or
	// the context is cancelled.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}
