package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/chatmemory/core/client"
	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/memory"
	"github.com/leofalp/chatmemory/providers/observability"
)

const (
	// DefaultConversationID is used when neither the context nor the options
	// name a conversation.
	DefaultConversationID = "default"

	// DefaultLastN is the number of history entries replayed per call.
	DefaultLastN = 100
)

// ErrNilResponse is returned when the wrapped call succeeds without a
// response to record.
var ErrNilResponse = errors.New("memory middleware: nil response")

type conversationIDKey struct{}

// WithConversationID returns a context that routes calls through the memory
// middleware to conversationID.
func WithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, conversationIDKey{}, conversationID)
}

// ConversationIDFromContext returns the conversation id stored by
// WithConversationID.
func ConversationIDFromContext(ctx context.Context) (string, bool) {
	conversationID, ok := ctx.Value(conversationIDKey{}).(string)
	return conversationID, ok && conversationID != ""
}

type memoryConfig struct {
	conversationID string
	lastN          int
}

// MemoryOption configures NewMemoryMiddleware.
type MemoryOption func(*memoryConfig)

// WithDefaultConversationID sets the conversation used when the context does
// not carry one.
func WithDefaultConversationID(conversationID string) MemoryOption {
	return func(c *memoryConfig) {
		c.conversationID = conversationID
	}
}

// WithLastN sets how many history entries are loaded per call. Zero disables
// replay while still recording turns.
func WithLastN(lastN int) MemoryOption {
	return func(c *memoryConfig) {
		c.lastN = lastN
	}
}

// NewMemoryMiddleware creates a Middleware that gives each call the recent
// history of its conversation.
//
// Before calling next it loads up to lastN entries from mem, drops the nil
// entries of kinds that cannot be replayed, puts them in chronological order
// (using [memory.RecentOrderOf]) and prepends them to the request messages.
// After a successful call it appends the request messages and the assistant
// reply to mem as one batch. Request messages that cannot be stored are
// rejected before next runs. Memory errors are returned to the caller; a
// failed provider call records nothing.
func NewMemoryMiddleware(mem memory.ChatMemory, opts ...MemoryOption) client.Middleware {
	cfg := &memoryConfig{
		conversationID: DefaultConversationID,
		lastN:          DefaultLastN,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	order := memory.RecentOrderOf(mem)

	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			conversationID, ok := ConversationIDFromContext(ctx)
			if !ok {
				conversationID = cfg.conversationID
			}

			turn := make([]*ai.Message, 0, len(request.Messages)+1)
			for i := range request.Messages {
				message := request.Messages[i]
				turn = append(turn, &message)
			}
			if err := memory.ValidateMessages(turn); err != nil {
				return nil, fmt.Errorf("memory middleware: validate request: %w", err)
			}

			entries, err := mem.Recent(ctx, conversationID, cfg.lastN)
			if err != nil {
				return nil, fmt.Errorf("memory middleware: load history: %w", err)
			}
			history := memory.Chronological(entries, order)

			if span := observability.SpanFromContext(ctx); span != nil {
				span.SetAttributes(
					observability.String(observability.AttrMemoryConversationID, conversationID),
					observability.Int(observability.AttrClientHistoryMessages, len(history)),
				)
			}

			enriched := request
			enriched.Messages = append(history, request.Messages...)

			response, err := next(ctx, enriched)
			if err != nil {
				return nil, err
			}
			if response == nil {
				return nil, ErrNilResponse
			}

			turn = append(turn, ai.NewAssistantMessage(response.Content))
			if err := mem.Append(ctx, conversationID, turn); err != nil {
				return nil, fmt.Errorf("memory middleware: record turn: %w", err)
			}

			return response, nil
		}
	}
}
