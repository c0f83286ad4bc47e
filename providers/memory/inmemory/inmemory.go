package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/memory"
	"github.com/leofalp/chatmemory/providers/observability"
)

// row is one stored message in its encoded form.
type row struct {
	content     string
	messageType string
}

// ArrayMemory is a simple, concurrency-safe in-memory message store keyed by
// conversation id. It uses RWMutex to guard access and is efficient for
// read-heavy workloads.
type ArrayMemory struct {
	mu            sync.RWMutex
	conversations map[string][]row
}

// New returns a new, empty [ArrayMemory] ready for immediate use.
func New() *ArrayMemory {
	return &ArrayMemory{
		conversations: make(map[string][]row),
	}
}

// Ensure ArrayMemory implements the memory interfaces at compile time.
var (
	_ memory.ChatMemory    = (*ArrayMemory)(nil)
	_ memory.OrderReporter = (*ArrayMemory)(nil)
)

// RecentOrder reports that Recent returns the newest messages first.
func (m *ArrayMemory) RecentOrder() memory.Order {
	return memory.NewestFirst
}

// Append stores messages at the end of the conversation under a single lock,
// so concurrent readers see either none or all of the batch.
// When an observability span is present in ctx, an event is recorded with the
// batch size.
func (m *ArrayMemory) Append(ctx context.Context, conversationID string, messages []*ai.Message) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}
	if err := memory.ValidateMessages(messages); err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	rows := make([]row, 0, len(messages))
	for _, message := range messages {
		content, messageType := memory.EncodeMessage(message)
		rows = append(rows, row{content: content, messageType: messageType})
	}

	m.mu.Lock()
	m.conversations[conversationID] = append(m.conversations[conversationID], rows...)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryBackend, "inmemory"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryBatchSize, len(messages)),
		)
	}
	return nil
}

// Recent returns up to lastN messages of the conversation, newest first.
// TOOL rows come back as nil entries in their position. The returned
// messages are fresh copies; mutating them does not affect stored state.
func (m *ArrayMemory) Recent(ctx context.Context, conversationID string, lastN int) ([]*ai.Message, error) {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return nil, err
	}
	if err := memory.ValidateLastN(lastN); err != nil {
		return nil, err
	}
	if lastN == 0 {
		return []*ai.Message{}, nil
	}

	m.mu.RLock()
	stored := m.conversations[conversationID]
	start := len(stored) - lastN
	if start < 0 {
		start = 0
	}
	window := make([]row, len(stored)-start)
	copy(window, stored[start:])
	m.mu.RUnlock()

	messages := make([]*ai.Message, 0, len(window))
	absent := 0
	for i := len(window) - 1; i >= 0; i-- {
		message, err := memory.DecodeMessage(window[i].content, window[i].messageType)
		if err != nil {
			return nil, fmt.Errorf("inmemory: recent: %w", err)
		}
		if message == nil {
			absent++
		}
		messages = append(messages, message)
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryRecent,
			observability.String(observability.AttrMemoryBackend, "inmemory"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryLastN, lastN),
			observability.Int(observability.AttrMemoryReturned, len(messages)),
			observability.Int(observability.AttrMemoryAbsent, absent),
		)
	}
	return messages, nil
}

// Forget drops every message of the conversation.
func (m *ArrayMemory) Forget(ctx context.Context, conversationID string) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.conversations, conversationID)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear,
			observability.String(observability.AttrMemoryBackend, "inmemory"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
		)
	}
	return nil
}
