package memory

import (
	"context"

	"github.com/leofalp/chatmemory/providers/ai"
)

// ChatMemory stores conversation turns. Every call is a round trip to the
// backing store; implementations keep no cache and perform no retries.
type ChatMemory interface {
	// Append persists messages in list order under conversationID. The whole
	// slice becomes visible atomically or the call fails. An empty slice is a
	// no-op; a nil slice or nil element is rejected with ErrInvalidArgument.
	Append(ctx context.Context, conversationID string, messages []*ai.Message) error

	// Recent returns up to lastN messages of the conversation. Entries whose
	// kind cannot be replayed are nil. lastN == 0 yields an empty slice and a
	// negative lastN is rejected with ErrInvalidArgument.
	Recent(ctx context.Context, conversationID string, lastN int) ([]*ai.Message, error)

	// Forget removes every message of the conversation. Forgetting an unknown
	// conversation is a no-op.
	Forget(ctx context.Context, conversationID string) error
}

// Order describes the sequence in which Recent returns its window.
type Order int

const (
	// NewestFirst returns the newest lastN messages, newest first.
	NewestFirst Order = iota
	// OldestFirst returns the oldest lastN messages, oldest first.
	OldestFirst
)

func (o Order) String() string {
	switch o {
	case NewestFirst:
		return "newest_first"
	case OldestFirst:
		return "oldest_first"
	default:
		return "unknown"
	}
}

// OrderReporter is implemented by stores that can tell callers how Recent
// orders its result. Consumers that need chronological history type-assert
// for it and assume NewestFirst when it is absent.
type OrderReporter interface {
	RecentOrder() Order
}

// RecentOrderOf returns the order reported by mem, or NewestFirst.
func RecentOrderOf(mem ChatMemory) Order {
	if reporter, ok := mem.(OrderReporter); ok {
		return reporter.RecentOrder()
	}
	return NewestFirst
}

// Chronological returns the non-nil entries of a Recent result ordered oldest
// to newest. The input slice is not modified.
func Chronological(messages []*ai.Message, order Order) []ai.Message {
	out := make([]ai.Message, 0, len(messages))
	for _, message := range messages {
		if message != nil {
			out = append(out, *message)
		}
	}
	if order == NewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
