package memory

import (
	"errors"
	"fmt"

	"github.com/leofalp/chatmemory/providers/ai"
)

var (
	// ErrConfig reports a store that cannot be initialised: missing data
	// source, unreachable database or unreadable connection metadata.
	ErrConfig = errors.New("memory: invalid configuration")

	// ErrInvalidArgument reports an empty conversation id, a nil messages
	// slice or element, a message with an unknown role, or a negative limit.
	ErrInvalidArgument = errors.New("memory: invalid argument")

	// ErrCorruptRow reports a persisted type tag outside the known kind set.
	ErrCorruptRow = errors.New("memory: corrupt row")
)

// ValidateConversationID rejects an empty conversation id.
func ValidateConversationID(conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("%w: conversation id must not be empty", ErrInvalidArgument)
	}
	return nil
}

// ValidateMessages rejects a nil slice, nil elements and roles outside the
// known kind set.
func ValidateMessages(messages []*ai.Message) error {
	if messages == nil {
		return fmt.Errorf("%w: messages must not be nil", ErrInvalidArgument)
	}
	for i, message := range messages {
		if message == nil {
			return fmt.Errorf("%w: message %d is nil", ErrInvalidArgument, i)
		}
		if _, ok := TypeOf(message.Role); !ok {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidArgument, i, message.Role)
		}
	}
	return nil
}

// ValidateLastN rejects a negative limit.
func ValidateLastN(lastN int) error {
	if lastN < 0 {
		return fmt.Errorf("%w: lastN must not be negative, got %d", ErrInvalidArgument, lastN)
	}
	return nil
}
