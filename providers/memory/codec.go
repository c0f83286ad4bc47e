package memory

import (
	"fmt"

	"github.com/leofalp/chatmemory/providers/ai"
)

// MessageType is the persisted kind tag of a message.
type MessageType string

const (
	TypeUser      MessageType = "USER"
	TypeAssistant MessageType = "ASSISTANT"
	TypeSystem    MessageType = "SYSTEM"
	TypeTool      MessageType = "TOOL"
)

// TypeOf maps a message role to its persisted kind. It reports false for
// roles outside the known set.
func TypeOf(role ai.MessageRole) (MessageType, bool) {
	switch role {
	case ai.RoleUser:
		return TypeUser, true
	case ai.RoleAssistant:
		return TypeAssistant, true
	case ai.RoleSystem:
		return TypeSystem, true
	case ai.RoleTool:
		return TypeTool, true
	default:
		return "", false
	}
}

// ParseMessageType parses a persisted tag. Matching is exact; anything else
// is an ErrCorruptRow.
func ParseMessageType(tag string) (MessageType, error) {
	switch t := MessageType(tag); t {
	case TypeUser, TypeAssistant, TypeSystem, TypeTool:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown message type %q", ErrCorruptRow, tag)
	}
}

// Replayable reports whether messages of this kind are rebuilt on read.
func (t MessageType) Replayable() bool {
	return t == TypeUser || t == TypeAssistant || t == TypeSystem
}

// EncodeMessage returns the content and type columns for message. The
// message must have passed ValidateMessages.
func EncodeMessage(message *ai.Message) (content string, messageType string) {
	t, _ := TypeOf(message.Role)
	return message.Content, string(t)
}

// DecodeMessage rebuilds a message from its persisted columns. Kinds that
// are not replayable decode to nil with no error.
func DecodeMessage(content, tag string) (*ai.Message, error) {
	t, err := ParseMessageType(tag)
	if err != nil {
		return nil, err
	}
	if !t.Replayable() {
		return nil, nil
	}

	switch t {
	case TypeUser:
		return ai.NewUserMessage(content), nil
	case TypeAssistant:
		return ai.NewAssistantMessage(content), nil
	default:
		return ai.NewSystemMessage(content), nil
	}
}
