// Package ai defines the shared, provider-agnostic message types used across
// the chat client and its memory stores.
//
// Conversation turns are carried as [Message] values tagged with a
// [MessageRole]. Requests flow through [ChatRequest] and responses come back
// as [ChatResponse]; any model backend plugs in through [Provider].
package ai
