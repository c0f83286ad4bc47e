// Package memory defines the [ChatMemory] contract for conversation history
// keyed by an opaque conversation id. Implementations persist turns with
// [ChatMemory.Append], replay them with [ChatMemory.Recent] and drop a whole
// conversation with [ChatMemory.Forget].
//
// Turns are stored as a (kind, text) pair. The closed kind set is described by
// [MessageType]; only USER, ASSISTANT and SYSTEM turns can be rebuilt into
// [ai.Message] values, so decoded sequences carry a nil entry in the position
// of any other kind.
//
// Implementations live in the sibling packages
// [github.com/leofalp/chatmemory/providers/memory/sqlmemory] (database/sql),
// [github.com/leofalp/chatmemory/providers/memory/pgmemory] (pgx) and
// [github.com/leofalp/chatmemory/providers/memory/inmemory].
package memory
