package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Memory Attributes ---

const (
	// AttrMemoryBackend names the store implementation ("sql", "pgx", "inmemory")
	AttrMemoryBackend = "memory.backend"

	// AttrMemoryDialect is the SQL dialect tag of a database-backed store
	AttrMemoryDialect = "memory.dialect"

	// AttrMemoryConversationID is the conversation being read or written
	AttrMemoryConversationID = "memory.conversation_id"

	// AttrMemoryBatchSize is the number of messages in one append call
	AttrMemoryBatchSize = "memory.batch_size"

	// AttrMemoryLastN is the requested window size of a recent read
	AttrMemoryLastN = "memory.last_n"

	// AttrMemoryReturned is the number of entries a recent read returned
	AttrMemoryReturned = "memory.returned"

	// AttrMemoryAbsent is the number of nil entries in a recent read
	AttrMemoryAbsent = "memory.absent"

	// AttrMemoryOrder is the order of a recent read ("newest_first", "oldest_first")
	AttrMemoryOrder = "memory.order"
)

// --- Client Attributes ---

const (
	// AttrClientModel is the model named in the request
	AttrClientModel = "client.model"

	// AttrClientHistoryMessages is the number of history messages injected into a request
	AttrClientHistoryMessages = "client.history_messages"

	// AttrClientRequestMessages is the number of messages sent to the provider
	AttrClientRequestMessages = "client.request_messages"

	// AttrClientFinishReason is the finish reason reported by the provider
	AttrClientFinishReason = "client.finish_reason"

	// AttrClientTotalTokens is the total token count reported by the provider
	AttrClientTotalTokens = "client.total_tokens"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the wall-clock duration of an operation
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanMemoryOperation is the span name for memory operations
	SpanMemoryOperation = "memory.operation"

	// SpanClientSendMessage is the span name for a call through the client chain
	SpanClientSendMessage = "client.send_message"
)

// --- Event Names ---

const (
	// EventMemoryAppend marks when messages are appended to memory
	EventMemoryAppend = "memory.append"

	// EventMemoryRecent marks when a recent window is read from memory
	EventMemoryRecent = "memory.recent"

	// EventMemoryClear marks when a conversation is forgotten
	EventMemoryClear = "memory.clear"
)
