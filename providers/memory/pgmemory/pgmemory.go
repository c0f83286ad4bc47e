package pgmemory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/memory"
	"github.com/leofalp/chatmemory/providers/observability"
)

// defaultTableName is the PostgreSQL table used when no custom name is provided.
const defaultTableName = "ai_chat_memory"

// Querier abstracts the pgx methods needed by PgMemory. *pgxpool.Pool,
// *pgx.Conn and pgx.Tx all satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TxQuerier extends Querier with transaction support. When the handle
// implements it, Append wraps its batch in Begin/Commit; otherwise the batch
// relies on the implicit transaction PostgreSQL opens for a pipelined batch.
type TxQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgMemory implements [memory.ChatMemory] with PostgreSQL persistence.
// Thread safety is handled by the underlying pgx connection pool; no
// application-level mutex is needed.
type PgMemory struct {
	db        Querier
	tableName string
	indexName string
	logger    *slog.Logger
}

// Compile-time checks.
var (
	_ memory.ChatMemory    = (*PgMemory)(nil)
	_ memory.OrderReporter = (*PgMemory)(nil)
)

// Option configures optional PgMemory behavior.
type Option func(*PgMemory)

// WithTableName overrides the default table name ("ai_chat_memory").
// The name is sanitized via pgx.Identifier to prevent SQL injection,
// since it is interpolated into queries via fmt.Sprintf.
func WithTableName(name string) Option {
	return func(m *PgMemory) {
		m.tableName = pgx.Identifier{name}.Sanitize()
		m.indexName = pgx.Identifier{name + "_conversation_id_timestamp_idx"}.Sanitize()
	}
}

// WithLogger sets the logger used for debug records. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *PgMemory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a PostgreSQL-backed chat memory. The db parameter must be a
// pgx-compatible query executor (typically *pgxpool.Pool).
func New(db Querier, opts ...Option) *PgMemory {
	pgMemory := &PgMemory{
		db:     db,
		logger: slog.Default(),
	}
	WithTableName(defaultTableName)(pgMemory)
	for _, opt := range opts {
		opt(pgMemory)
	}
	return pgMemory
}

// RecentOrder reports that Recent returns the newest messages first.
func (m *PgMemory) RecentOrder() memory.Order {
	return memory.NewestFirst
}

// Append queues one INSERT per message into a single pgx.Batch, in list
// order. The database assigns each row's timestamp.
func (m *PgMemory) Append(ctx context.Context, conversationID string, messages []*ai.Message) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}
	if err := memory.ValidateMessages(messages); err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (conversation_id, content, type) VALUES ($1, $2, $3)`, m.tableName)

	batch := &pgx.Batch{}
	for _, message := range messages {
		content, messageType := memory.EncodeMessage(message)
		batch.Queue(query, conversationID, content, messageType)
	}

	var err error
	if txDB, ok := m.db.(TxQuerier); ok {
		err = m.appendAtomic(ctx, txDB, batch)
	} else {
		err = sendBatch(ctx, m.db, batch)
	}
	if err != nil {
		return err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryBackend, "pgx"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryBatchSize, len(messages)),
		)
	}
	m.logger.DebugContext(ctx, "pgmemory: appended messages",
		"conversation_id", conversationID,
		"count", len(messages),
	)
	return nil
}

// appendAtomic sends the batch inside an explicit transaction.
func (m *PgMemory) appendAtomic(ctx context.Context, txDB TxQuerier, batch *pgx.Batch) error {
	tx, err := txDB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgmemory: append begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := sendBatch(ctx, tx, batch); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgmemory: append commit tx: %w", err)
	}
	return nil
}

// sendBatch executes every queued statement and closes the results.
func sendBatch(ctx context.Context, db Querier, batch *pgx.Batch) error {
	results := db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("pgmemory: append message %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("pgmemory: append close batch: %w", err)
	}
	return nil
}

// Recent returns up to lastN messages of the conversation, newest first.
// TOOL rows come back as nil entries in their position.
func (m *PgMemory) Recent(ctx context.Context, conversationID string, lastN int) ([]*ai.Message, error) {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return nil, err
	}
	if err := memory.ValidateLastN(lastN); err != nil {
		return nil, err
	}
	if lastN == 0 {
		return []*ai.Message{}, nil
	}

	query := fmt.Sprintf(`SELECT content, type FROM %s WHERE conversation_id = $1 ORDER BY "timestamp" DESC LIMIT $2`, m.tableName)

	rows, err := m.db.Query(ctx, query, conversationID, lastN)
	if err != nil {
		return nil, fmt.Errorf("pgmemory: recent: %w", err)
	}
	defer rows.Close()

	messages, absent, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryRecent,
			observability.String(observability.AttrMemoryBackend, "pgx"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryLastN, lastN),
			observability.Int(observability.AttrMemoryReturned, len(messages)),
			observability.Int(observability.AttrMemoryAbsent, absent),
		)
	}
	return messages, nil
}

// Forget deletes every message of the conversation.
func (m *PgMemory) Forget(ctx context.Context, conversationID string) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE conversation_id = $1`, m.tableName)
	if _, err := m.db.Exec(ctx, query, conversationID); err != nil {
		return fmt.Errorf("pgmemory: forget: %w", err)
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear,
			observability.String(observability.AttrMemoryBackend, "pgx"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
		)
	}
	m.logger.DebugContext(ctx, "pgmemory: forgot conversation", "conversation_id", conversationID)
	return nil
}

// scanMessages decodes (content, type) rows and counts the nil entries.
// Returns an empty non-nil slice when no rows are present.
func scanMessages(rows pgx.Rows) ([]*ai.Message, int, error) {
	messages := []*ai.Message{}
	absent := 0

	for rows.Next() {
		var content, messageType string
		if err := rows.Scan(&content, &messageType); err != nil {
			return nil, 0, fmt.Errorf("pgmemory: scan row: %w", err)
		}

		message, err := memory.DecodeMessage(content, messageType)
		if err != nil {
			return nil, 0, fmt.Errorf("pgmemory: recent: %w", err)
		}
		if message == nil {
			absent++
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgmemory: iterate rows: %w", err)
	}
	return messages, absent, nil
}
