package sqlmemory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/memory"
	"github.com/leofalp/chatmemory/providers/observability"
)

// Store implements [memory.ChatMemory] on top of a database/sql handle.
// All fields are fixed by New, so a Store is safe for concurrent use as long
// as the handle is; connection pooling and isolation are the handle's job.
type Store struct {
	db      *sql.DB
	dialect Dialect
	catalog catalog
	logger  *slog.Logger

	dsn               string
	dialectForced     bool
	ordering          Ordering
	tableName         string
	elideUnreplayable bool
}

// Compile-time checks.
var (
	_ memory.ChatMemory    = (*Store)(nil)
	_ memory.OrderReporter = (*Store)(nil)
)

// New probes db and returns a ready Store. A nil handle, a connection that
// cannot be obtained or unreadable metadata fail with memory.ErrConfig.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	store := &Store{
		db:        db,
		logger:    slog.Default(),
		tableName: defaultTableName,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := validateTableName(store.tableName); err != nil {
		return nil, err
	}

	detected, err := Probe(ctx, db, store.dsn)
	if err != nil {
		return nil, err
	}
	if !store.dialectForced {
		store.dialect = detected
	}

	store.catalog = newCatalog(store.dialect, store.tableName, store.ordering)

	if store.dialect == DialectSQLServer && store.ordering == OrderingLegacy {
		store.logger.WarnContext(ctx, "sqlmemory: SQL Server recent query returns the oldest messages first",
			"dialect", store.dialect.String(),
			"ordering", store.ordering.String(),
		)
	}

	store.logger.DebugContext(ctx, "sqlmemory: store ready",
		"dialect", store.dialect.String(),
		"table", store.tableName,
		"recent_order", store.catalog.order.String(),
	)

	return store, nil
}

// Dialect returns the dialect selected at construction.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// RecentOrder reports the order Recent returns its window in.
func (s *Store) RecentOrder() memory.Order {
	return s.catalog.order
}

// Append writes messages in list order inside one transaction using a single
// prepared INSERT, so the batch becomes visible atomically. The database
// assigns each row's timestamp.
func (s *Store) Append(ctx context.Context, conversationID string, messages []*ai.Message) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}
	if err := memory.ValidateMessages(messages); err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	if err := s.appendBatch(ctx, conversationID, messages); err != nil {
		return err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryBackend, "sql"),
			observability.String(observability.AttrMemoryDialect, s.dialect.String()),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryBatchSize, len(messages)),
		)
	}
	s.logger.DebugContext(ctx, "sqlmemory: appended messages",
		"conversation_id", conversationID,
		"count", len(messages),
	)
	return nil
}

func (s *Store) appendBatch(ctx context.Context, conversationID string, messages []*ai.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlmemory: append: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, s.catalog.append)
	if err != nil {
		return fmt.Errorf("sqlmemory: append: prepare: %w", err)
	}
	defer stmt.Close()

	for i, message := range messages {
		content, messageType := memory.EncodeMessage(message)
		if _, err := stmt.ExecContext(ctx, conversationID, content, messageType); err != nil {
			return fmt.Errorf("sqlmemory: append: message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlmemory: append: commit tx: %w", err)
	}
	return nil
}

// Recent returns up to lastN messages of the conversation in the order given
// by RecentOrder. TOOL rows come back as nil entries in their position unless
// the store was built WithElideUnreplayable.
func (s *Store) Recent(ctx context.Context, conversationID string, lastN int) ([]*ai.Message, error) {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return nil, err
	}
	if err := memory.ValidateLastN(lastN); err != nil {
		return nil, err
	}
	if lastN == 0 {
		return []*ai.Message{}, nil
	}

	rows, err := s.db.QueryContext(ctx, s.catalog.recent, s.catalog.recentArgs(conversationID, lastN)...)
	if err != nil {
		return nil, fmt.Errorf("sqlmemory: recent: %w", err)
	}
	defer rows.Close()

	messages, absent, err := s.scanMessages(rows)
	if err != nil {
		return nil, err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryRecent,
			observability.String(observability.AttrMemoryBackend, "sql"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
			observability.Int(observability.AttrMemoryLastN, lastN),
			observability.Int(observability.AttrMemoryReturned, len(messages)),
			observability.Int(observability.AttrMemoryAbsent, absent),
			observability.String(observability.AttrMemoryOrder, s.catalog.order.String()),
		)
	}
	return messages, nil
}

// scanMessages decodes (content, type) rows. It returns the decoded slice and
// the number of rows that decoded to nil.
func (s *Store) scanMessages(rows *sql.Rows) ([]*ai.Message, int, error) {
	messages := []*ai.Message{}
	absent := 0

	for rows.Next() {
		var content, messageType string
		if err := rows.Scan(&content, &messageType); err != nil {
			return nil, 0, fmt.Errorf("sqlmemory: scan row: %w", err)
		}

		message, err := memory.DecodeMessage(content, messageType)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlmemory: recent: %w", err)
		}
		if message == nil {
			absent++
			if s.elideUnreplayable {
				continue
			}
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlmemory: iterate rows: %w", err)
	}
	return messages, absent, nil
}

// Forget deletes every message of the conversation.
func (s *Store) Forget(ctx context.Context, conversationID string) error {
	if err := memory.ValidateConversationID(conversationID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.catalog.forget, conversationID); err != nil {
		return fmt.Errorf("sqlmemory: forget: %w", err)
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear,
			observability.String(observability.AttrMemoryBackend, "sql"),
			observability.String(observability.AttrMemoryConversationID, conversationID),
		)
	}
	s.logger.DebugContext(ctx, "sqlmemory: forgot conversation", "conversation_id", conversationID)
	return nil
}
