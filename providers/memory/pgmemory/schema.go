package pgmemory

import (
	"context"
	"fmt"
)

// createTableSQL creates the memory table. clock_timestamp() advances within
// a transaction, so rows of one batch keep their insertion order.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    conversation_id VARCHAR(256) NOT NULL,
    content         TEXT NOT NULL,
    type            VARCHAR(100) NOT NULL,
    "timestamp"     TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
    CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL'))
)`

// createConversationIndexSQL backs the recent query: all rows of a
// conversation ordered by timestamp.
const createConversationIndexSQL = `CREATE INDEX IF NOT EXISTS %s
    ON %s (conversation_id, "timestamp")`

// EnsureSchema creates the memory table and its index if they do not already
// exist. This is a convenience helper for development and prototyping.
func (m *PgMemory) EnsureSchema(ctx context.Context) error {
	tableSQL := fmt.Sprintf(createTableSQL, m.tableName)
	if _, err := m.db.Exec(ctx, tableSQL); err != nil {
		return fmt.Errorf("pgmemory: create table: %w", err)
	}

	indexSQL := fmt.Sprintf(createConversationIndexSQL, m.indexName, m.tableName)
	if _, err := m.db.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("pgmemory: create conversation index: %w", err)
	}

	return nil
}
