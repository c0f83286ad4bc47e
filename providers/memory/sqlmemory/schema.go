package sqlmemory

import (
	"context"
	"fmt"
)

// Per-dialect DDL. The first %s is the table name; index names are derived
// from it. Each timestamp column is filled by the server and must separate
// consecutive inserts of one transaction: PostgreSQL uses clock_timestamp()
// because CURRENT_TIMESTAMP is frozen per transaction, and SQLite uses a
// rowid counter because its clock only has second resolution.
const (
	createTableANSI = `CREATE TABLE IF NOT EXISTS %[1]s (
    conversation_id VARCHAR(256) NOT NULL,
    content         TEXT NOT NULL,
    type            VARCHAR(100) NOT NULL,
    "timestamp"     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT %[1]s_type_check CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL'))
)`

	createTablePostgreSQL = `CREATE TABLE IF NOT EXISTS %[1]s (
    conversation_id VARCHAR(256) NOT NULL,
    content         TEXT NOT NULL,
    type            VARCHAR(100) NOT NULL,
    "timestamp"     TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
    CONSTRAINT %[1]s_type_check CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL'))
)`

	createTableSQLite = `CREATE TABLE IF NOT EXISTS %[1]s (
    conversation_id TEXT NOT NULL,
    content         TEXT NOT NULL,
    type            TEXT NOT NULL CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL')),
    "timestamp"     INTEGER PRIMARY KEY AUTOINCREMENT
)`

	createTableMySQL = "CREATE TABLE IF NOT EXISTS %[1]s (\n" +
		"    conversation_id VARCHAR(256) NOT NULL,\n" +
		"    content         LONGTEXT NOT NULL,\n" +
		"    type            VARCHAR(100) NOT NULL,\n" +
		"    `timestamp`     TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),\n" +
		"    INDEX %[1]s_conversation_id_timestamp_idx (conversation_id, `timestamp`),\n" +
		"    CONSTRAINT %[1]s_type_check CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL'))\n" +
		")"

	createTableSQLServer = `IF OBJECT_ID(N'%[1]s', N'U') IS NULL
CREATE TABLE %[1]s (
    conversation_id VARCHAR(256) NOT NULL,
    content         NVARCHAR(MAX) NOT NULL,
    type            VARCHAR(100) NOT NULL,
    [timestamp]     DATETIME2(7) NOT NULL DEFAULT SYSUTCDATETIME(),
    CONSTRAINT %[1]s_type_check CHECK (type IN ('USER', 'ASSISTANT', 'SYSTEM', 'TOOL'))
)`

	createIndexANSI = `CREATE INDEX IF NOT EXISTS %[1]s_conversation_id_timestamp_idx
    ON %[1]s (conversation_id, "timestamp")`

	createIndexSQLServer = `IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = N'%[1]s_conversation_id_timestamp_idx')
CREATE INDEX %[1]s_conversation_id_timestamp_idx ON %[1]s (conversation_id, [timestamp])`
)

// schemaStatements returns the DDL for dialect in execution order.
func schemaStatements(dialect Dialect, tableName string) []string {
	var statements []string
	switch dialect {
	case DialectPostgreSQL:
		statements = []string{createTablePostgreSQL, createIndexANSI}
	case DialectSQLite:
		statements = []string{createTableSQLite, createIndexANSI}
	case DialectMySQL:
		// MySQL has no CREATE INDEX IF NOT EXISTS; the index is declared inline.
		statements = []string{createTableMySQL}
	case DialectSQLServer:
		statements = []string{createTableSQLServer, createIndexSQLServer}
	default:
		statements = []string{createTableANSI, createIndexANSI}
	}

	for i, statement := range statements {
		statements[i] = fmt.Sprintf(statement, tableName)
	}
	return statements
}

// EnsureSchema creates the memory table and its (conversation_id, timestamp)
// index if they do not already exist. This is a convenience helper for
// development and tests.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, statement := range schemaStatements(s.dialect, s.tableName) {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlmemory: ensure schema: %w", err)
		}
	}
	return nil
}
