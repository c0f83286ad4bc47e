// Package pgmemory provides a PostgreSQL-backed implementation of the
// [memory.ChatMemory] interface built directly on pgx/v5.
//
// It shares the ai_chat_memory table layout with the database/sql store in
// sqlmemory, so both can read each other's rows. Appends are sent as one
// [pgx.Batch] inside a transaction; Recent returns the newest messages first.
//
// The main entry point is [New]. Use [PgMemory.EnsureSchema] during
// development to auto-create the table; production deployments should manage
// schema migrations with dedicated tooling (goose, migrate, etc.).
package pgmemory
