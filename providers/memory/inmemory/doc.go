// Package inmemory provides a concurrency-safe, process-local implementation
// of the [memory.ChatMemory] interface. Rows are kept per conversation in
// their persisted (content, type) form, so reads go through the same codec
// and return the same shapes as the SQL-backed stores, newest first.
// It is designed for tests and single-process use where persistence across
// restarts is not required. The main entry point is [New].
package inmemory
