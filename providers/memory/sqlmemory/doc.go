// Package sqlmemory provides a database/sql implementation of the
// [memory.ChatMemory] contract. Every conversation turn is one row of the
// ai_chat_memory table:
//
//	conversation_id  opaque conversation key
//	content          message body
//	type             USER | ASSISTANT | SYSTEM | TOOL
//	timestamp        ordering key assigned by the database
//
// The main entry point is [New]. It probes the database once to pick a
// [Dialect], which selects the SQL text used for every later call. The table
// itself belongs to the host application; [Store.EnsureSchema] is a
// convenience for development and tests, production deployments should
// manage the schema with dedicated migration tooling.
//
// # Recent ordering
//
// On SQL Server the legacy recent query orders ascending and caps with TOP,
// which returns the oldest lastN rows oldest-first, while every other dialect
// returns the newest lastN rows newest-first. Existing deployments rely on
// this, so it is the default. Pass WithOrdering(OrderingNewestFirst) to make
// SQL Server match the other dialects. [Store.RecentOrder] reports which
// order a store produces.
package sqlmemory
