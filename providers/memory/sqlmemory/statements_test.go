package sqlmemory

import (
	"reflect"
	"testing"

	"github.com/leofalp/chatmemory/providers/memory"
)

// TestNewCatalog_Default verifies the ANSI statements character for character.
func TestNewCatalog_Default(t *testing.T) {
	c := newCatalog(DialectOther, defaultTableName, OrderingLegacy)

	if want := "INSERT INTO ai_chat_memory (conversation_id, content, type) VALUES (?, ?, ?)"; c.append != want {
		t.Fatalf("append:\n got %q\nwant %q", c.append, want)
	}
	if want := `SELECT content, type FROM ai_chat_memory WHERE conversation_id = ? ORDER BY "timestamp" DESC LIMIT ?`; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
	if want := "DELETE FROM ai_chat_memory WHERE conversation_id = ?"; c.forget != want {
		t.Fatalf("forget:\n got %q\nwant %q", c.forget, want)
	}
	if c.order != memory.NewestFirst {
		t.Fatalf("expected newest-first order, got %v", c.order)
	}
	if got := c.recentArgs("x", 3); !reflect.DeepEqual(got, []any{"x", 3}) {
		t.Fatalf("expected (conversation_id, limit) binding, got %v", got)
	}
}

// TestNewCatalog_SQLServerLegacy verifies the TOP form, ascending order and
// (limit, conversation_id) binding.
func TestNewCatalog_SQLServerLegacy(t *testing.T) {
	c := newCatalog(DialectSQLServer, defaultTableName, OrderingLegacy)

	if want := "SELECT TOP (@p1) content, type FROM ai_chat_memory WHERE conversation_id = @p2 ORDER BY [timestamp] ASC"; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
	if want := "INSERT INTO ai_chat_memory (conversation_id, content, type) VALUES (@p1, @p2, @p3)"; c.append != want {
		t.Fatalf("append:\n got %q\nwant %q", c.append, want)
	}
	if want := "DELETE FROM ai_chat_memory WHERE conversation_id = @p1"; c.forget != want {
		t.Fatalf("forget:\n got %q\nwant %q", c.forget, want)
	}
	if c.order != memory.OldestFirst {
		t.Fatalf("expected oldest-first order, got %v", c.order)
	}
	if got := c.recentArgs("x", 3); !reflect.DeepEqual(got, []any{3, "x"}) {
		t.Fatalf("expected (limit, conversation_id) binding, got %v", got)
	}
}

// TestNewCatalog_SQLServerNewestFirst verifies the unified ordering option.
func TestNewCatalog_SQLServerNewestFirst(t *testing.T) {
	c := newCatalog(DialectSQLServer, defaultTableName, OrderingNewestFirst)

	if want := "SELECT TOP (@p1) content, type FROM ai_chat_memory WHERE conversation_id = @p2 ORDER BY [timestamp] DESC"; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
	if c.order != memory.NewestFirst {
		t.Fatalf("expected newest-first order, got %v", c.order)
	}
}

// TestNewCatalog_OrderingIgnoredOutsideSQLServer verifies that the ordering
// option only affects SQL Server.
func TestNewCatalog_OrderingIgnoredOutsideSQLServer(t *testing.T) {
	legacy := newCatalog(DialectOther, defaultTableName, OrderingLegacy)
	unified := newCatalog(DialectOther, defaultTableName, OrderingNewestFirst)
	if legacy != unified {
		t.Fatalf("expected identical catalogs, got %+v and %+v", legacy, unified)
	}
}

func TestNewCatalog_PostgreSQL(t *testing.T) {
	c := newCatalog(DialectPostgreSQL, defaultTableName, OrderingLegacy)

	if want := `SELECT content, type FROM ai_chat_memory WHERE conversation_id = $1 ORDER BY "timestamp" DESC LIMIT $2`; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
	if want := "INSERT INTO ai_chat_memory (conversation_id, content, type) VALUES ($1, $2, $3)"; c.append != want {
		t.Fatalf("append:\n got %q\nwant %q", c.append, want)
	}
}

func TestNewCatalog_MySQL(t *testing.T) {
	c := newCatalog(DialectMySQL, defaultTableName, OrderingLegacy)

	if want := "SELECT content, type FROM ai_chat_memory WHERE conversation_id = ? ORDER BY `timestamp` DESC LIMIT ?"; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
}

func TestNewCatalog_CustomTable(t *testing.T) {
	c := newCatalog(DialectSQLite, "turns", OrderingLegacy)

	if want := `SELECT content, type FROM turns WHERE conversation_id = ? ORDER BY "timestamp" DESC LIMIT ?`; c.recent != want {
		t.Fatalf("recent:\n got %q\nwant %q", c.recent, want)
	}
}

func TestRebind(t *testing.T) {
	query := "a = ? AND b = ? LIMIT ?"
	tests := []struct {
		style placeholderStyle
		want  string
	}{
		{placeholderQuestion, "a = ? AND b = ? LIMIT ?"},
		{placeholderDollar, "a = $1 AND b = $2 LIMIT $3"},
		{placeholderAtP, "a = @p1 AND b = @p2 LIMIT @p3"},
	}
	for _, tt := range tests {
		if got := rebind(tt.style, query); got != tt.want {
			t.Fatalf("rebind(%v) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestValidateTableName(t *testing.T) {
	for _, name := range []string{"ai_chat_memory", "_turns", "Turns2"} {
		if err := validateTableName(name); err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
	}
	for _, name := range []string{"", "1turns", "turns; DROP TABLE x", `"quoted"`, "a.b"} {
		if err := validateTableName(name); err == nil {
			t.Fatalf("%q: expected error", name)
		}
	}
}
