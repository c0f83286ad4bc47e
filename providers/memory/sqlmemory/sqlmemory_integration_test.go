//go:build integration

package sqlmemory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/leofalp/chatmemory/providers/ai"
)

const startupTimeout = 3 * time.Minute

// openPostgres starts a PostgreSQL container and opens it through lib/pq.
func openPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("chatmemory_test"),
		postgres.WithUsername("chatmemory"),
		postgres.WithPassword("chatmemory"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return openDB(t, "postgres", dsn), dsn
}

// openMySQL starts a MySQL container. Its DSN carries no scheme, so the
// probe has to fall back to the driver connection type.
func openMySQL(t *testing.T) (*sql.DB, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := mysql.Run(ctx,
		"mysql:8.0.36",
		mysql.WithDatabase("chatmemory_test"),
		mysql.WithUsername("chatmemory"),
		mysql.WithPassword("chatmemory"),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return openDB(t, "mysql", dsn), dsn
}

func openSQLServer(t *testing.T) (*sql.DB, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := mssql.Run(ctx,
		"mcr.microsoft.com/mssql/server:2022-CU14-ubuntu-22.04",
		mssql.WithAcceptEULA(),
		mssql.WithPassword("Chatmemory-Test-1"),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start mssql container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return openDB(t, "sqlserver", dsn), dsn
}

func openDB(t *testing.T, driverName, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		t.Fatalf("failed to open %s: %v", driverName, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newIntegrationStore(t *testing.T, db *sql.DB, dsn string, opts ...Option) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := New(ctx, db, append([]Option{WithDSN(dsn)}, opts...)...)
	if err != nil {
		t.Fatalf("New returned unexpected error: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema returned unexpected error: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema returned unexpected error: %v", err)
	}
	return store
}

// appendSpaced appends one message per call with a short pause so that the
// server clock separates every row regardless of its resolution.
func appendSpaced(t *testing.T, store *Store, conversationID string, contents ...string) {
	t.Helper()
	for _, content := range contents {
		if err := store.Append(context.Background(), conversationID, []*ai.Message{ai.NewUserMessage(content)}); err != nil {
			t.Fatalf("Append returned unexpected error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// runDefaultDialectScenarios exercises a store whose recent query returns the
// newest N rows newest first.
func runDefaultDialectScenarios(t *testing.T, store *Store) {
	ctx := context.Background()

	t.Run("append then recent", func(t *testing.T) {
		err := store.Append(ctx, t.Name(), []*ai.Message{ai.NewUserMessage("hi"), ai.NewAssistantMessage("hello")})
		if err != nil {
			t.Fatalf("Append returned unexpected error: %v", err)
		}
		messages, err := store.Recent(ctx, t.Name(), 10)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		assertContents(t, messages, "assistant:hello", "user:hi")
	})

	t.Run("capped window", func(t *testing.T) {
		appendSpaced(t, store, t.Name(), "a", "b", "c", "d", "e")
		messages, err := store.Recent(ctx, t.Name(), 3)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		assertContents(t, messages, "user:e", "user:d", "user:c")
	})

	t.Run("tool rows decode to nil", func(t *testing.T) {
		err := store.Append(ctx, t.Name(), []*ai.Message{{Role: ai.RoleTool, Content: "42"}})
		if err != nil {
			t.Fatalf("Append returned unexpected error: %v", err)
		}
		messages, err := store.Recent(ctx, t.Name(), 1)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		if len(messages) != 1 || messages[0] != nil {
			t.Fatalf("expected a single nil entry, got %v", contents(t, messages))
		}
	})

	t.Run("forget", func(t *testing.T) {
		appendSpaced(t, store, t.Name(), "hi")
		appendSpaced(t, store, t.Name()+"-other", "keep")

		if err := store.Forget(ctx, t.Name()); err != nil {
			t.Fatalf("Forget returned unexpected error: %v", err)
		}
		messages, err := store.Recent(ctx, t.Name(), 10)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		if len(messages) != 0 {
			t.Fatalf("expected empty result after forget, got %v", contents(t, messages))
		}

		other, err := store.Recent(ctx, t.Name()+"-other", 10)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		assertContents(t, other, "user:keep")
	})
}

func TestIntegration_PostgreSQL(t *testing.T) {
	db, dsn := openPostgres(t)
	store := newIntegrationStore(t, db, dsn)
	if store.Dialect() != DialectPostgreSQL {
		t.Fatalf("expected POSTGRESQL, got %v", store.Dialect())
	}
	runDefaultDialectScenarios(t, store)
}

func TestIntegration_MySQL(t *testing.T) {
	db, dsn := openMySQL(t)
	store := newIntegrationStore(t, db, dsn)
	if store.Dialect() != DialectMySQL {
		t.Fatalf("expected MYSQL, got %v", store.Dialect())
	}
	runDefaultDialectScenarios(t, store)
}

// TestIntegration_SQLServer covers both ordering policies against one server.
func TestIntegration_SQLServer(t *testing.T) {
	db, dsn := openSQLServer(t)
	ctx := context.Background()

	legacy := newIntegrationStore(t, db, dsn)
	if legacy.Dialect() != DialectSQLServer {
		t.Fatalf("expected SQLSERVER, got %v", legacy.Dialect())
	}

	appendSpaced(t, legacy, "x", "a", "b", "c", "d", "e")

	t.Run("legacy returns oldest first", func(t *testing.T) {
		messages, err := legacy.Recent(ctx, "x", 3)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		assertContents(t, messages, "user:a", "user:b", "user:c")
	})

	t.Run("newest first matches the default dialect", func(t *testing.T) {
		unified := newIntegrationStore(t, db, dsn, WithOrdering(OrderingNewestFirst))
		messages, err := unified.Recent(ctx, "x", 3)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		assertContents(t, messages, "user:e", "user:d", "user:c")
	})

	t.Run("forget", func(t *testing.T) {
		if err := legacy.Forget(ctx, "x"); err != nil {
			t.Fatalf("Forget returned unexpected error: %v", err)
		}
		messages, err := legacy.Recent(ctx, "x", 10)
		if err != nil {
			t.Fatalf("Recent returned unexpected error: %v", err)
		}
		if len(messages) != 0 {
			t.Fatalf("expected empty result after forget, got %v", contents(t, messages))
		}
	})
}
