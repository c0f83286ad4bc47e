package sqlmemory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leofalp/chatmemory/providers/memory"
)

// Dialect tags the database family behind a store. It selects SQL syntax:
// TOP (n) against LIMIT n, reserved identifier quoting and placeholders.
type Dialect int

const (
	// DialectOther is the ANSI / LIMIT dialect used for unrecognised databases.
	DialectOther Dialect = iota
	DialectSQLServer
	DialectPostgreSQL
	DialectMySQL
	DialectSQLite
)

func (d Dialect) String() string {
	switch d {
	case DialectSQLServer:
		return "SQLSERVER"
	case DialectPostgreSQL:
		return "POSTGRESQL"
	case DialectMySQL:
		return "MYSQL"
	case DialectSQLite:
		return "SQLITE"
	default:
		return "OTHER"
	}
}

// urlSchemes maps the scheme of a connection URL to a dialect.
var urlSchemes = map[string]Dialect{
	"sqlserver":  DialectSQLServer,
	"mssql":      DialectSQLServer,
	"postgres":   DialectPostgreSQL,
	"postgresql": DialectPostgreSQL,
	"pgx":        DialectPostgreSQL,
	"mysql":      DialectMySQL,
	"mariadb":    DialectMySQL,
	"sqlite":     DialectSQLite,
	"sqlite3":    DialectSQLite,
}

// driverPackages maps the package of a driver connection type to a dialect.
var driverPackages = map[string]Dialect{
	"mssql":   DialectSQLServer,
	"pq":      DialectPostgreSQL,
	"stdlib":  DialectPostgreSQL,
	"pgx":     DialectPostgreSQL,
	"mysql":   DialectMySQL,
	"sqlite":  DialectSQLite,
	"sqlite3": DialectSQLite,
}

// DialectFromURL classifies a connection URL by its scheme. Only URL forms
// count: "scheme://..." or a "jdbc:" prefixed URL. Driver DSNs such as
// "user:pass@tcp(host)/db" and unknown schemes map to DialectOther.
func DialectFromURL(url string) Dialect {
	url = strings.ToLower(strings.TrimSpace(url))
	url, jdbc := strings.CutPrefix(url, "jdbc:")

	scheme, rest, found := strings.Cut(url, ":")
	if !found || (!jdbc && !strings.HasPrefix(rest, "//")) {
		return DialectOther
	}
	if dialect, ok := urlSchemes[scheme]; ok {
		return dialect
	}
	return DialectOther
}

// DialectFromDriverConn classifies a raw driver connection by the package
// that declares its type, e.g. *mssql.Conn or *stdlib.Conn.
func DialectFromDriverConn(driverConn any) Dialect {
	typeName := strings.TrimLeft(fmt.Sprintf("%T", driverConn), "*")
	pkg, _, found := strings.Cut(typeName, ".")
	if !found {
		return DialectOther
	}
	if dialect, ok := driverPackages[pkg]; ok {
		return dialect
	}
	return DialectOther
}

// Probe detects the dialect of db. It borrows one connection to prove the
// data source is usable and classifies the live connection's driver type;
// dsn decides only when the driver is unrecognised. Every failure is an
// ErrConfig: a store must not be built on top of it.
func Probe(ctx context.Context, db *sql.DB, dsn string) (Dialect, error) {
	if db == nil {
		return DialectOther, fmt.Errorf("%w: sqlmemory: data source must not be nil", memory.ErrConfig)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return DialectOther, fmt.Errorf("%w: sqlmemory: obtain connection: %w", memory.ErrConfig, err)
	}
	defer conn.Close()

	var dialect Dialect
	err = conn.Raw(func(driverConn any) error {
		dialect = DialectFromDriverConn(driverConn)
		return nil
	})
	if err != nil {
		return DialectOther, fmt.Errorf("%w: sqlmemory: read connection metadata: %w", memory.ErrConfig, err)
	}
	if dialect != DialectOther {
		return dialect, nil
	}
	return DialectFromURL(dsn), nil
}
