package sqlmemory

import "log/slog"

// Option configures optional Store behavior.
type Option func(*Store)

// WithDSN supplies the connection URL the store was opened with. Probe reads
// its first segment to pick the dialect, e.g. "sqlserver://..." or
// "postgres://...". Without it the live connection's driver type decides.
func WithDSN(dsn string) Option {
	return func(s *Store) {
		s.dsn = dsn
	}
}

// WithDialect forces the dialect instead of detecting it. The data source is
// still checked for a usable connection.
func WithDialect(dialect Dialect) Option {
	return func(s *Store) {
		s.dialect = dialect
		s.dialectForced = true
	}
}

// WithOrdering selects the SQL Server recent ordering. The default is
// OrderingLegacy.
func WithOrdering(ordering Ordering) Option {
	return func(s *Store) {
		s.ordering = ordering
	}
}

// WithTableName overrides the default table name ("ai_chat_memory"). The
// name is interpolated into statements, so New rejects anything that is not
// a plain identifier.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = name
	}
}

// WithElideUnreplayable makes Recent drop the nil entries of kinds that
// cannot be replayed instead of keeping them in place.
func WithElideUnreplayable() Option {
	return func(s *Store) {
		s.elideUnreplayable = true
	}
}

// WithLogger sets the logger used for debug and warning records. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}
