package sqlmemory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leofalp/chatmemory/providers/memory"
)

// defaultTableName is the table used when no custom name is provided.
const defaultTableName = "ai_chat_memory"

// Templates use ? placeholders; they are rebound per dialect when a catalog
// is built. The first %s is the table name, the second the quoted
// timestamp column.
const (
	appendTemplate    = "INSERT INTO %s (conversation_id, content, type) VALUES (?, ?, ?)"
	recentTemplate    = "SELECT content, type FROM %s WHERE conversation_id = ? ORDER BY %s DESC LIMIT ?"
	recentTopTemplate = "SELECT TOP (?) content, type FROM %s WHERE conversation_id = ? ORDER BY %s %s"
	forgetTemplate    = "DELETE FROM %s WHERE conversation_id = ?"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Ordering chooses how Recent behaves on SQL Server. Other dialects always
// return the newest rows newest-first.
type Ordering int

const (
	// OrderingLegacy keeps the SQL Server query ordering ascending under
	// TOP (n): the oldest lastN rows, oldest first.
	OrderingLegacy Ordering = iota
	// OrderingNewestFirst orders the SQL Server query descending so it
	// returns the newest lastN rows, newest first, like every other dialect.
	OrderingNewestFirst
)

func (o Ordering) String() string {
	if o == OrderingNewestFirst {
		return "newest_first"
	}
	return "legacy"
}

// placeholderStyle is how a driver expects positional parameters.
type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota // ?
	placeholderDollar                           // $1
	placeholderAtP                              // @p1
)

// catalog holds the resolved statements of one store. It is immutable after
// newCatalog returns.
type catalog struct {
	append string
	recent string
	forget string

	// recentLimitFirst is true when the limit binds before the conversation
	// id, i.e. for the TOP (?) form.
	recentLimitFirst bool
	order            memory.Order
}

// newCatalog resolves the three statements for dialect.
func newCatalog(dialect Dialect, tableName string, ordering Ordering) catalog {
	timestamp := quoteTimestamp(dialect)
	style := placeholderFor(dialect)

	c := catalog{
		append: rebind(style, fmt.Sprintf(appendTemplate, tableName)),
		forget: rebind(style, fmt.Sprintf(forgetTemplate, tableName)),
		order:  memory.NewestFirst,
	}

	if dialect == DialectSQLServer {
		direction := "ASC"
		c.order = memory.OldestFirst
		if ordering == OrderingNewestFirst {
			direction = "DESC"
			c.order = memory.NewestFirst
		}
		c.recent = rebind(style, fmt.Sprintf(recentTopTemplate, tableName, timestamp, direction))
		c.recentLimitFirst = true
		return c
	}

	c.recent = rebind(style, fmt.Sprintf(recentTemplate, tableName, timestamp))
	return c
}

// recentArgs returns the recent query arguments in the dialect's binding order.
func (c catalog) recentArgs(conversationID string, lastN int) []any {
	if c.recentLimitFirst {
		return []any{lastN, conversationID}
	}
	return []any{conversationID, lastN}
}

// quoteTimestamp quotes the reserved timestamp column name.
func quoteTimestamp(dialect Dialect) string {
	switch dialect {
	case DialectSQLServer:
		return "[timestamp]"
	case DialectMySQL:
		// Double quotes are string literals unless ANSI_QUOTES is set.
		return "`timestamp`"
	default:
		return `"timestamp"`
	}
}

func placeholderFor(dialect Dialect) placeholderStyle {
	switch dialect {
	case DialectPostgreSQL:
		return placeholderDollar
	case DialectSQLServer:
		return placeholderAtP
	default:
		return placeholderQuestion
	}
}

// rebind rewrites ? placeholders into the given style, numbering them left to
// right. Templates never contain ? inside literals.
func rebind(style placeholderStyle, query string) string {
	if style == placeholderQuestion {
		return query
	}

	prefix := "$"
	if style == placeholderAtP {
		prefix = "@p"
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteString(prefix)
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: sqlmemory: invalid table name %q", memory.ErrConfig, name)
	}
	return nil
}
