package orm

import (
	"fmt"
	"strings"
)

// Dialect abstracts SQL differences between database engines.
type Dialect interface {
	// Name returns the driver family, e.g. "sqlite".
	Name() string

	// Placeholder returns the bind parameter placeholder for the given
	// 1-based index. SQLite and MySQL return "?" regardless of index;
	// PostgreSQL returns "$1", "$2", etc.
	Placeholder(index int) string

	// QuoteIdent quotes an identifier (table name, column name) to safely
	// handle SQL reserved words.
	QuoteIdent(name string) string

	// ReturningClause returns the RETURNING clause appended to INSERT
	// statements to read back the generated primary key. Dialects that
	// rely on LastInsertId return an empty string.
	ReturningClause(pk string) string
}

// SQLite is the Dialect for SQLite.
var SQLite Dialect = sqliteDialect{}

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL is the Dialect for PostgreSQL.
var PostgreSQL Dialect = postgresDialect{}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                    { return "sqlite" }
func (sqliteDialect) Placeholder(_ int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string   { return `"` + name + `"` }
func (sqliteDialect) ReturningClause(_ string) string { return "" }

type mysqlDialect struct{}

func (mysqlDialect) Name() string                    { return "mysql" }
func (mysqlDialect) Placeholder(_ int) string        { return "?" }
func (mysqlDialect) QuoteIdent(name string) string   { return "`" + name + "`" }
func (mysqlDialect) ReturningClause(_ string) string { return "" }

type postgresDialect struct{}

func (postgresDialect) Name() string                     { return "postgres" }
func (postgresDialect) Placeholder(index int) string     { return fmt.Sprintf("$%d", index) }
func (postgresDialect) QuoteIdent(name string) string    { return `"` + name + `"` }
func (postgresDialect) ReturningClause(pk string) string { return ` RETURNING "` + pk + `"` }

// DialectFor returns the Dialect registered under name.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case "sqlite":
		return SQLite, true
	case "mysql":
		return MySQL, true
	case "postgres":
		return PostgreSQL, true
	default:
		return nil, false
	}
}

// usesReturning reports whether INSERT reads the generated key through
// a RETURNING clause rather than LastInsertId.
func usesReturning(d Dialect) bool {
	return d.ReturningClause("id") != ""
}

// rebind converts ? placeholders to dialect-specific placeholders.
// Dialects whose first placeholder is "?" are left untouched.
func rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	idx := 1
	for i := range len(query) {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(idx))
			idx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
