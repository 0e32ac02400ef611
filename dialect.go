package crud

import (
	"github.com/jjeffery/crud/private/dialect"
)

// Dialect is an interface used to handle differences
// in SQL dialects.
type Dialect interface {
	// Name of the dialect.
	Name() string

	// Quote a table name or column name so that it does
	// not clash with any reserved words.
	Quote(name string) string

	// Placeholder returns the placeholder for the nth (1-based)
	// bound variable.
	Placeholder(n int) string
}

// Pre-defined dialects
var (
	ANSISQL  Dialect = dialect.ANSI     // ANSI SQL
	MSSQL    Dialect = dialect.MSSQL    // Microsoft SQL Server
	MySQL    Dialect = dialect.MySQL    // MySQL and MariaDB
	Postgres Dialect = dialect.Postgres // PostgreSQL
	SQLite   Dialect = dialect.SQLite   // SQLite
)

// DialectFor returns the pre-defined dialect for the database
// backend name (eg "postgres", "sqlite3", "sqlserver"). It
// returns nil if the name is not recognised.
func DialectFor(name string) Dialect {
	if d := dialect.For(name); d != nil {
		return d
	}
	return nil
}

// bindDriver returns the sqlx driver name that determines the
// bind variable style for d.
func bindDriver(d Dialect) string {
	if bd, ok := d.(interface{ BindDriver() string }); ok {
		return bd.BindDriver()
	}
	return ""
}

// emptyInsert returns the text following the table name in an
// insert statement with no columns.
func emptyInsert(d Dialect) string {
	if ei, ok := d.(interface{ EmptyInsert() string }); ok {
		return ei.EmptyInsert()
	}
	return "default values"
}
