// Package dialect handles differences in various
// SQL dialects.
package dialect

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Dialect describes an SQL dialect.
type Dialect struct {
	name        string
	altnames    []string
	bindDriver  string
	identity    string
	emptyInsert string
	quoteFunc   func(name string) string
	placeholder func(n int) string
}

// Identity strategy names.
const (
	IdentityLastInsertID  = "last-insert-id"
	IdentityScopeIdentity = "scope-identity"
	IdentityReturning     = "returning"
)

// Name of the dialect.
func (d *Dialect) Name() string {
	return d.name
}

// Quote a table name or column name so that it does
// not clash with any reserved words. The SQL-99 standard
// specifies double quotes (eg "table_name"), but many
// dialects, including MySQL use the backtick (eg `table_name`).
// SQL server uses square brackets (eg [table_name]).
// Qualified names (eg schema.table) have each part quoted.
func (d *Dialect) Quote(name string) string {
	if d.quoteFunc == nil {
		return name
	}
	var names []string
	for _, n := range strings.Split(name, ".") {
		n = strings.Trim(n, "\"`[] \t")
		names = append(names, d.quoteFunc(n))
	}
	return strings.Join(names, ".")
}

// Placeholder returns the placeholder for the nth (1-based) bound
// variable. Most dialects use a question mark (?), PostgreSQL uses
// numbered placeholders (eg $1).
func (d *Dialect) Placeholder(n int) string {
	if d.placeholder == nil {
		return "?"
	}
	return d.placeholder(n)
}

// BindDriver returns a driver name that sqlx recognises as
// having the same bind variable style as the dialect.
func (d *Dialect) BindDriver() string {
	return d.bindDriver
}

// Identity returns the name of the strategy used to retrieve
// database generated key values after an insert.
func (d *Dialect) Identity() string {
	return d.identity
}

// EmptyInsert returns the text that follows the table name in an
// insert statement that has no columns to insert.
func (d *Dialect) EmptyInsert() string {
	return d.emptyInsert
}

// Supported dialects.
var (
	ANSI = &Dialect{
		name:        "ansi",
		identity:    IdentityLastInsertID,
		emptyInsert: "default values",
		quoteFunc:   quoteFunc(`"`, `"`),
	}
	MySQL = &Dialect{
		name:        "mysql",
		altnames:    []string{"mariadb"},
		bindDriver:  "mysql",
		identity:    IdentityLastInsertID,
		emptyInsert: "() values ()",
		quoteFunc:   quoteFunc("`", "`"),
	}
	Postgres = &Dialect{
		name:        "postgres",
		altnames:    []string{"pq", "pgx", "postgresql"},
		bindDriver:  "postgres",
		identity:    IdentityReturning,
		emptyInsert: "default values",
		quoteFunc:   pq.QuoteIdentifier,
		placeholder: placeholderFunc("$%d"),
	}
	SQLite = &Dialect{
		name:        "sqlite",
		altnames:    []string{"sqlite3"},
		bindDriver:  "sqlite3",
		identity:    IdentityLastInsertID,
		emptyInsert: "default values",
		quoteFunc:   quoteFunc("`", "`"),
	}
	MSSQL = &Dialect{
		name:        "mssql",
		altnames:    []string{"sqlserver", "azuresql"},
		bindDriver:  "sqlserver",
		identity:    IdentityScopeIdentity,
		emptyInsert: "default values",
		quoteFunc:   quoteFunc("[", "]"),
		placeholder: placeholderFunc("@p%d"),
	}
)

var dialects map[string]*Dialect

func init() {
	dialects = make(map[string]*Dialect)
	for _, d := range []*Dialect{ANSI, MySQL, Postgres, SQLite, MSSQL} {
		dialects[d.name] = d
		for _, altname := range d.altnames {
			dialects[altname] = d
		}
	}
}

// For returns the dialect with the specified name, or nil
// if the name is not known.
//
// Supported dialects include:
//
//	name      alternative names
//	----      -----------------
//	ansi
//	mssql     sqlserver, azuresql
//	mysql     mariadb
//	postgres  pq, pgx, postgresql
//	sqlite    sqlite3
func For(name string) *Dialect {
	return dialects[strings.TrimSpace(strings.ToLower(name))]
}

func quoteFunc(begin string, end string) func(name string) string {
	return func(name string) string {
		return begin + name + end
	}
}

func placeholderFunc(format string) func(n int) string {
	return func(n int) string {
		return fmt.Sprintf(format, n)
	}
}
