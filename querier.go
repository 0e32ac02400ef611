package crud

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// The Querier interface defines the SQL database access methods used by this package.
//
// The *DB, *Tx and *Conn types in the standard library package "database/sql" all implement this interface.
type Querier interface {
	// ExecContext executes a query without returning any rows.
	// The args are for any placeholder parameters in the query.
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// QueryContext executes a query that returns rows, typically a SELECT.
	// The args are for any placeholder parameters in the query.
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

var (
	_ Querier = &sql.DB{}
	_ Querier = &sql.Tx{}
	_ Querier = &sql.Conn{}
	_ Querier = &sqlx.DB{}
	_ Querier = &sqlx.Tx{}
)
