package crud

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/jjeffery/kv"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
)

// Schema contains configuration information that is common to all
// operations for the same database schema: the SQL dialect, the naming
// convention and any table name overrides.
//
// A schema caches the table information and SQL statements for each
// row type it is used with. It is safe for concurrent use by multiple
// goroutines, and is intended to be created once at program startup.
type Schema struct {
	dialect    Dialect
	convention NamingConvention
	logger     Logger
	adapter    Adapter
	tableNames map[string]string
	tableFunc  func(reflect.Type) string

	// binder converts named parameters into positional
	// parameters; mapper maps columns to struct fields.
	binder *sqlx.DB
	mapper *reflectx.Mapper

	tables  tableMap
	stmts   stmtCache
	proxies proxyMap
}

// NewSchema creates a schema with options. The default dialect is
// ANSISQL, and the default naming convention is SameCase.
func NewSchema(opts ...SchemaOption) *Schema {
	schema := &Schema{
		dialect:    ANSISQL,
		convention: SameCase,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(schema)
		}
	}
	schema.mapper = reflectx.NewMapperFunc("db", schema.convention.Convert)
	schema.binder = sqlx.NewDb(nil, bindDriver(schema.dialect))
	schema.binder.Mapper = schema.mapper
	return schema
}

// Dialect returns the SQL dialect for the schema.
func (s *Schema) Dialect() Dialect {
	return s.dialect
}

// NamingConvention returns the naming convention for the schema.
func (s *Schema) NamingConvention() NamingConvention {
	return s.convention
}

// adapterFor returns the adapter used to insert rows.
func (s *Schema) adapterFor(o *options) Adapter {
	if o != nil && o.adapter != nil {
		return o.adapter
	}
	if s.adapter != nil {
		return s.adapter
	}
	return adapterForDialect(s.dialect)
}

// bind converts a query with named parameters into a query with
// positional placeholders, with arguments taken from arg.
func (s *Schema) bind(query string, arg interface{}) (string, []interface{}, error) {
	return s.binder.BindNamed(query, arg)
}

func (s *Schema) exec(ctx context.Context, db Querier, query string, args ...interface{}) (sql.Result, error) {
	s.log(query, args)
	return db.ExecContext(ctx, query, args...)
}

func (s *Schema) query(ctx context.Context, db Querier, query string, args ...interface{}) (*sql.Rows, error) {
	s.log(query, args)
	return db.QueryContext(ctx, query, args...)
}

func (s *Schema) log(query string, args []interface{}) {
	if s.logger != nil {
		s.logger.Print(kv.List{"query", query, "args", args}.String())
	}
}
