package crud

import (
	"context"
	"database/sql"
	"reflect"
	"strings"

	"github.com/jjeffery/crud/private/dialect"
)

// Adapter is a strategy for inserting a row and retrieving the value
// of its database-generated key. The set of adapters is closed: use
// one of LastInsertID, ScopeIdentity or Returning.
type Adapter interface {
	// Name identifies the adapter.
	Name() string

	insertQuery(d Dialect, tbl *Table, query string) string
	insert(ctx context.Context, s *Schema, db Querier, stmt *Stmt, row reflect.Value) (int64, error)
}

// Adapters for retrieving generated keys.
var (
	// LastInsertID uses the LastInsertId method of the statement
	// result. Suitable for MySQL and SQLite.
	LastInsertID Adapter = lastInsertIDAdapter{}

	// ScopeIdentity appends "select scope_identity()" to the insert
	// statement. Suitable for SQL Server.
	ScopeIdentity Adapter = scopeIdentityAdapter{}

	// Returning appends a "returning" clause listing the generated key
	// columns, and scans the returned values into the row. Suitable
	// for PostgreSQL, and SQLite 3.35 or later. Compound generated
	// keys are supported.
	Returning Adapter = returningAdapter{}
)

// adapterForDialect returns the default adapter for a dialect.
func adapterForDialect(d Dialect) Adapter {
	if id, ok := d.(interface{ Identity() string }); ok {
		switch id.Identity() {
		case dialect.IdentityScopeIdentity:
			return ScopeIdentity
		case dialect.IdentityReturning:
			return Returning
		}
	}
	return LastInsertID
}

type lastInsertIDAdapter struct{}

func (lastInsertIDAdapter) Name() string {
	return dialect.IdentityLastInsertID
}

func (lastInsertIDAdapter) insertQuery(d Dialect, tbl *Table, query string) string {
	return query
}

func (lastInsertIDAdapter) insert(ctx context.Context, s *Schema, db Querier, stmt *Stmt, row reflect.Value) (int64, error) {
	query, args, err := s.bind(stmt.query, row.Interface())
	if err != nil {
		return 0, err
	}
	result, err := s.exec(ctx, db, query, args...)
	if err != nil {
		return 0, err
	}
	if len(stmt.table.generated) == 0 {
		return 0, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	setGeneratedKey(stmt.table.generated[0].info.Index.ValueRW(row), id)
	return id, nil
}

type scopeIdentityAdapter struct{}

func (scopeIdentityAdapter) Name() string {
	return dialect.IdentityScopeIdentity
}

func (scopeIdentityAdapter) insertQuery(d Dialect, tbl *Table, query string) string {
	return query + "; select scope_identity() as id"
}

func (scopeIdentityAdapter) insert(ctx context.Context, s *Schema, db Querier, stmt *Stmt, row reflect.Value) (int64, error) {
	query, args, err := s.bind(stmt.query, row.Interface())
	if err != nil {
		return 0, err
	}
	rows, err := s.query(ctx, db, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id sql.NullInt64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if !id.Valid {
		return 0, nil
	}
	if len(stmt.table.generated) > 0 {
		setGeneratedKey(stmt.table.generated[0].info.Index.ValueRW(row), id.Int64)
	}
	return id.Int64, nil
}

type returningAdapter struct{}

func (returningAdapter) Name() string {
	return dialect.IdentityReturning
}

func (returningAdapter) insertQuery(d Dialect, tbl *Table, query string) string {
	if len(tbl.generated) == 0 {
		return query
	}
	names := make([]string, len(tbl.generated))
	for i, col := range tbl.generated {
		names[i] = d.Quote(col.columnName)
	}
	return query + " returning " + strings.Join(names, ", ")
}

func (returningAdapter) insert(ctx context.Context, s *Schema, db Querier, stmt *Stmt, row reflect.Value) (int64, error) {
	query, args, err := s.bind(stmt.query, row.Interface())
	if err != nil {
		return 0, err
	}
	generated := stmt.table.generated
	if len(generated) == 0 {
		_, err := s.exec(ctx, db, query, args...)
		return 0, err
	}

	rows, err := s.query(ctx, db, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, rows.Err()
	}
	dest := make([]interface{}, len(generated))
	for i, col := range generated {
		dest[i] = col.info.Index.ValueRW(row).Addr().Interface()
	}
	if err := rows.Scan(dest...); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return integerValue(generated[0].info.Index.ValueRO(row)), nil
}

// setGeneratedKey stores a generated integer key value in field.
func setGeneratedKey(field reflect.Value, id int64) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		field.SetInt(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.SetUint(uint64(id))
	case reflect.Float32, reflect.Float64:
		field.SetFloat(float64(id))
	}
}

// integerValue returns the value of an integer field, or zero for
// fields of other kinds.
func integerValue(field reflect.Value) int64 {
	field = reflect.Indirect(field)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(field.Uint())
	}
	return 0
}
