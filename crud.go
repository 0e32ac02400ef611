package crud

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/jmoiron/sqlx"
)

// maxBatchParams limits the number of parameters in each statement
// when inserting a list of rows.
const maxBatchParams = 999

// Get returns the row of type T with the primary key id. If no row is
// found, Get returns the zero value of T (nil) and no error.
//
// T must be a pointer to a struct, or an interface type with a registered
// proxy. The row type must have exactly one key column.
func Get[T any](ctx context.Context, s *Schema, db Querier, id interface{}, opts ...Option) (T, error) {
	var zero T
	maker, err := newRowMaker[T](s, "get")
	if err != nil {
		return zero, err
	}
	stmt, err := s.stmtFor(getStmt, maker.table, nil)
	if err != nil {
		return zero, err
	}
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()

	rows, err := s.query(ctx, o.querier, stmt.query, id)
	if err != nil {
		return zero, err
	}
	list, err := scanRows(s, rows, maker, 1)
	if err != nil || len(list) == 0 {
		return zero, err
	}
	return list[0], nil
}

// GetAll returns all rows in the table for T.
//
// T must be a pointer to a struct, or an interface type with a registered
// proxy.
func GetAll[T any](ctx context.Context, s *Schema, db Querier, opts ...Option) ([]T, error) {
	maker, err := newRowMaker[T](s, "getall")
	if err != nil {
		return nil, err
	}
	stmt, err := s.stmtFor(getAllStmt, maker.table, nil)
	if err != nil {
		return nil, err
	}
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()

	rows, err := s.query(ctx, o.querier, stmt.query)
	if err != nil {
		return nil, err
	}
	return scanRows(s, rows, maker, 0)
}

// Select executes query with args and returns one row of type T for each
// row in the result. Each result column must map to a field of the row type.
//
// T must be a pointer to a struct, or an interface type with a registered
// proxy. The query text is passed to the database unchanged, so it must
// use the placeholders of the schema's dialect. The sqlbuilder package
// builds queries suitable for Select:
//
//	query, args, err := tmpl.Bind(schema.Dialect())
//	cars, err := crud.Select[*Car](ctx, schema, db, query, args, crud.WithTx(tx))
func Select[T any](ctx context.Context, s *Schema, db Querier, query string, args []interface{}, opts ...Option) ([]T, error) {
	maker, err := newRowMaker[T](s, "select")
	if err != nil {
		return nil, err
	}
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()

	rows, err := s.query(ctx, o.querier, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(s, rows, maker, 0)
}

// Insert inserts row, and returns the value generated by the database
// for the first generated key column, or zero if the row type has no
// generated key. Generated key values are stored in the row, which must
// be passed by pointer if the row type has a generated key.
//
// If row is a slice or array of rows, all rows are inserted and Insert
// returns the number of rows inserted. Generated key values are not
// retrieved for lists of rows.
func (s *Schema) Insert(ctx context.Context, db Querier, row interface{}, opts ...Option) (int64, error) {
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()

	if list, ok := listValue(row); ok {
		return s.insertList(ctx, o, list)
	}
	rowValue, ok := structValue(row)
	if !ok {
		return 0, newMappingError("insert", reflect.TypeOf(row), rowError(row))
	}
	tbl, err := s.tableForType("insert", rowValue.Type())
	if err != nil {
		return 0, err
	}
	if len(tbl.generated) > 0 && !rowValue.CanAddr() {
		return 0, newMappingError("insert", tbl.rowType, ErrNotAddressable)
	}
	adapter := s.adapterFor(o)
	stmt, err := s.stmtFor(insertStmt, tbl, adapter)
	if err != nil {
		return 0, err
	}
	return adapter.insert(ctx, s, o.querier, stmt, rowValue)
}

func (s *Schema) insertList(ctx context.Context, o *options, list reflect.Value) (int64, error) {
	n := list.Len()
	if n == 0 {
		return 0, nil
	}

	var tbl *Table
	rows := make([]interface{}, n)
	for i := range rows {
		elem := list.Index(i).Interface()
		rowValue, ok := structValue(elem)
		if !ok {
			return 0, newMappingError("insert", list.Type().Elem(), rowError(elem))
		}
		if tbl == nil {
			var err error
			if tbl, err = s.tableForType("insert", rowValue.Type()); err != nil {
				return 0, err
			}
		} else if rowValue.Type() != tbl.rowType {
			return 0, newMappingError("insert", rowValue.Type(), ErrRowType)
		}
		rows[i] = rowValue.Interface()
	}

	stmt, err := s.stmtFor(insertListStmt, tbl, nil)
	if err != nil {
		return 0, err
	}

	// All rows in a batch are inserted with one statement.
	batchSize := n
	if cols := len(tbl.insertColumns()); cols == 0 {
		batchSize = 1
	} else if limit := maxBatchParams / cols; limit < batchSize {
		batchSize = limit
		if batchSize < 1 {
			batchSize = 1
		}
	}

	var count int64
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		var arg interface{} = rows[start:end]
		if batchSize == 1 {
			arg = rows[start]
		}
		query, args, err := s.bind(stmt.query, arg)
		if err != nil {
			return count, err
		}
		result, err := s.exec(ctx, o.querier, query, args...)
		if err != nil {
			return count, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return count, err
		}
		count += affected
	}
	return count, nil
}

// Update updates row, and returns true if a row was updated. The row is
// identified by its key columns, and all other columns except computed
// columns are updated.
//
// If row implements Tracked and is not dirty, Update returns false without
// accessing the database. After a row has been updated it is no longer dirty.
//
// If row is a slice or array, each row is updated in turn, and Update
// returns true if any row was updated.
func (s *Schema) Update(ctx context.Context, db Querier, row interface{}, opts ...Option) (bool, error) {
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()
	return s.eachRow(row, func(row interface{}) (bool, error) {
		return s.updateRow(ctx, o, row)
	})
}

func (s *Schema) updateRow(ctx context.Context, o *options, row interface{}) (bool, error) {
	rowValue, ok := structValue(row)
	if !ok {
		return false, newMappingError("update", reflect.TypeOf(row), rowError(row))
	}
	tracked, isTracked := row.(Tracked)
	if isTracked && !tracked.IsDirty() {
		return false, nil
	}
	tbl, err := s.tableForType("update", rowValue.Type())
	if err != nil {
		return false, err
	}
	stmt, err := s.stmtFor(updateStmt, tbl, nil)
	if err != nil {
		return false, err
	}
	n, err := s.execRow(ctx, o, stmt, rowValue)
	if err != nil {
		return false, err
	}
	if isTracked && n > 0 {
		tracked.SetDirty(false)
	}
	return n > 0, nil
}

// Delete deletes row, and returns true if a row was deleted. The row is
// identified by its key columns.
//
// If row is a slice or array, each row is deleted in turn, and Delete
// returns true if any row was deleted.
func (s *Schema) Delete(ctx context.Context, db Querier, row interface{}, opts ...Option) (bool, error) {
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()
	return s.eachRow(row, func(row interface{}) (bool, error) {
		return s.deleteRow(ctx, o, row)
	})
}

func (s *Schema) deleteRow(ctx context.Context, o *options, row interface{}) (bool, error) {
	rowValue, ok := structValue(row)
	if !ok {
		return false, newMappingError("delete", reflect.TypeOf(row), rowError(row))
	}
	tbl, err := s.tableForType("delete", rowValue.Type())
	if err != nil {
		return false, err
	}
	stmt, err := s.stmtFor(deleteStmt, tbl, nil)
	if err != nil {
		return false, err
	}
	n, err := s.execRow(ctx, o, stmt, rowValue)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll deletes all rows in the table for T, and returns true if
// any rows were deleted.
func DeleteAll[T any](ctx context.Context, s *Schema, db Querier, opts ...Option) (bool, error) {
	rowType := reflect.TypeOf((*T)(nil)).Elem()
	for rowType.Kind() == reflect.Ptr {
		rowType = rowType.Elem()
	}
	tbl, err := s.tableForType("deleteall", rowType)
	if err != nil {
		return false, err
	}
	stmt, err := s.stmtFor(deleteAllStmt, tbl, nil)
	if err != nil {
		return false, err
	}
	o := newOptions(db, opts)
	ctx, cancel := o.context(ctx)
	defer cancel()

	result, err := s.exec(ctx, o.querier, stmt.query)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// eachRow calls f for row, or for each row if row is a list.
func (s *Schema) eachRow(row interface{}, f func(row interface{}) (bool, error)) (bool, error) {
	list, ok := listValue(row)
	if !ok {
		return f(row)
	}
	var changed bool
	for i := 0; i < list.Len(); i++ {
		ok, err := f(list.Index(i).Interface())
		if err != nil {
			return changed, err
		}
		changed = changed || ok
	}
	return changed, nil
}

// execRow executes a statement with named parameters bound to the
// row's fields, and returns the number of rows affected.
func (s *Schema) execRow(ctx context.Context, o *options, stmt *Stmt, rowValue reflect.Value) (int64, error) {
	query, args, err := s.bind(stmt.query, rowValue.Interface())
	if err != nil {
		return 0, err
	}
	result, err := s.exec(ctx, o.querier, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// rowMaker creates the values that query results are scanned into.
type rowMaker[T any] struct {
	table  *Table
	newRow func() (dest interface{}, row T)
}

func newRowMaker[T any](s *Schema, op string) (*rowMaker[T], error) {
	rowType := reflect.TypeOf((*T)(nil)).Elem()
	switch {
	case rowType.Kind() == reflect.Ptr && rowType.Elem().Kind() == reflect.Struct:
		structType := rowType.Elem()
		tbl, err := s.tableForType(op, structType)
		if err != nil {
			return nil, err
		}
		return &rowMaker[T]{
			table: tbl,
			newRow: func() (interface{}, T) {
				v := reflect.New(structType).Interface()
				return v, v.(T)
			},
		}, nil

	case rowType.Kind() == reflect.Interface:
		p := s.proxies.lookup(rowType)
		if p == nil {
			return nil, newMappingError(op, rowType, ErrNoProxy)
		}
		tbl, err := s.tableForType(op, rowType)
		if err != nil {
			return nil, err
		}
		return &rowMaker[T]{
			table: tbl,
			newRow: func() (interface{}, T) {
				v := p.newFunc()
				return v, v.(T)
			},
		}, nil
	}

	return nil, newMappingError(op, rowType, ErrRowType)
}

// scanRows scans up to limit rows, or all rows if limit is zero.
// Tracked rows are marked as not dirty after they are populated.
func scanRows[T any](s *Schema, rows *sql.Rows, maker *rowMaker[T], limit int) ([]T, error) {
	defer rows.Close()
	xrows := &sqlx.Rows{Rows: rows, Mapper: s.mapper}
	list := make([]T, 0)
	for xrows.Next() {
		dest, row := maker.newRow()
		if err := xrows.StructScan(dest); err != nil {
			return nil, err
		}
		if tracked, ok := dest.(Tracked); ok {
			tracked.SetDirty(false)
		}
		list = append(list, row)
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	if err := xrows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// listValue returns the list value if row is a slice or
// array, or a pointer to one.
func listValue(row interface{}) (reflect.Value, bool) {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v, true
	}
	return v, false
}

// rowError returns the error to report for a row that is not a struct.
func rowError(row interface{}) error {
	v := reflect.ValueOf(row)
	if !v.IsValid() {
		return ErrNilRow
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ErrNilRow
		}
		v = v.Elem()
	}
	return ErrRowType
}
