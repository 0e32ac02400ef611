package crud

import (
	"reflect"
	"sync"

	"github.com/jjeffery/crud/private/column"
)

// Table represents the information known about a database table.
// The information known about a table is derived from the row
// type (which must be a struct), and any configuration that was
// provided when the schema was created.
type Table struct {
	rowType   reflect.Type
	tableName string
	cols      []*Column
	keys      []*Column
	generated []*Column
	computed  []*Column
}

// TableFor returns the table information associated with row, which
// can be a struct, a pointer to a struct, a slice of structs, a
// reflect.Type or a nil pointer to an interface with a registered proxy.
func (s *Schema) TableFor(row interface{}) (*Table, error) {
	rowType, ok := row.(reflect.Type)
	if !ok {
		rowType = reflect.TypeOf(row)
	}
	if rowType == nil {
		return nil, newMappingError("table", nil, ErrNilRow)
	}
	for isContainer(rowType) {
		rowType = rowType.Elem()
	}
	return s.tableForType("table", rowType)
}

// tableForType returns the table for a struct type, or for an interface
// type that has a registered proxy.
func (s *Schema) tableForType(op string, rowType reflect.Type) (*Table, error) {
	if tbl := s.tables.lookup(rowType); tbl != nil {
		return tbl, nil
	}
	structType, owner := rowType, rowType
	switch rowType.Kind() {
	case reflect.Interface:
		p := s.proxies.lookup(rowType)
		if p == nil {
			return nil, newMappingError(op, rowType, ErrNoProxy)
		}
		structType = p.structType
	case reflect.Struct:
		if p := s.proxies.lookupStruct(rowType); p != nil {
			owner = p.ifaceType
		}
	default:
		return nil, newMappingError(op, rowType, ErrRowType)
	}
	if tbl := s.tables.lookup(structType); tbl != nil {
		return s.tables.add(rowType, tbl), nil
	}
	tbl, err := s.newTable(op, structType, owner)
	if err != nil {
		return nil, err
	}
	tbl = s.tables.add(structType, tbl)
	return s.tables.add(rowType, tbl), nil
}

// newTable returns a new Table value for the row type. The owner type
// is the interface type for proxies, and is otherwise the row type.
func (s *Schema) newTable(op string, rowType reflect.Type, owner reflect.Type) (*Table, error) {
	tbl := &Table{
		rowType:   rowType,
		tableName: s.tableName(rowType, owner),
	}
	if tbl.tableName == "" {
		return nil, newMappingError(op, rowType, ErrNoTableName)
	}

	for _, info := range column.ListForType(rowType) {
		col := &Column{
			columnName: info.ColumnName,
			info:       info,
		}
		if col.columnName == "" {
			col.columnName = s.convention.Convert(info.Field.Name)
		}
		if !isParamName(col.columnName) {
			// rows are bound using the column names as parameter names
			return nil, newMappingError(op, rowType, ErrColumnName)
		}
		tbl.cols = append(tbl.cols, col)
		if info.Key {
			tbl.keys = append(tbl.keys, col)
			if info.Generated() {
				tbl.generated = append(tbl.generated, col)
			}
		}
		if info.Computed {
			tbl.computed = append(tbl.computed, col)
		}
	}

	return tbl, nil
}

// isParamName reports whether name can be used as a named parameter.
func isParamName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}

// Name returns the name of the table.
func (tbl *Table) Name() string {
	return tbl.tableName
}

// RowType returns the row type, which is always a struct.
func (tbl *Table) RowType() reflect.Type {
	return tbl.rowType
}

// Columns returns all columns defined for the table.
func (tbl *Table) Columns() []*Column {
	return columnSlice(tbl.cols)
}

// PrimaryKey returns the column or columns that form the
// primary key for the table, including both generated and explicit
// key columns. Returns nil if no primary key has been defined.
func (tbl *Table) PrimaryKey() []*Column {
	return columnSlice(tbl.keys)
}

// ComputedColumns returns the columns that are read but never written.
func (tbl *Table) ComputedColumns() []*Column {
	return columnSlice(tbl.computed)
}

// insertColumns returns the columns with values supplied by
// an insert statement.
func (tbl *Table) insertColumns() []*Column {
	var cols []*Column
	for _, col := range tbl.cols {
		if !col.Generated() && !col.Computed() {
			cols = append(cols, col)
		}
	}
	return cols
}

// updateColumns returns the columns set by an update statement.
func (tbl *Table) updateColumns() []*Column {
	var cols []*Column
	for _, col := range tbl.cols {
		if !col.PrimaryKey() && !col.Computed() {
			cols = append(cols, col)
		}
	}
	return cols
}

func isContainer(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// structValue returns the struct value for row, which must be a struct
// or a (possibly multi-level) pointer to a struct.
func structValue(row interface{}) (reflect.Value, bool) {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// Column contains meta-data about a column in a database table.
type Column struct {
	columnName string
	info       *column.Info
}

// Name returns the name of the database column.
func (col *Column) Name() string {
	return col.columnName
}

// FieldName returns the name of the associated struct field.
func (col *Column) FieldName() string {
	return col.info.Field.Name
}

// PrimaryKey returns true if this column is the primary key,
// or forms part of the primary key.
func (col *Column) PrimaryKey() bool {
	return col.info.Key
}

// Generated returns true if this column is a key column
// whose value is generated by the database.
func (col *Column) Generated() bool {
	return col.info.Generated()
}

// Computed returns true if the column value is computed by
// the database, and so is never inserted or updated.
func (col *Column) Computed() bool {
	return col.info.Computed
}

func columnSlice(src []*Column) []*Column {
	if len(src) == 0 {
		return nil
	}
	dest := make([]*Column, len(src))
	copy(dest, src)
	return dest
}

// tableMap is used to lookup table info based on row type info.
// It is safe for concurrent acceess because table/row type info can
// be added during program execution.
type tableMap struct {
	tables sync.Map
}

// add a table to the map and return the value for the table
// in the map. The value returned will be different to tbl if
// another goroutine has already added an entry to the map for
// the table.
func (tm *tableMap) add(rowType reflect.Type, tbl *Table) *Table {
	v, _ := tm.tables.LoadOrStore(rowType, tbl)
	return v.(*Table)
}

// remove the table for a row type, so that it is built again
// on next use.
func (tm *tableMap) remove(rowType reflect.Type) {
	tm.tables.Delete(rowType)
}

// lookup a table based on its row type in the map. Returns nil
// if not found.
func (tm *tableMap) lookup(rowType reflect.Type) *Table {
	if v, ok := tm.tables.Load(rowType); ok {
		return v.(*Table)
	}
	return nil
}
