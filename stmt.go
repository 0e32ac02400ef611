package crud

import (
	"fmt"
	"strings"
)

// stmtKind identifies the operation that a statement performs.
type stmtKind int

const (
	getStmt stmtKind = iota
	getAllStmt
	insertStmt
	insertListStmt
	updateStmt
	deleteStmt
	deleteAllStmt
)

func (k stmtKind) String() string {
	switch k {
	case getStmt:
		return "get"
	case getAllStmt:
		return "getall"
	case insertStmt:
		return "insert"
	case insertListStmt:
		return "insertlist"
	case updateStmt:
		return "update"
	case deleteStmt:
		return "delete"
	case deleteAllStmt:
		return "deleteall"
	}
	return fmt.Sprintf("stmt-%d", int(k))
}

// Stmt is an SQL statement synthesized for a row type.
//
// Statements for get operations use a positional placeholder for the
// key value. All other statements use named parameters (eg :name),
// which are bound to the row's fields when the statement is executed.
type Stmt struct {
	kind  stmtKind
	table *Table
	query string
}

// String returns the SQL text of the statement.
func (stmt *Stmt) String() string {
	return stmt.query
}

// Table returns the table that the statement applies to.
func (stmt *Stmt) Table() *Table {
	return stmt.table
}

// stmtFor returns the statement of the given kind for the table, building
// and caching it on first use. The adapter is used only for insert statements.
func (s *Schema) stmtFor(kind stmtKind, tbl *Table, adapter Adapter) (*Stmt, error) {
	key := stmtKey{kind: kind, table: tbl}
	if kind == insertStmt {
		key.adapter = adapter.Name()
	}
	if stmt, ok := s.stmts.lookup(key); ok {
		return stmt, nil
	}
	query, err := s.buildQuery(kind, tbl, adapter)
	if err != nil {
		return nil, newMappingError(kind.String(), tbl.rowType, err)
	}
	stmt := &Stmt{
		kind:  kind,
		table: tbl,
		query: query,
	}
	return s.stmts.set(key, stmt), nil
}

func (s *Schema) buildQuery(kind stmtKind, tbl *Table, adapter Adapter) (string, error) {
	dialect := s.dialect
	tableName := dialect.Quote(tbl.tableName)

	switch kind {
	case getStmt:
		if len(tbl.keys) == 0 {
			return "", ErrKeyRequired
		}
		if len(tbl.keys) > 1 {
			return "", ErrSingleKeyRequired
		}
		return fmt.Sprintf("select %s from %s where %s = %s",
			s.columnList(tbl.cols), tableName,
			dialect.Quote(tbl.keys[0].columnName), dialect.Placeholder(1),
		), nil

	case getAllStmt:
		return fmt.Sprintf("select %s from %s", s.columnList(tbl.cols), tableName), nil

	case insertStmt, insertListStmt:
		cols := tbl.insertColumns()
		var query string
		if len(cols) == 0 {
			query = fmt.Sprintf("insert into %s %s", tableName, emptyInsert(dialect))
		} else {
			query = fmt.Sprintf("insert into %s (%s) values (%s)",
				tableName, s.columnList(cols), paramList(cols),
			)
		}
		if kind == insertStmt {
			query = adapter.insertQuery(dialect, tbl, query)
		}
		return query, nil

	case updateStmt:
		if len(tbl.keys) == 0 {
			return "", ErrKeyRequired
		}
		cols := tbl.updateColumns()
		if len(cols) == 0 {
			return "", ErrNoUpdatableColumns
		}
		return fmt.Sprintf("update %s set %s where %s",
			tableName, s.assignList(cols, ", "), s.assignList(tbl.keys, " and "),
		), nil

	case deleteStmt:
		if len(tbl.keys) == 0 {
			return "", ErrKeyRequired
		}
		return fmt.Sprintf("delete from %s where %s", tableName, s.assignList(tbl.keys, " and ")), nil

	case deleteAllStmt:
		return fmt.Sprintf("delete from %s", tableName), nil
	}

	return "", fmt.Errorf("unknown statement kind %d", int(kind))
}

// columnList returns the quoted column names separated by commas.
func (s *Schema) columnList(cols []*Column) string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = s.dialect.Quote(col.columnName)
	}
	return strings.Join(names, ", ")
}

// assignList returns a list of "column = :column" terms.
func (s *Schema) assignList(cols []*Column, sep string) string {
	terms := make([]string, len(cols))
	for i, col := range cols {
		terms[i] = s.dialect.Quote(col.columnName) + " = :" + col.columnName
	}
	return strings.Join(terms, sep)
}

// paramList returns the named parameters for the columns.
func paramList(cols []*Column) string {
	params := make([]string, len(cols))
	for i, col := range cols {
		params[i] = ":" + col.columnName
	}
	return strings.Join(params, ", ")
}
