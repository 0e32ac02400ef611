/*
Package crud inserts, reads, updates and deletes database rows based
on the contents of Go structs. It builds the SQL for each operation from
the struct type, so a program that works with tables containing many
columns does not need to write or maintain the repetitive SQL.

The package is designed to work with the standard library "database/sql"
package. Every operation accepts a Querier, which is implemented by *sql.DB,
*sql.Tx and *sql.Conn (and the equivalent types in github.com/jmoiron/sqlx).
The calling program owns the connection and any transaction.

# Row types

A row type is a struct. Each exported field is a column, unless it is
ignored with a `db:"-"` tag. The column name is given by the "db" tag,
or else the schema's naming convention is applied to the field name.
Additional information is specified in the "sql" tag:

	type Car struct {
		ID       int64  `sql:"key"`          // generated by the database
		Name     string
		Computed string `sql:"computed"`     // read, but never written
	}

	type Invoice struct {
		Code  string `sql:"explicit key"`     // supplied by the caller
		Total int64
	}

If no field is marked as a key, a field named "ID" is treated as a key
that is generated by the database. Fields of anonymous embedded structs
are treated as fields of the containing struct.

# Table names

The table name for a row type is, in order of precedence: a name
registered with the schema (see WithTableName and Config); the result of
a TableName method; a "table" tag on any field; the result of a function
supplied using WithTableNameFunc; or the type name with a plural suffix.
For interface types, a leading "I" is removed from the type name, so both
Car and ICar map to table "Cars" with the default naming convention.

# Operations

	id, err := schema.Insert(ctx, db, &Car{Name: "Volvo"})
	car, err := crud.Get[*Car](ctx, schema, db, id)
	cars, err := crud.GetAll[*Car](ctx, schema, db)
	ok, err := schema.Update(ctx, db, car)
	ok, err = schema.Delete(ctx, db, car)
	ok, err = crud.DeleteAll[*Car](ctx, schema, db)

Insert accepts a slice of rows, in which case all rows are inserted and
the number of rows inserted is returned. Otherwise Insert returns the
value generated by the database for the first generated key, and
stores generated key values in the row.

# Change tracking

An interface type with a getter (and optionally a setter) for each
column can be used as a row type, provided that a proxy has been
registered for it. The crud-gen command generates proxies:

	//crud:proxy table=Automobiles
	type Car interface {
		ID() int64 // sql:"key"
		SetID(int64)
		Name() string
		SetName(string)
	}

Proxies implement Tracked. Rows returned by Get and GetAll are clean,
setters make them dirty, and Update does not access the database for a
row that is not dirty.

# Errors

Errors in the mapping of a row type, such as a missing key, are reported
as *MappingError before any database access. Errors returned by the
database driver are returned unchanged.
*/
package crud
