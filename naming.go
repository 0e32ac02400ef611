package crud

import (
	"github.com/jjeffery/crud/private/naming"
)

// NamingConvention converts Go struct field names into database
// column names, and Go type names into table names.
type NamingConvention interface {
	// Convert accepts the name of a Go struct field, and returns
	// the name of the associated column.
	Convert(fieldName string) string

	// TableName accepts the name of a Go type, and returns
	// the name of the associated table.
	TableName(typeName string) string
}

// Pre-defined naming conventions. With SameCase, field "UserID" maps
// to column "UserID" and type "Car" to table "Cars". With SnakeCase
// they map to "user_id" and "cars". With LowerCase, "userid" and "cars".
var (
	SameCase  NamingConvention = naming.SameCase
	SnakeCase NamingConvention = naming.SnakeCase
	LowerCase NamingConvention = naming.LowerCase
)

// Inflect returns a naming convention that converts names using nc, but
// forms table names using English pluralization rules: so type "Person"
// maps to table "People" rather than "Persons".
func Inflect(nc NamingConvention) NamingConvention {
	return naming.Inflect(nc)
}
