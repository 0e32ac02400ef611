package column

import (
	"reflect"
	"regexp"
	"strings"
)

var splitRE = regexp.MustCompile("[ ,]+")

// Info contains information about a database column that has
// been extracted from a struct field using reflection.
type Info struct {
	Field reflect.StructField
	Index Index

	// ColumnName is the name given by the "db" tag, or blank
	// when the naming convention should be applied to the field name.
	ColumnName string

	// Key is set for primary key columns.
	Key bool

	// Explicit is set for key columns whose values are supplied
	// by the caller rather than generated by the database.
	Explicit bool

	// Computed columns are read but never written.
	Computed bool

	// Table is the table name from a "table" tag, if any.
	Table string
}

// Generated reports whether the column value is generated by the
// database on insert.
func (info *Info) Generated() bool {
	return info.Key && !info.Explicit
}

// update parses the "sql" tag. The tag is a list of words
// separated by spaces or commas, eg `sql:"primary key"`.
func (info *Info) update() {
	words := splitRE.Split(strings.ToLower(info.Field.Tag.Get("sql")), -1)
	for i, word := range words {
		next := ""
		if i+1 < len(words) {
			next = words[i+1]
		}
		switch word {
		case "key", "pk", "primary_key", "identity", "autoincr", "autoincrement", "auto_increment":
			info.Key = true
		case "primary":
			if next == "key" {
				info.Key = true
			}
		case "auto":
			if next == "increment" {
				info.Key = true
			}
		case "explicit":
			info.Key = true
			info.Explicit = true
		case "computed":
			info.Computed = true
		}
	}
	info.Table = strings.TrimSpace(info.Field.Tag.Get("table"))
}

// columnNameFromTag returns the column name from the "db" tag,
// or the empty string if none specified.
func columnNameFromTag(tag reflect.StructTag) string {
	return strings.TrimSpace(strings.Split(tag.Get("db"), ",")[0])
}

// ignored reports whether the field has been marked as not a column.
func ignored(tag reflect.StructTag) bool {
	return columnNameFromTag(tag) == "-" || strings.TrimSpace(tag.Get("sql")) == "-"
}
