package crud

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jjeffery/crud/private/column"
)

// TableNamer is implemented by row types that know their table name.
// The method is called on a new, zero-valued row.
type TableNamer interface {
	TableName() string
}

// tableName returns the table name for the row type. For proxies
// the owner is the interface type implemented by the row type,
// otherwise it is the row type.
func (s *Schema) tableName(rowType reflect.Type, owner reflect.Type) string {
	for _, t := range []reflect.Type{owner, rowType} {
		if name, ok := s.tableNames[t.String()]; ok {
			return name
		}
		if name, ok := s.tableNames[t.Name()]; ok && t.Name() != "" {
			return name
		}
	}

	if namer, ok := reflect.New(rowType).Interface().(TableNamer); ok {
		if name := namer.TableName(); name != "" {
			return name
		}
	}

	// look for the first field in the struct with a "table" tag
	for _, info := range column.ListForType(rowType) {
		if info.Table != "" {
			return info.Table
		}
	}

	if s.tableFunc != nil {
		if name := s.tableFunc(owner); name != "" {
			return name
		}
	}

	typeName := owner.Name()
	if typeName == "" {
		// anonymous type: table name cannot be determined
		return ""
	}
	if owner.Kind() == reflect.Interface {
		typeName = trimInterfacePrefix(typeName)
	}
	return s.convention.TableName(typeName)
}

// trimInterfacePrefix removes the conventional "I" prefix from
// an interface type name, so "ICar" becomes "Car". Names like
// "Item" are unchanged.
func trimInterfacePrefix(name string) string {
	if !strings.HasPrefix(name, "I") {
		return name
	}
	next, _ := utf8.DecodeRuneInString(name[1:])
	if unicode.IsUpper(next) {
		return name[1:]
	}
	return name
}
