package column

import (
	"database/sql"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Standard types.
var (
	sqlScanType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

var typeMap = struct {
	mu sync.RWMutex
	m  map[reflect.Type][]*Info
}{
	m: make(map[reflect.Type][]*Info),
}

// ListForType returns a list of column information
// associated with the specified type, which must be a struct.
// The list is built once per type and shared: callers must
// not modify it.
func ListForType(rowType reflect.Type) []*Info {
	typeMap.mu.RLock()
	list, ok := typeMap.m[rowType]
	typeMap.mu.RUnlock()
	if ok {
		return list
	}

	list = newList(rowType)

	typeMap.mu.Lock()
	defer typeMap.mu.Unlock()
	if existing, ok := typeMap.m[rowType]; ok {
		// another goroutine got there first
		return existing
	}
	typeMap.m[rowType] = list
	return list
}

// newList returns a list of column information for the row type.
func newList(rowType reflect.Type) []*Info {
	var list columnList
	list.addFields(rowType, nil)
	list.conventionKey()
	return list
}

type columnList []*Info

func (list *columnList) addFields(rowType reflect.Type, index Index) {
	for i := 0; i < rowType.NumField(); i++ {
		list.addField(rowType.Field(i), index.Append(i))
	}
}

func (list *columnList) addField(field reflect.StructField, index Index) {
	if ignored(field.Tag) {
		return
	}

	if len(field.PkgPath) != 0 && !field.Anonymous {
		// ignore unexported field
		return
	}

	fieldType := field.Type
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	if fieldType.Kind() == reflect.Struct && field.Anonymous && columnNameFromTag(field.Tag) == "" {
		// anonymous structs are flattened
		list.addFields(fieldType, index)
		return
	}

	if len(field.PkgPath) != 0 {
		// unexported embedded non-struct
		return
	}

	if !mappable(fieldType) {
		return
	}

	info := &Info{
		Field:      field,
		Index:      index,
		ColumnName: columnNameFromTag(field.Tag),
	}
	info.update()
	*list = append(*list, info)
}

// conventionKey marks a field named "ID" as a generated key when
// no field has been tagged as a key.
func (list columnList) conventionKey() {
	for _, info := range list {
		if info.Key {
			return
		}
	}
	for _, info := range list {
		if strings.EqualFold(info.Field.Name, "id") {
			info.Key = true
			return
		}
	}
}

// mappable reports whether values of the field type can be
// stored in a single column.
func mappable(fieldType reflect.Type) bool {
	if fieldType == bytesType {
		return true
	}
	switch fieldType.Kind() {
	case reflect.Array, reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		return false
	case reflect.Struct:
		// Nested structs are only mapped when they hold a single value.
		return fieldType == timeType ||
			fieldType.Implements(sqlScanType) ||
			reflect.PtrTo(fieldType).Implements(sqlScanType)
	}
	return true
}
