package column

import (
	"reflect"
)

// Index locates the struct field for a column. Fields of embedded
// structs have an index with more than one element.
type Index []int

// NewIndex returns an index with the specified values.
func NewIndex(vals ...int) Index {
	return Index(vals)
}

// Append returns a new index with i appended. The
// receiver is unchanged.
func (ix Index) Append(i int) Index {
	clone := make(Index, len(ix), len(ix)+1)
	copy(clone, ix)
	return append(clone, i)
}

// ValueRW returns the field value in the struct v, allocating
// any nil embedded struct pointers along the way. The returned
// value is settable when v is addressable.
func (ix Index) ValueRW(v reflect.Value) reflect.Value {
	for n, i := range ix {
		v = reflect.Indirect(v).Field(i)
		if n < len(ix)-1 && v.Kind() == reflect.Ptr && v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
	}
	return v
}

// ValueRO returns the field value in the struct v. It returns
// an invalid value if a nil embedded pointer is encountered.
func (ix Index) ValueRO(v reflect.Value) reflect.Value {
	for _, i := range ix {
		v = reflect.Indirect(v)
		if !v.IsValid() {
			return v
		}
		v = v.Field(i)
	}
	return v
}
