package crud

import (
	"reflect"

	"github.com/jjeffery/errors"
	"github.com/jjeffery/kv"
)

// Errors describing problems with the mapping of a row type. They are
// reported wrapped in a *MappingError, and can be tested using errors.Is.
var (
	ErrKeyRequired         = errors.New("row type must have at least one key column")
	ErrSingleKeyRequired   = errors.New("row type must have exactly one key column")
	ErrNoUpdatableColumns  = errors.New("row type has no columns to update")
	ErrNoTableName         = errors.New("cannot determine table name")
	ErrRowType             = errors.New("expected a struct, pointer to struct or registered interface")
	ErrNilRow              = errors.New("row cannot be nil")
	ErrNotAddressable      = errors.New("row must be passed by pointer to receive generated keys")
	ErrNotInterface        = errors.New("proxy type must be an interface")
	ErrNoProxy             = errors.New("no proxy registered for interface")
	ErrInvalidProxyFactory = errors.New("proxy factory must return a pointer to a struct that implements Tracked")
	ErrColumnName          = errors.New("column name must contain only letters, digits and underscores")
)

// MappingError is returned when an operation cannot be performed
// because of the way a row type is mapped to its table. No database
// access takes place when a MappingError is returned.
type MappingError struct {
	Op      string
	RowType reflect.Type
	Err     error
}

func newMappingError(op string, rowType reflect.Type, err error) *MappingError {
	return &MappingError{
		Op:      op,
		RowType: rowType,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	keyvals := kv.List{"op", e.Op}
	if e.RowType != nil {
		keyvals = append(keyvals, "rowType", e.RowType.String())
	}
	return e.Err.Error() + " " + keyvals.String()
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Err
}
