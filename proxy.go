package crud

import (
	"reflect"
	"sync"
)

// Tracked is implemented by rows that record whether they have been
// modified. Proxies generated by the crud-gen command implement Tracked.
//
// Rows returned by Get and GetAll are not dirty. Update does not
// access the database for a row that is not dirty, and marks the
// row as not dirty after it has been updated.
type Tracked interface {
	IsDirty() bool
	SetDirty(dirty bool)
}

// proxy contains information about a registered proxy type.
type proxy struct {
	ifaceType  reflect.Type
	structType reflect.Type
	newFunc    func() interface{}
}

// RegisterProxy registers a function that creates proxies for the
// interface type I. Once registered, I can be used as the row type for
// Get and GetAll, and proxies can be passed to Insert, Update and Delete.
//
// The newFunc function must return a pointer to a struct that implements
// both I and Tracked. The crud-gen command generates suitable proxy types,
// along with a function that registers them.
//
// Proxies should be registered before the schema is used with them.
// Any table built for the proxy struct before registration is discarded.
func RegisterProxy[I any](s *Schema, newFunc func() I) error {
	ifaceType := reflect.TypeOf((*I)(nil)).Elem()
	if ifaceType.Kind() != reflect.Interface {
		return newMappingError("register", ifaceType, ErrNotInterface)
	}
	if newFunc == nil {
		return newMappingError("register", ifaceType, ErrInvalidProxyFactory)
	}
	sample := interface{}(newFunc())
	v := reflect.ValueOf(sample)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return newMappingError("register", ifaceType, ErrInvalidProxyFactory)
	}
	if _, ok := sample.(Tracked); !ok {
		return newMappingError("register", ifaceType, ErrInvalidProxyFactory)
	}
	structType := v.Elem().Type()
	s.proxies.add(&proxy{
		ifaceType:  ifaceType,
		structType: structType,
		newFunc: func() interface{} {
			return newFunc()
		},
	})
	// a proxy used before registration has a table named after the struct
	s.tables.remove(structType)
	return nil
}

// proxyMap contains the proxies registered with a schema.
type proxyMap struct {
	byIface  sync.Map
	byStruct sync.Map
}

func (pm *proxyMap) add(p *proxy) {
	pm.byIface.Store(p.ifaceType, p)
	pm.byStruct.Store(p.structType, p)
}

// lookup returns the proxy for an interface type, or nil.
func (pm *proxyMap) lookup(ifaceType reflect.Type) *proxy {
	if v, ok := pm.byIface.Load(ifaceType); ok {
		return v.(*proxy)
	}
	return nil
}

// lookupStruct returns the proxy implemented by a struct type, or nil.
func (pm *proxyMap) lookupStruct(structType reflect.Type) *proxy {
	if v, ok := pm.byStruct.Load(structType); ok {
		return v.(*proxy)
	}
	return nil
}
