// Package proxytest contains a row interface and the proxy that
// crud-gen generates for it.
package proxytest

//go:generate crud-gen -f cars.go

// ICar is a car stored in the Automobiles table.
//
//crud:proxy table=Automobiles
type ICar interface {
	ID() int64 // sql:"key"
	Name() string
	SetName(string)
}

// NewCar returns a new, empty car.
func NewCar() ICar {
	return newCarProxy()
}
