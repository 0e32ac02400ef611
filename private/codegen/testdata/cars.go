package testdata

//go:generate crud-gen

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ICar is a car.
//
//crud:proxy table=Automobiles
type ICar interface {
	ID() int // sql:"key"
	Make() string
	SetMake(string)
	Model() string // db:"model_name"
	SetModel(string)
	Price() decimal.Decimal
	SetPrice(decimal.Decimal)
	Registered() sql.NullTime
	UpdatedAt() time.Time // `sql:"computed"`
}

type (
	//crud:proxy name=person
	IPerson interface {
		Name() string // the person's name
		SetName(name string)
		Nicknames() []byte
	}

	// not a proxy
	IOther interface {
		Other() int
	}
)
