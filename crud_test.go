package crud_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jjeffery/crud"
	"github.com/jjeffery/crud/private/codegen/proxytest"
	"github.com/jjeffery/crud/sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type Car struct {
	ID       int64 `sql:"key"`
	Name     string
	Computed string `sql:"computed"`
}

func (*Car) TableName() string {
	return "Automobiles"
}

type Invoice struct {
	Code  string `sql:"explicit key"`
	Total int64
}

type Counter struct {
	ID int64
}

// statementLog records the statements sent to the database.
type statementLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *statementLog) Print(v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprint(v...))
}

func (l *statementLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a different database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, ddl := range []string{
		`create table Automobiles (
			ID integer primary key autoincrement,
			Name text not null,
			Computed text not null default 'computed'
		)`,
		`create table Invoices (Code text primary key, Total integer not null)`,
		`create table Counters (ID integer primary key autoincrement)`,
	} {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func newTestSchema(t *testing.T, opts ...crud.SchemaOption) *crud.Schema {
	t.Helper()
	opts = append([]crud.SchemaOption{crud.WithDialect(crud.SQLite)}, opts...)
	schema := crud.NewSchema(opts...)
	require.NoError(t, proxytest.RegisterCarProxy(schema))
	return schema
}

func TestInsertGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	car := &Car{Name: "Volvo", Computed: "ignored"}
	id, err := schema.Insert(ctx, db, car)
	require.NoError(t, err)
	assert.True(t, id > 0)
	assert.Equal(t, id, car.ID)

	got, err := crud.Get[*Car](ctx, schema, db, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, &Car{ID: id, Name: "Volvo", Computed: "computed"}, got)

	missing, err := crud.Get[*Car](ctx, schema, db, id+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	got.Name = "Saab"
	got.Computed = "changed"
	ok, err := schema.Update(ctx, db, got)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = crud.Get[*Car](ctx, schema, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Saab", got.Name)
	assert.Equal(t, "computed", got.Computed, "computed columns are never written")

	// plain rows are always written
	ok, err = schema.Update(ctx, db, got)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = schema.Update(ctx, db, &Car{ID: id + 100, Name: "Audi"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = schema.Delete(ctx, db, got)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = schema.Delete(ctx, db, got)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = crud.Get[*Car](ctx, schema, db, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTrackedProxy(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	log := &statementLog{}
	schema := newTestSchema(t, crud.WithLogger(log))

	volvo := proxytest.NewCar()
	volvo.SetName("Volvo")
	id, err := schema.Insert(ctx, db, volvo)
	require.NoError(t, err)
	assert.Equal(t, id, volvo.ID())

	car, err := crud.Get[proxytest.ICar](ctx, schema, db, id)
	require.NoError(t, err)
	require.NotNil(t, car)
	assert.Equal(t, "Volvo", car.Name())
	tracked := car.(crud.Tracked)
	assert.False(t, tracked.IsDirty())

	count := log.Len()
	ok, err := schema.Update(ctx, db, car)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, count, log.Len(), "clean rows are not written")

	car.SetName("Saab")
	assert.True(t, tracked.IsDirty())
	ok, err = schema.Update(ctx, db, car)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, tracked.IsDirty())

	again, err := crud.Get[proxytest.ICar](ctx, schema, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Saab", again.Name())
	assert.False(t, again.(crud.Tracked).IsDirty())

	plain, err := crud.Get[*Car](ctx, schema, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Saab", plain.Name)

	missing, err := crud.Get[proxytest.ICar](ctx, schema, db, id+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	all, err := crud.GetAll[proxytest.ICar](ctx, schema, db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].(crud.Tracked).IsDirty())

	ok, err = schema.Delete(ctx, db, car)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	n, err := schema.Insert(ctx, db, []*Car{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = schema.Insert(ctx, db, []Car{{Name: "Volvo"}, {Name: "Saab"}, {Name: "Audi"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	cars, err := crud.GetAll[*Car](ctx, schema, db)
	require.NoError(t, err)
	var names []string
	for _, car := range cars {
		names = append(names, car.Name)
		assert.Equal(t, "computed", car.Computed)
	}
	assert.ElementsMatch(t, []string{"Volvo", "Saab", "Audi"}, names)

	ok, err := crud.DeleteAll[*Car](ctx, schema, db)
	require.NoError(t, err)
	assert.True(t, ok)

	cars, err = crud.GetAll[*Car](ctx, schema, db)
	require.NoError(t, err)
	assert.Empty(t, cars)

	ok, err = crud.DeleteAll[*Car](ctx, schema, db)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertListBatches(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	const count = 1200
	invoices := make([]*Invoice, count)
	for i := range invoices {
		invoices[i] = &Invoice{Code: fmt.Sprintf("INV-%04d", i), Total: int64(i)}
	}
	n, err := schema.Insert(ctx, db, invoices)
	require.NoError(t, err)
	assert.Equal(t, int64(count), n)

	all, err := crud.GetAll[*Invoice](ctx, schema, db)
	require.NoError(t, err)
	assert.Len(t, all, count)
}

func TestUpdateDeleteList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	cars := []*Car{{Name: "Volvo"}, {Name: "Saab"}}
	for _, car := range cars {
		_, err := schema.Insert(ctx, db, car)
		require.NoError(t, err)
	}
	for _, car := range cars {
		car.Name += " (sold)"
	}
	ok, err := schema.Update(ctx, db, cars)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := crud.Get[*Car](ctx, schema, db, cars[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Saab (sold)", got.Name)

	ok, err = schema.Delete(ctx, db, cars)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = schema.Delete(ctx, db, cars)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExplicitKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	id, err := schema.Insert(ctx, db, Invoice{Code: "INV-1", Total: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	invoice, err := crud.Get[*Invoice](ctx, schema, db, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, &Invoice{Code: "INV-1", Total: 100}, invoice)

	invoice.Total = 150
	ok, err := schema.Update(ctx, db, invoice)
	require.NoError(t, err)
	assert.True(t, ok)

	invoice, err = crud.Get[*Invoice](ctx, schema, db, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), invoice.Total)
}

func TestInsertDefaultValues(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	first, err := schema.Insert(ctx, db, &Counter{})
	require.NoError(t, err)
	second, err := schema.Insert(ctx, db, &Counter{})
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = schema.Insert(ctx, db, &Car{Name: "Volvo"}, crud.WithTx(tx))
	require.NoError(t, err)
	cars, err := crud.GetAll[*Car](ctx, schema, db, crud.WithTx(tx), crud.WithTimeout(time.Minute))
	require.NoError(t, err)
	assert.Len(t, cars, 1)
	require.NoError(t, tx.Rollback())

	cars, err = crud.GetAll[*Car](ctx, schema, db)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestSelectWithBuilder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	_, err := schema.Insert(ctx, db, []Car{{Name: "Volvo"}, {Name: "Saab"}, {Name: "Audi"}})
	require.NoError(t, err)

	b := sqlbuilder.New()
	tmpl := b.AddTemplate("select ID, Name, Computed from Automobiles /**where**/ /**orderby**/", nil)
	b.Where("Name in (:names)", sqlbuilder.Params{"names": []string{"Volvo", "Saab"}})
	b.OrderBy("Name", nil)

	query, args, err := tmpl.Bind(schema.Dialect())
	require.NoError(t, err)
	cars, err := crud.Select[*Car](ctx, schema, db, query, args)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "Saab", cars[0].Name)
	assert.Equal(t, "Volvo", cars[1].Name)

	proxies, err := crud.Select[proxytest.ICar](ctx, schema, db,
		"select ID, Name from Automobiles where Name = ?", []interface{}{"Audi"})
	require.NoError(t, err)
	require.Len(t, proxies, 1)
	assert.Equal(t, "Audi", proxies[0].Name())
	assert.False(t, proxies[0].(crud.Tracked).IsDirty())

	// options apply to Select as they do to other operations
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = schema.Insert(ctx, db, &Car{Name: "Fiat"}, crud.WithTx(tx))
	require.NoError(t, err)
	inTx, err := crud.Select[*Car](ctx, schema, db,
		"select ID, Name, Computed from Automobiles where Name = ?", []interface{}{"Fiat"},
		crud.WithTx(tx), crud.WithTimeout(time.Minute))
	require.NoError(t, err)
	assert.Len(t, inTx, 1)
}

func TestDriverErrorsUnchanged(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	schema := newTestSchema(t)

	_, err := schema.Insert(ctx, db, &Invoice{Code: "INV-1"})
	require.NoError(t, err)
	_, err = schema.Insert(ctx, db, &Invoice{Code: "INV-1"})
	require.Error(t, err)
	var mappingErr *crud.MappingError
	assert.NotErrorAs(t, err, &mappingErr)
}
