package column_test

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/jjeffery/crud/private/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForType(t *testing.T) {
	type Common struct {
		CreatedAt time.Time
		UpdatedAt *time.Time
	}
	type expected struct {
		field    string
		index    column.Index
		column   string
		key      bool
		explicit bool
		computed bool
	}
	tests := []struct {
		row   interface{}
		infos []expected
	}{
		{
			row: struct {
				ID   int
				Name string
			}{},
			infos: []expected{
				{field: "ID", index: column.NewIndex(0), key: true},
				{field: "Name", index: column.NewIndex(1)},
			},
		},
		{
			row: struct {
				Code string `sql:"explicit key" db:"code"`
				ID   int
			}{},
			infos: []expected{
				{field: "Code", index: column.NewIndex(0), column: "code", key: true, explicit: true},
				{field: "ID", index: column.NewIndex(1)},
			},
		},
		{
			row: struct {
				Key   int    `sql:"primary key auto increment"`
				Total string `sql:"computed"`
			}{},
			infos: []expected{
				{field: "Key", index: column.NewIndex(0), key: true},
				{field: "Total", index: column.NewIndex(1), computed: true},
			},
		},
		{
			row: struct {
				ID int `sql:",pk"`
				Common
				Name string
			}{},
			infos: []expected{
				{field: "ID", index: column.NewIndex(0), key: true},
				{field: "CreatedAt", index: column.NewIndex(1, 0)},
				{field: "UpdatedAt", index: column.NewIndex(1, 1)},
				{field: "Name", index: column.NewIndex(2)},
			},
		},
		{
			row: struct {
				Yes     string
				Bytes   []byte
				Null    sql.NullString
				No1     []string
				No2     map[string]string
				No3     chan int
				No4     [2]string
				No5     func(string) string
				No6     string `db:"-"`
				No7     string `sql:"-"`
				Address struct {
					Street string
				}
				no8 string
			}{},
			infos: []expected{
				{field: "Yes", index: column.NewIndex(0)},
				{field: "Bytes", index: column.NewIndex(1)},
				{field: "Null", index: column.NewIndex(2)},
			},
		},
	}

	for i, tt := range tests {
		infos := column.ListForType(reflect.TypeOf(tt.row))
		require.Len(t, infos, len(tt.infos), "test %d", i)
		for j, want := range tt.infos {
			got := infos[j]
			assert.Equal(t, want.field, got.Field.Name, "test %d", i)
			assert.Equal(t, want.index, got.Index, "test %d: %s", i, want.field)
			assert.Equal(t, want.column, got.ColumnName, "test %d: %s", i, want.field)
			assert.Equal(t, want.key, got.Key, "test %d: %s", i, want.field)
			assert.Equal(t, want.explicit, got.Explicit, "test %d: %s", i, want.field)
			assert.Equal(t, want.computed, got.Computed, "test %d: %s", i, want.field)
		}
	}

	// test that lists cache
	list1 := column.ListForType(reflect.TypeOf(Common{}))
	list2 := column.ListForType(reflect.TypeOf(Common{}))
	assert.Equal(t, reflect.ValueOf(list1).Pointer(), reflect.ValueOf(list2).Pointer())
}

func TestTableTag(t *testing.T) {
	type Row struct {
		ID   int64 `sql:"key" table:"people"`
		Name string
	}
	infos := column.ListForType(reflect.TypeOf(Row{}))
	require.Len(t, infos, 2)
	assert.Equal(t, "people", infos[0].Table)
	assert.True(t, infos[0].Generated())
}

func TestIndexValue(t *testing.T) {
	type Inner struct {
		Value int
	}
	type Outer struct {
		Name string
		*Inner
	}
	var row Outer
	ix := column.NewIndex(1, 0)

	assert.False(t, ix.ValueRO(reflect.ValueOf(&row)).IsValid())

	v := ix.ValueRW(reflect.ValueOf(&row))
	v.SetInt(42)
	require.NotNil(t, row.Inner)
	assert.Equal(t, 42, row.Value)
	assert.Equal(t, int64(42), ix.ValueRO(reflect.ValueOf(row)).Int())

	ix2 := column.NewIndex(1).Append(0)
	assert.Equal(t, ix, ix2)
}
