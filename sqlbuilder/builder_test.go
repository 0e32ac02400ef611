package sqlbuilder_test

import (
	"testing"

	"github.com/jjeffery/crud"
	"github.com/jjeffery/crud/sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSQL(t *testing.T) {
	tests := []struct {
		name     string
		template string
		build    func(b *sqlbuilder.Builder)
		want     string
	}{
		{
			name:     "select where orderby",
			template: "select /**select**/ from cars /**where**/ /**orderby**/",
			build: func(b *sqlbuilder.Builder) {
				b.Select("id", nil).Select("name", nil)
				b.Where("name = :name", sqlbuilder.Params{"name": "Volvo"})
				b.OrderBy("id", nil)
			},
			want: "select id , name\n from cars WHERE name = :name\n ORDER BY id\n",
		},
		{
			name:     "or where",
			template: "select * from cars /**where**/",
			build: func(b *sqlbuilder.Builder) {
				b.Where("a = 1", nil).OrWhere("b = 2", nil).OrWhere("c = 3", nil)
			},
			want: "select * from cars WHERE a = 1 AND  ( b = 2 OR c = 3 ) \n",
		},
		{
			name:     "unmatched markers are removed",
			template: "select * from cars /**where**/ /**orderby**/",
			build:    func(b *sqlbuilder.Builder) {},
			want:     "select * from cars  ",
		},
		{
			name:     "markers in literals are ignored",
			template: "select '/**where**/' from cars /**where**/",
			build: func(b *sqlbuilder.Builder) {
				b.Where("x = 1", nil)
			},
			want: "select '/**where**/' from cars WHERE x = 1\n",
		},
		{
			name:     "other comments are kept",
			template: "select * /* all */ from cars /**where**/",
			build: func(b *sqlbuilder.Builder) {
				b.Where("x = 1", nil)
			},
			want: "select * /* all */ from cars WHERE x = 1\n",
		},
		{
			name:     "joins",
			template: "select * from a /**innerjoin**/ /**leftjoin**/ /**rightjoin**/ /**join**/",
			build: func(b *sqlbuilder.Builder) {
				b.InnerJoin("b on b.id = a.b_id", nil)
				b.LeftJoin("c on c.id = a.c_id", nil)
				b.RightJoin("d on d.id = a.d_id", nil)
				b.Join("e on e.id = a.e_id", nil)
			},
			want: "select * from a \nINNER JOIN b on b.id = a.b_id\n \nLEFT JOIN c on c.id = a.c_id\n \nRIGHT JOIN d on d.id = a.d_id\n \nJOIN e on e.id = a.e_id\n",
		},
		{
			name:     "group by having",
			template: "select make, count(*) from cars /**groupby**/ /**having**/",
			build: func(b *sqlbuilder.Builder) {
				b.GroupBy("make", nil).GroupBy("model", nil)
				b.Having("count(*) > 1", nil).Having("count(*) < 10", nil)
			},
			want: "select make, count(*) from cars \nGROUP BY make , model\n HAVING count(*) > 1\nAND count(*) < 10\n",
		},
		{
			name:     "set",
			template: "update cars /**set**/ where id = :id",
			build: func(b *sqlbuilder.Builder) {
				b.Set("name = :name", nil).Set("make = :make", nil)
			},
			want: "update cars SET name = :name , make = :make\n where id = :id",
		},
		{
			name:     "intersect",
			template: "select id from a /**intersect**/",
			build: func(b *sqlbuilder.Builder) {
				b.Intersect("select id from b", nil)
			},
			want: "select id from a \n select id from b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sqlbuilder.New()
			tmpl := b.AddTemplate(tt.template, nil)
			tt.build(b)
			assert.Equal(t, tt.want, tmpl.RawSQL())
			assert.NoError(t, tmpl.Err())
		})
	}
}

func TestTemplateTracksBuilder(t *testing.T) {
	b := sqlbuilder.New()
	tmpl := b.AddTemplate("select * from cars /**where**/", nil)
	assert.Equal(t, "select * from cars ", tmpl.RawSQL())

	b.Where("id = :id", sqlbuilder.Params{"id": 1})
	assert.Equal(t, "select * from cars WHERE id = :id\n", tmpl.RawSQL())
	assert.Equal(t, sqlbuilder.Params{"id": 1}, tmpl.Params())

	// two templates share the clauses of one builder
	count := b.AddTemplate("select count(*) from cars /**where**/", nil)
	assert.Equal(t, "select count(*) from cars WHERE id = :id\n", count.RawSQL())
}

func TestParams(t *testing.T) {
	b := sqlbuilder.New()
	tmpl := b.AddTemplate("select * from cars /**where**/", sqlbuilder.Params{"a": 1})
	b.Where("b = :b", sqlbuilder.Params{"b": 2})
	b.AddParameters(sqlbuilder.Params{"c": 3, "a": 4})

	// parameters from clauses without a marker are included
	assert.Equal(t, sqlbuilder.Params{"a": 4, "b": 2, "c": 3}, tmpl.Params())

	// the returned params are a copy
	params := tmpl.Params()
	params["d"] = 5
	assert.NotContains(t, tmpl.Params(), "d")
}

func TestBind(t *testing.T) {
	newTemplate := func() *sqlbuilder.Template {
		b := sqlbuilder.New()
		tmpl := b.AddTemplate("select * from cars /**where**/", nil)
		b.Where("name = :name", sqlbuilder.Params{"name": "Volvo"})
		b.Where("id in (:ids)", sqlbuilder.Params{"ids": []int{1, 2, 3}})
		return tmpl
	}

	tests := []struct {
		dialect crud.Dialect
		want    string
	}{
		{
			dialect: crud.Postgres,
			want:    "select * from cars WHERE name = $1 AND id in ($2,$3,$4)\n",
		},
		{
			dialect: crud.SQLite,
			want:    "select * from cars WHERE name = ? AND id in (?,?,?)\n",
		},
		{
			dialect: crud.MSSQL,
			want:    "select * from cars WHERE name = @p1 AND id in (@p2,@p3,@p4)\n",
		},
	}

	for _, tt := range tests {
		query, args, err := newTemplate().Bind(tt.dialect)
		require.NoError(t, err)
		assert.Equal(t, tt.want, query, tt.dialect.Name())
		assert.Equal(t, []interface{}{"Volvo", 1, 2, 3}, args, tt.dialect.Name())
	}
}

func TestBindIgnoresLiteralsAndComments(t *testing.T) {
	b := sqlbuilder.New()
	tmpl := b.AddTemplate("select id::text from cars -- :x is not bound\n/**where**/", nil)
	b.Where("created > '2024-01-01 10:30:00'", nil)
	b.Where("code = 'a:b' and name = :b", sqlbuilder.Params{"b": "Volvo"})

	query, args, err := tmpl.Bind(crud.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "select id::text from cars -- :x is not bound\n"+
		"WHERE created > '2024-01-01 10:30:00' AND code = 'a:b' and name = $1\n", query)
	assert.Equal(t, []interface{}{"Volvo"}, args)
}

func TestBindErrors(t *testing.T) {
	b := sqlbuilder.New()
	tmpl := b.AddTemplate("select * from cars /**where**/", nil)
	b.Where("name = :name", nil)
	_, _, err := tmpl.Bind(crud.SQLite)
	assert.Error(t, err, "missing parameter")

	b = sqlbuilder.New()
	tmpl = b.AddTemplate("select * from cars where name = 'Volvo", nil)
	assert.Error(t, tmpl.Err())
	_, _, err = tmpl.Bind(crud.SQLite)
	assert.Error(t, err)
}
