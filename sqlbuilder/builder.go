// Package sqlbuilder builds SQL queries from templates containing
// clause markers. A marker is a comment of the form /**name**/, and it
// is replaced with all of the clauses of that name that have been added
// to the builder:
//
//	b := sqlbuilder.New()
//	t := b.AddTemplate("select /**select**/ from cars /**where**/ /**orderby**/", nil)
//	b.Select("id", nil).Select("name", nil)
//	b.Where("name = :name", sqlbuilder.Params{"name": "Volvo"})
//	b.OrderBy("id", nil)
//
// The resulting SQL is
//
//	select id , name
//	 from cars WHERE name = :name
//	 ORDER BY id
//
// Parameters are named (eg :name). The parameters of a template and all
// of its builder's clauses are merged, and Template.Bind converts the
// named parameters into the positional placeholders of an SQL dialect.
//
// A Builder and its templates are not safe for concurrent use.
package sqlbuilder

import "strings"

// Params contains named parameter values.
type Params map[string]interface{}

// clause is a single SQL fragment and its parameters.
type clause struct {
	sql       string
	params    Params
	inclusive bool
}

// clauses are the fragments that replace one marker.
type clauses struct {
	joiner  string
	prefix  string
	postfix string
	list    []clause
}

// Builder accumulates named clauses for substitution into templates.
type Builder struct {
	seq     int
	names   []string
	clauses map[string]*clauses
}

// New returns a new, empty builder.
func New() *Builder {
	return &Builder{
		clauses: make(map[string]*clauses),
	}
}

// AddTemplate returns a template for sql that has markers replaced with
// the clauses of b. The params are parameters for the template itself.
// Clauses added to b after the template has been created are reflected
// in the template.
func (b *Builder) AddTemplate(sql string, params Params) *Template {
	return &Template{
		builder: b,
		sql:     sql,
		params:  params,
		seq:     -1,
	}
}

func (b *Builder) addClause(name, sql string, params Params, joiner, prefix, postfix string, inclusive bool) *Builder {
	c, ok := b.clauses[name]
	if !ok {
		c = &clauses{
			joiner:  joiner,
			prefix:  prefix,
			postfix: postfix,
		}
		b.clauses[name] = c
		b.names = append(b.names, name)
	}
	c.list = append(c.list, clause{
		sql:       sql,
		params:    params,
		inclusive: inclusive,
	})
	b.seq++
	return b
}

// Intersect adds a query to the /**intersect**/ marker.
func (b *Builder) Intersect(sql string, params Params) *Builder {
	return b.addClause("intersect", sql, params, "\nINTERSECT\n ", "\n ", "\n", false)
}

// InnerJoin adds a join to the /**innerjoin**/ marker.
func (b *Builder) InnerJoin(sql string, params Params) *Builder {
	return b.addClause("innerjoin", sql, params, "\nINNER JOIN ", "\nINNER JOIN ", "\n", false)
}

// LeftJoin adds a join to the /**leftjoin**/ marker.
func (b *Builder) LeftJoin(sql string, params Params) *Builder {
	return b.addClause("leftjoin", sql, params, "\nLEFT JOIN ", "\nLEFT JOIN ", "\n", false)
}

// RightJoin adds a join to the /**rightjoin**/ marker.
func (b *Builder) RightJoin(sql string, params Params) *Builder {
	return b.addClause("rightjoin", sql, params, "\nRIGHT JOIN ", "\nRIGHT JOIN ", "\n", false)
}

// Join adds a join to the /**join**/ marker.
func (b *Builder) Join(sql string, params Params) *Builder {
	return b.addClause("join", sql, params, "\nJOIN ", "\nJOIN ", "\n", false)
}

// Where adds a condition to the /**where**/ marker. Conditions
// are combined with AND.
func (b *Builder) Where(sql string, params Params) *Builder {
	return b.addClause("where", sql, params, " AND ", "WHERE ", "\n", false)
}

// OrWhere adds a condition to the /**where**/ marker. All conditions
// added with OrWhere are combined with OR into a single condition,
// which is combined with the other conditions using AND.
func (b *Builder) OrWhere(sql string, params Params) *Builder {
	return b.addClause("where", sql, params, " AND ", "WHERE ", "\n", true)
}

// OrderBy adds an expression to the /**orderby**/ marker.
func (b *Builder) OrderBy(sql string, params Params) *Builder {
	return b.addClause("orderby", sql, params, " , ", "ORDER BY ", "\n", false)
}

// Select adds a column to the /**select**/ marker.
func (b *Builder) Select(sql string, params Params) *Builder {
	return b.addClause("select", sql, params, " , ", "", "\n", false)
}

// GroupBy adds an expression to the /**groupby**/ marker.
func (b *Builder) GroupBy(sql string, params Params) *Builder {
	return b.addClause("groupby", sql, params, " , ", "\nGROUP BY ", "\n", false)
}

// Having adds a condition to the /**having**/ marker.
func (b *Builder) Having(sql string, params Params) *Builder {
	return b.addClause("having", sql, params, "\nAND ", "HAVING ", "\n", false)
}

// Set adds an assignment to the /**set**/ marker.
func (b *Builder) Set(sql string, params Params) *Builder {
	return b.addClause("set", sql, params, " , ", "SET ", "\n", false)
}

// AddParameters adds parameters without adding any SQL.
func (b *Builder) AddParameters(params Params) *Builder {
	return b.addClause("--parameters", "", params, "", "", "", false)
}

// resolve returns the text that replaces the marker for c, and adds
// the parameters of each clause to params.
func (c *clauses) resolve(params Params) string {
	var plain, inclusive []string
	for _, cl := range c.list {
		for k, v := range cl.params {
			params[k] = v
		}
		if cl.inclusive {
			inclusive = append(inclusive, cl.sql)
		} else {
			plain = append(plain, cl.sql)
		}
	}
	if len(inclusive) > 0 {
		plain = append(plain, " ( "+strings.Join(inclusive, " OR ")+" ) ")
	}
	return c.prefix + strings.Join(plain, c.joiner) + c.postfix
}
