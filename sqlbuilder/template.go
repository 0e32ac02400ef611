package sqlbuilder

import (
	"regexp"
	"strings"

	"github.com/jjeffery/crud/private/scanner"
	"github.com/jjeffery/crud/private/wherein"
	"github.com/jjeffery/errors"
)

var markerRE = regexp.MustCompile(`^/\*\*(.+?)\*\*/$`)

// Dialect provides the placeholder format for bound parameters.
// The dialects in package crud implement this interface.
type Dialect interface {
	Placeholder(n int) string
}

// Template is an SQL query with markers that are replaced by
// the clauses of a builder.
type Template struct {
	builder *Builder
	sql     string
	params  Params

	// seq is the builder sequence at the time of the last
	// resolution, or -1 if not resolved
	seq      int
	rawSQL   string
	resolved Params
	err      error
}

// RawSQL returns the SQL with each marker replaced by the clauses of the
// same name. Markers with no clauses are removed. Markers inside string
// literals are not replaced.
func (t *Template) RawSQL() string {
	t.resolve()
	return t.rawSQL
}

// Params returns the parameters of the template merged with the
// parameters of all of the builder's clauses. Where more than one
// value is given for a name, the last value added is used.
func (t *Template) Params() Params {
	t.resolve()
	params := make(Params, len(t.resolved))
	for k, v := range t.resolved {
		params[k] = v
	}
	return params
}

// Err returns any error encountered while parsing the template SQL.
func (t *Template) Err() error {
	t.resolve()
	return t.err
}

// Bind returns the resolved SQL with named parameters replaced by the
// placeholders of dialect d, and the corresponding argument values.
// A parameter whose value is a slice is expanded into one placeholder
// per element, which suits conditions like "id in (:ids)".
//
// Text that looks like a parameter inside a string literal, quoted
// identifier or comment is left unchanged, as is a cast such as "x::text".
func (t *Template) Bind(d Dialect) (string, []interface{}, error) {
	t.resolve()
	if t.err != nil {
		return "", nil, t.err
	}
	query, args, err := bindNamed(t.rawSQL, t.resolved)
	if err != nil {
		return "", nil, err
	}
	query, args, err = wherein.Expand(query, args)
	if err != nil {
		return "", nil, err
	}
	query, err = wherein.Rebind(query, d.Placeholder)
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// bindNamed replaces each named parameter in query with a positional
// placeholder and returns the parameter values in order.
func bindNamed(query string, params Params) (string, []interface{}, error) {
	var sb strings.Builder
	var args []interface{}
	scan := scanner.New(strings.NewReader(query))
	for scan.Scan() {
		if scan.Token() == scanner.NAMED {
			name := scan.Text()[1:]
			value, ok := params[name]
			if !ok {
				return "", nil, errors.New("missing parameter").With("name", name)
			}
			args = append(args, value)
			sb.WriteString("?")
			continue
		}
		sb.WriteString(scan.Text())
	}
	if err := scan.Err(); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func (t *Template) resolve() {
	if t.seq == t.builder.seq {
		return
	}

	params := make(Params, len(t.params))
	for k, v := range t.params {
		params[k] = v
	}
	replacements := make(map[string]string, len(t.builder.names))
	for _, name := range t.builder.names {
		replacements[name] = t.builder.clauses[name].resolve(params)
	}

	var sb strings.Builder
	scan := scanner.New(strings.NewReader(t.sql))
	for scan.Scan() {
		if scan.Token() == scanner.COMMENT {
			if match := markerRE.FindStringSubmatch(scan.Text()); match != nil {
				sb.WriteString(replacements[match[1]])
				continue
			}
		}
		sb.WriteString(scan.Text())
	}

	t.rawSQL = sb.String()
	t.resolved = params
	t.err = scan.Err()
	t.seq = t.builder.seq
}
