package codegen

import (
	"bytes"
	"go/format"
	"io"
	"text/template"

	"github.com/jjeffery/errors"
)

// Generate writes the formatted source for the model to w.
func Generate(w io.Writer, model *Model) error {
	var buf bytes.Buffer
	if err := DefaultTemplate.Execute(&buf, model); err != nil {
		return errors.Wrap(err, "cannot execute template")
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "cannot format generated output")
	}
	_, err = w.Write(formatted)
	return err
}

// DefaultTemplate is the template for generated proxies.
var DefaultTemplate = template.Must(template.New("proxies").Parse(`// Code generated by "{{.CommandLine}}"; DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}

	"github.com/jjeffery/crud"
)
{{range .Proxies}}{{$proxy := .}}
// {{.FieldsName}} contains the column values of a {{.Name}}.
type {{.FieldsName}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}} {{.Tag}}
{{- end}}
}

// {{.Name}} implements {{.Interface}} and crud.Tracked.
type {{.Name}} struct {
	{{.FieldsName}}
	dirty bool
}

// {{.Constructor}} returns a new, empty {{.Interface}}.
func {{.Constructor}}() {{.Interface}} {
	return &{{.Name}}{}
}

// {{.Register}} registers the proxy for {{.Interface}} with
// schema, so that {{.Interface}} can be used as a row type.
func {{.Register}}(schema *crud.Schema) error {
	return crud.RegisterProxy[{{.Interface}}](schema, {{.Constructor}})
}
{{range .Fields}}
func (p *{{$proxy.Name}}) {{.Name}}() {{.Type}} {
	return p.{{$proxy.FieldsName}}.{{.Name}}
}
{{if .Setter}}
func (p *{{$proxy.Name}}) {{.Setter}}(v {{.Type}}) {
	p.{{$proxy.FieldsName}}.{{.Name}} = v
	p.dirty = true
}
{{end}}{{end}}
// IsDirty reports whether any setter has been called since
// the proxy was last marked clean.
func (p *{{.Name}}) IsDirty() bool {
	return p.dirty
}

// SetDirty sets the dirty flag.
func (p *{{.Name}}) SetDirty(dirty bool) {
	p.dirty = dirty
}
{{if .TableName}}
// TableName returns the name of the table for {{.Interface}}.
func (p *{{.Name}}) TableName() string {
	return {{.TableName}}
}
{{end}}{{end}}`))
