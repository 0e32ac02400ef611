// Package codegen generates proxy types for interfaces that are
// used as row types.
//
// An interface is marked for proxy generation with a comment directive:
//
//	//crud:proxy table=Automobiles
//	type ICar interface {
//		ID() int // sql:"key"
//		Name() string
//		SetName(string)
//	}
//
// Each method with no parameters and one result is a getter, and
// describes a column. A method named Set<Getter> with a single parameter
// of the same type is its setter. Struct tags for a column are given in
// the trailing comment of its getter.
package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jjeffery/errors"
)

// directive marks an interface for proxy generation.
const directive = "crud:proxy"

// crudImportPath is always imported by generated code.
const crudImportPath = `"github.com/jjeffery/crud"`

// reserved method names are implemented by every proxy.
var reserved = map[string]bool{
	"IsDirty":   true,
	"SetDirty":  true,
	"TableName": true,
}

// DefaultOutput returns the default filename for generated output
// given the filename of the input file.
func DefaultOutput(filename string) string {
	if filename == "" {
		return ""
	}
	output := strings.TrimSuffix(filename, filepath.Ext(filename))
	output = output + "_crud.go"
	return output
}

// Model contains all of the information required by the template
// to generate code.
type Model struct {
	CommandLine string
	Package     string
	Imports     []*Import
	Proxies     []*Proxy
}

// Import describes a single import line required for the generated file.
type Import struct {
	Name string // Local name, or blank
	Path string // Quoted import path
}

func (imp *Import) String() string {
	if imp.Name != "" {
		return fmt.Sprintf("%s %s", imp.Name, imp.Path)
	}
	return imp.Path
}

// Proxy contains all the information the template needs
// to generate a proxy for an interface.
type Proxy struct {
	Interface   string   // Name of the interface, eg ICar
	Name        string   // Proxy struct, eg carProxy
	FieldsName  string   // Struct holding column values, eg carProxyFields
	Constructor string   // Function returning a new proxy, eg newCarProxy
	Register    string   // Function registering the proxy, eg RegisterCarProxy
	TableName   string   // Quoted table name, or blank
	Fields      []*Field // One per getter
}

// Field describes a column of a proxy.
type Field struct {
	Name   string // Getter and field name
	Type   string
	Tag    string // Struct tag in back quotes, or blank
	Setter string // Setter method name, or blank if read-only
}

// Parse the file and build the model, which can be used to
// generate the code.
func Parse(filename string) (*Model, error) {
	return parse(filename, nil)
}

// parse the file, reading from src if it is not nil.
func parse(filename string, src interface{}) (*Model, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse file").With(
			"filename", filename,
		)
	}

	model := &Model{
		Package: file.Name.Name,
	}
	ir, err := newImportResolver(file.Imports)
	if err != nil {
		return nil, err
	}

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			args, ok := findDirective(doc)
			if !ok {
				continue
			}
			ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				return nil, errors.New("proxy type must be an interface").With(
					"type", typeSpec.Name.Name,
				)
			}
			proxy, err := newProxy(ir, typeSpec.Name.Name, ifaceType, args)
			if err != nil {
				return nil, err
			}
			model.Proxies = append(model.Proxies, proxy)
		}
	}
	model.Imports = ir.Imports()

	return model, nil
}

// findDirective returns the arguments of the proxy directive
// in the comment group, if present.
func findDirective(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, comment := range doc.List {
		text := strings.TrimPrefix(comment.Text, "//")
		if text == directive {
			return "", true
		}
		if strings.HasPrefix(text, directive+" ") {
			return strings.TrimSpace(strings.TrimPrefix(text, directive)), true
		}
	}
	return "", false
}

func newProxy(ir *importResolver, ifaceName string, ifaceType *ast.InterfaceType, args string) (*Proxy, error) {
	baseName := trimInterfacePrefix(ifaceName)
	proxy := &Proxy{
		Interface: ifaceName,
	}

	for _, arg := range strings.Fields(args) {
		key, value, _ := strings.Cut(arg, "=")
		switch key {
		case "table":
			if value == "" {
				return nil, errors.New("missing table name").With(
					"interface", ifaceName,
				)
			}
			proxy.TableName = strconv.Quote(value)
		case "name":
			if !token.IsIdentifier(value) {
				return nil, errors.New("invalid proxy name").With(
					"interface", ifaceName,
					"name", value,
				)
			}
			baseName = value
		default:
			return nil, errors.New("unknown directive argument").With(
				"interface", ifaceName,
				"arg", arg,
			)
		}
	}

	proxy.Name = lowerFirst(baseName) + "Proxy"
	proxy.FieldsName = proxy.Name + "Fields"
	proxy.Constructor = "new" + upperFirst(baseName) + "Proxy"
	proxy.Register = "Register" + upperFirst(baseName) + "Proxy"

	type setter struct {
		name     string
		typeName string
	}
	var setters []setter

	for _, method := range ifaceType.Methods.List {
		if len(method.Names) == 0 {
			return nil, errors.New("embedded interfaces are not supported").With(
				"interface", ifaceName,
			)
		}
		funcType, ok := method.Type.(*ast.FuncType)
		if !ok {
			return nil, errors.New("unexpected method type").With(
				"interface", ifaceName,
			)
		}
		name := method.Names[0].Name
		if reserved[name] {
			return nil, errors.New("method name is reserved").With(
				"interface", ifaceName,
				"method", name,
			)
		}
		if !ast.IsExported(name) {
			return nil, errors.New("method must be exported").With(
				"interface", ifaceName,
				"method", name,
			)
		}
		params, results := fieldTypes(funcType.Params), fieldTypes(funcType.Results)
		switch {
		case len(params) == 0 && len(results) == 1:
			typeName, err := ir.typeString(results[0])
			if err != nil {
				return nil, errors.Wrap(err, "unsupported column type").With(
					"interface", ifaceName,
					"method", name,
				)
			}
			tag, err := tagFromComment(method.Comment)
			if err != nil {
				return nil, errors.Wrap(err, "invalid struct tag").With(
					"interface", ifaceName,
					"method", name,
				)
			}
			proxy.Fields = append(proxy.Fields, &Field{
				Name: name,
				Type: typeName,
				Tag:  tag,
			})
		case len(params) == 1 && len(results) == 0 && strings.HasPrefix(name, "Set"):
			typeName, err := ir.typeString(params[0])
			if err != nil {
				return nil, errors.Wrap(err, "unsupported column type").With(
					"interface", ifaceName,
					"method", name,
				)
			}
			setters = append(setters, setter{name: name, typeName: typeName})
		default:
			return nil, errors.New("method is not a getter or setter").With(
				"interface", ifaceName,
				"method", name,
			)
		}
	}

	for _, set := range setters {
		field := proxy.field(strings.TrimPrefix(set.name, "Set"))
		if field == nil {
			return nil, errors.New("setter has no matching getter").With(
				"interface", ifaceName,
				"method", set.name,
			)
		}
		if field.Type != set.typeName {
			return nil, errors.New("setter type does not match getter").With(
				"interface", ifaceName,
				"method", set.name,
				"getterType", field.Type,
				"setterType", set.typeName,
			)
		}
		field.Setter = set.name
	}

	if len(proxy.Fields) == 0 {
		return nil, errors.New("interface has no getters").With(
			"interface", ifaceName,
		)
	}

	return proxy, nil
}

func (p *Proxy) field(name string) *Field {
	for _, f := range p.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// fieldTypes returns one type expression per parameter or result.
func fieldTypes(list *ast.FieldList) []ast.Expr {
	if list == nil {
		return nil
	}
	var types []ast.Expr
	for _, field := range list.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			types = append(types, field.Type)
		}
	}
	return types
}

// tagFromComment returns the struct tag in a getter's trailing
// comment, in back quotes. The comment can contain the tag
// with or without the back quotes.
func tagFromComment(comment *ast.CommentGroup) (string, error) {
	if comment == nil {
		return "", nil
	}
	text := strings.TrimSpace(comment.Text())
	if text == "" {
		return "", nil
	}
	if strings.HasPrefix(text, "`") {
		end := strings.Index(text[1:], "`")
		if end < 0 {
			return "", errors.New("unterminated struct tag")
		}
		text = text[1 : end+1]
	}
	if !strings.Contains(text, `:"`) {
		// an ordinary comment
		return "", nil
	}
	if strings.Contains(text, "`") {
		return "", errors.New("struct tag cannot contain back quotes")
	}
	tag := reflect.StructTag(text)
	if _, ok := tag.Lookup("sql"); !ok {
		if _, ok := tag.Lookup("db"); !ok {
			return "", nil
		}
	}
	return "`" + text + "`", nil
}

// trimInterfacePrefix removes the conventional "I" prefix from
// an interface name, so "ICar" becomes "Car".
func trimInterfacePrefix(name string) string {
	if !strings.HasPrefix(name, "I") {
		return name
	}
	next, _ := utf8.DecodeRuneInString(name[1:])
	if unicode.IsUpper(next) {
		return name[1:]
	}
	return name
}

// lowerFirst converts the leading upper case letters to lower case,
// so "Car" becomes "car" and "URLLink" becomes "urllink".
func lowerFirst(s string) string {
	var sb strings.Builder
	metLower := false
	for _, ch := range s {
		if !metLower && unicode.IsUpper(ch) {
			sb.WriteRune(unicode.ToLower(ch))
			continue
		}
		metLower = true
		sb.WriteRune(ch)
	}
	return sb.String()
}

func upperFirst(s string) string {
	ch, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(ch)) + s[n:]
}
