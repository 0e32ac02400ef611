package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jjeffery/errors"
)

var versionRE = regexp.MustCompile(`^v[0-9]+$`)

// importResolver keeps track of the imports of the input file that
// are referenced by the types of the generated fields.
type importResolver struct {
	packages map[string]*ast.ImportSpec
	used     map[string]*Import
}

func newImportResolver(imports []*ast.ImportSpec) (*importResolver, error) {
	resolver := &importResolver{
		packages: make(map[string]*ast.ImportSpec),
		used:     make(map[string]*Import),
	}

	for _, importSpec := range imports {
		path, err := strconv.Unquote(importSpec.Path.Value)
		if err != nil {
			return nil, errors.Wrap(err, "invalid import path").With(
				"path", importSpec.Path.Value,
			)
		}
		name := packageName(path)
		if importSpec.Name != nil {
			name = importSpec.Name.Name
		}
		switch name {
		case ".":
			return nil, fmt.Errorf("dot imports are not supported: . %v", importSpec.Path.Value)
		case "_":
			continue
		}
		resolver.packages[name] = importSpec
	}
	return resolver, nil
}

// packageName guesses the package name from the import path. Packages
// whose name cannot be guessed need a named import in the input file.
func packageName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if versionRE.MatchString(name) && len(parts) > 1 {
		name = parts[len(parts)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && versionRE.MatchString(name[i+1:]) {
		// gopkg.in/yaml.v3
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	name = strings.TrimSuffix(name, ".go")
	return strings.ReplaceAll(name, "-", "")
}

// Resolve marks the package with the local name as used.
func (r *importResolver) Resolve(name string) (*Import, error) {
	if imp, ok := r.used[name]; ok {
		return imp, nil
	}

	importSpec, ok := r.packages[name]
	if !ok {
		return nil, errors.New("unknown package").With(
			"selector", name,
		)
	}
	imp := &Import{
		Path: importSpec.Path.Value,
	}
	if importSpec.Name != nil {
		imp.Name = importSpec.Name.Name
	}
	r.used[name] = imp
	return imp, nil
}

// typeString returns the source text for a type expression, resolving
// any package selectors.
func (r *importResolver) typeString(t ast.Expr) (string, error) {
	switch v := t.(type) {
	case *ast.Ident:
		return v.Name, nil
	case *ast.ParenExpr:
		s, err := r.typeString(v.X)
		return "(" + s + ")", err
	case *ast.SelectorExpr:
		pkg, ok := v.X.(*ast.Ident)
		if !ok {
			return "", errors.New("unexpected selector")
		}
		if _, err := r.Resolve(pkg.Name); err != nil {
			return "", err
		}
		return pkg.Name + "." + v.Sel.Name, nil
	case *ast.StarExpr:
		s, err := r.typeString(v.X)
		return "*" + s, err
	case *ast.ArrayType:
		elem, err := r.typeString(v.Elt)
		if err != nil {
			return "", err
		}
		if v.Len == nil {
			return "[]" + elem, nil
		}
		lit, ok := v.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return "", errors.New("array length must be an integer literal")
		}
		return "[" + lit.Value + "]" + elem, nil
	case *ast.MapType:
		key, err := r.typeString(v.Key)
		if err != nil {
			return "", err
		}
		value, err := r.typeString(v.Value)
		if err != nil {
			return "", err
		}
		return "map[" + key + "]" + value, nil
	case *ast.IndexExpr:
		// generic type with one type argument, eg sql.Null[int]
		base, err := r.typeString(v.X)
		if err != nil {
			return "", err
		}
		arg, err := r.typeString(v.Index)
		if err != nil {
			return "", err
		}
		return base + "[" + arg + "]", nil
	case *ast.IndexListExpr:
		base, err := r.typeString(v.X)
		if err != nil {
			return "", err
		}
		args := make([]string, len(v.Indices))
		for i, index := range v.Indices {
			if args[i], err = r.typeString(index); err != nil {
				return "", err
			}
		}
		return base + "[" + strings.Join(args, ", ") + "]", nil
	}
	return "", errors.New("unsupported type expression").With(
		"type", fmt.Sprintf("%T", t),
	)
}

// Imports returns the imports used, sorted by path. The crud package
// is excluded because generated code always imports it.
func (r *importResolver) Imports() []*Import {
	var imports []*Import
	for _, imp := range r.used {
		if imp.Path == crudImportPath && imp.Name == "" {
			continue
		}
		imports = append(imports, imp)
	}
	sort.Slice(imports, func(i, j int) bool {
		return imports[i].Path < imports[j].Path
	})
	return imports
}
