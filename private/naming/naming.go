// Package naming provides naming conventions used to convert
// Go struct field and type names to database column and table names.
package naming

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// Instances of the different naming conventions
var (
	SnakeCase SnakeCaseConvention
	LowerCase LowerCaseConvention
	SameCase  SameCaseConvention
)

// Convention is implemented by all naming conventions in this package.
type Convention interface {
	Convert(name string) string
	TableName(typeName string) string
}

// pluralSuffix is appended to type names to form table names.
const pluralSuffix = "s"

// SnakeCaseConvention converts Go struct fields into "snake_case".
// So the field name "UserID" would be converted to "user_id".
type SnakeCaseConvention struct{}

// Convert converts fieldName into snake_case.
func (sc SnakeCaseConvention) Convert(name string) string {
	runes := []rune(name)
	n := len(runes)
	var buf bytes.Buffer

	for i := 0; i < n; i++ {
		if i > 0 && unicode.IsUpper(runes[i]) && ((i+1 < n && unicode.IsLower(runes[i+1])) || unicode.IsLower(runes[i-1])) {
			buf.WriteRune('_')
		}
		buf.WriteRune(unicode.ToLower(runes[i]))
	}

	return buf.String()
}

// TableName converts typeName to snake_case and appends the plural suffix.
func (sc SnakeCaseConvention) TableName(typeName string) string {
	return sc.Convert(typeName) + pluralSuffix
}

// LowerCaseConvention converts names to lower case.
type LowerCaseConvention struct{}

// Convert converts the field name to lower case.
func (lc LowerCaseConvention) Convert(fieldName string) string {
	return strings.ToLower(fieldName)
}

// TableName converts typeName to lower case and appends the plural suffix.
func (lc LowerCaseConvention) TableName(typeName string) string {
	return lc.Convert(typeName) + pluralSuffix
}

// SameCaseConvention does not alter names.
type SameCaseConvention struct{}

// Convert returns fieldName unchanged.
func (sc SameCaseConvention) Convert(fieldName string) string {
	return fieldName
}

// TableName appends the plural suffix to typeName. So "Car"
// becomes "Cars".
func (sc SameCaseConvention) TableName(typeName string) string {
	return typeName + pluralSuffix
}

// InflectConvention wraps another convention, and pluralizes
// table names using English inflection rules, so "Person"
// becomes "People" rather than "Persons".
type InflectConvention struct {
	Convention
}

// Inflect returns a convention that converts names the same way as nc,
// but pluralizes table names using inflection rules.
func Inflect(nc Convention) InflectConvention {
	return InflectConvention{Convention: nc}
}

// TableName converts typeName and pluralizes the result.
func (ic InflectConvention) TableName(typeName string) string {
	return inflect.Pluralize(ic.Convert(typeName))
}

// ForName returns the convention with the given name ("snake",
// "lower" or "same"), and false if the name is not known.
func ForName(name string) (Convention, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "snake", "snake_case", "snakecase":
		return SnakeCase, true
	case "lower", "lowercase", "lower_case":
		return LowerCase, true
	case "same", "samecase", "same_case":
		return SameCase, true
	}
	return nil, false
}
