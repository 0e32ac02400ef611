package crud

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	const text = `
dialect: postgres
naming: snake
pluralize: inflect
tables:
  Widget: gadgets
  crud.Note: memos
`
	cfg, err := LoadConfig(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, map[string]string{"Widget": "gadgets", "crud.Note": "memos"}, cfg.Tables)

	s := NewSchema(WithConfig(cfg))
	assert.Equal(t, Postgres, s.Dialect())

	tests := []struct {
		row  interface{}
		want string
	}{
		{Widget{}, "gadgets"},
		{Note{}, "memos"},
		{Person{}, "people"},
		{LineItem{}, "line_items"},
	}
	for _, tt := range tests {
		tbl, err := s.TableFor(tt.row)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tbl.Name())
	}

	tbl, err := s.TableFor(Widget{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "price", "updated"}, columnNames(tbl.Columns()))
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)

	s := NewSchema(WithConfig(cfg))
	assert.Equal(t, ANSISQL, s.Dialect())
	assert.Equal(t, SameCase, s.NamingConvention())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"dialect: oracle", "unknown dialect"},
		{"naming: kebab", "unknown naming convention"},
		{"pluralize: latin", "unknown pluralize option"},
		{"tables:\n  Widget: ''", "missing table name"},
		{"colour: red", "cannot parse config"},
		{"dialect: [", "cannot parse config"},
	}
	for _, tt := range tests {
		_, err := LoadConfig(strings.NewReader(tt.text))
		if assert.Error(t, err, tt.text) {
			assert.Contains(t, err.Error(), tt.want, tt.text)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "crud.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("dialect: mssql\n"), 0o600))

	cfg, err := LoadConfigFile(filename)
	require.NoError(t, err)
	assert.Equal(t, MSSQL, NewSchema(WithConfig(cfg)).Dialect())

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWithConfigInvalid(t *testing.T) {
	s := NewSchema(WithConfig(&Config{Dialect: "oracle"}), WithConfig(nil))
	assert.Equal(t, ANSISQL, s.Dialect())
}
