package crud

import (
	"reflect"
)

// A SchemaOption provides optional configuration and is supplied when
// creating a new Schema.
type SchemaOption func(schema *Schema)

// WithDialect provides an option that sets the schema's dialect.
func WithDialect(dialect Dialect) SchemaOption {
	return func(schema *Schema) {
		if dialect != nil {
			schema.dialect = dialect
		}
	}
}

// WithNamingConvention creates an option that sets the schema's naming convention.
func WithNamingConvention(convention NamingConvention) SchemaOption {
	return func(schema *Schema) {
		if convention != nil {
			schema.convention = convention
		}
	}
}

// WithLogger creates an option that logs every SQL statement
// executed, along with its arguments.
func WithLogger(logger Logger) SchemaOption {
	return func(schema *Schema) {
		schema.logger = logger
	}
}

// WithSchemaAdapter creates an option that sets the adapter used to
// insert rows and retrieve generated keys. If not set, the adapter is
// chosen based on the dialect.
func WithSchemaAdapter(adapter Adapter) SchemaOption {
	return func(schema *Schema) {
		schema.adapter = adapter
	}
}

// WithTableName creates an option that sets the table name for a row type.
// The row can be a struct value, a pointer to a struct, a reflect.Type, or a
// nil pointer to an interface, for example:
//
//	crud.WithTableName((*Car)(nil), "Automobiles")
//
// A table name set with this option takes precedence over all other
// ways of determining the table name.
func WithTableName(row interface{}, tableName string) SchemaOption {
	return func(schema *Schema) {
		rowType, ok := row.(reflect.Type)
		if !ok {
			rowType = reflect.TypeOf(row)
		}
		if rowType == nil {
			return
		}
		for rowType.Kind() == reflect.Ptr {
			rowType = rowType.Elem()
		}
		schema.setTableName(rowType.String(), tableName)
	}
}

// WithTableNameFunc creates an option that determines table names using f.
// The function is called with the struct type, or the interface type for
// proxies. If f returns a blank string the naming convention is used.
func WithTableNameFunc(f func(rowType reflect.Type) string) SchemaOption {
	return func(schema *Schema) {
		schema.tableFunc = f
	}
}

// WithConfig creates an option that applies the settings in cfg.
// Use LoadConfig to report problems with a configuration: an invalid
// configuration is ignored by this option.
func WithConfig(cfg *Config) SchemaOption {
	return func(schema *Schema) {
		if cfg == nil || cfg.validate() != nil {
			return
		}
		for _, opt := range cfg.options() {
			opt(schema)
		}
	}
}

func (s *Schema) setTableName(typeName string, tableName string) {
	if s.tableNames == nil {
		s.tableNames = make(map[string]string)
	}
	s.tableNames[typeName] = tableName
}
