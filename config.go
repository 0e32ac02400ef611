package crud

import (
	"io"
	"os"
	"strings"

	"github.com/jjeffery/crud/private/naming"
	"github.com/jjeffery/errors"
	"gopkg.in/yaml.v3"
)

// Config contains schema configuration that can be loaded from
// a YAML file, for example:
//
//	dialect: postgres
//	naming: snake
//	pluralize: inflect
//	tables:
//	  Car: automobiles
//	  Person: staff
//
// Keys in the tables map are the Go type name, optionally qualified
// with the package name (eg "models.Car").
type Config struct {
	Dialect   string            `yaml:"dialect"`
	Naming    string            `yaml:"naming"`
	Pluralize string            `yaml:"pluralize"`
	Tables    map[string]string `yaml:"tables"`

	dialect    Dialect
	convention NamingConvention
}

// LoadConfig reads YAML configuration from r.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads YAML configuration from the named file.
func LoadConfigFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open config").With("file", filename)
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load config").With("file", filename)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Dialect != "" {
		cfg.dialect = DialectFor(cfg.Dialect)
		if cfg.dialect == nil {
			return errors.New("unknown dialect").With("dialect", cfg.Dialect)
		}
	}

	var nc NamingConvention
	if cfg.Naming != "" {
		c, ok := naming.ForName(cfg.Naming)
		if !ok {
			return errors.New("unknown naming convention").With("naming", cfg.Naming)
		}
		nc = c
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Pluralize)) {
	case "", "suffix":
		cfg.convention = nc
	case "inflect":
		if nc == nil {
			nc = SameCase
		}
		cfg.convention = Inflect(nc)
	default:
		return errors.New("unknown pluralize option").With("pluralize", cfg.Pluralize)
	}

	for typeName, tableName := range cfg.Tables {
		if strings.TrimSpace(tableName) == "" {
			return errors.New("missing table name").With("type", typeName)
		}
	}
	return nil
}

func (cfg *Config) options() []SchemaOption {
	var opts []SchemaOption
	if cfg.dialect != nil {
		opts = append(opts, WithDialect(cfg.dialect))
	}
	if cfg.convention != nil {
		opts = append(opts, WithNamingConvention(cfg.convention))
	}
	if len(cfg.Tables) > 0 {
		opts = append(opts, func(schema *Schema) {
			for typeName, tableName := range cfg.Tables {
				schema.setTableName(typeName, tableName)
			}
		})
	}
	return opts
}
