// Package config loads grid and data source settings from files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/magpierre/datagrid/datagrid"
	"github.com/magpierre/datagrid/grid"
)

// ErrInvalidConfig is returned when a setting has an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source kinds.
const (
	SourceNone         = ""
	SourceFile         = "file"
	SourceSQLite       = "sqlite"
	SourceDeltaSharing = "deltasharing"
)

// Config holds the settings of one grid.
type Config struct {
	Grid    GridConfig
	Style   StyleConfig
	Columns []ColumnConfig
	Source  SourceConfig
}

// GridConfig holds behaviour switches.
type GridConfig struct {
	RenderKey    string `mapstructure:"render_key"`
	PageLimit    int    `mapstructure:"page_limit"`
	Selection    bool
	EnableFilter bool `mapstructure:"enable_filter"`
	HasFooter    bool `mapstructure:"has_footer"`
}

// StyleConfig holds presentation flags.
type StyleConfig struct {
	Table     []string
	Head      string
	ClassName string `mapstructure:"class_name"`
	Prefix    string
}

// ColumnConfig describes one column. Type is a datagrid type name such as
// "Int" or "String"; empty leaves it to the source.
type ColumnConfig struct {
	Name  string
	Label string
	Type  string
}

// SourceConfig says where rows come from.
type SourceConfig struct {
	Kind     string
	Path     string
	Table    string
	Profile  string
	FileID   string `mapstructure:"file_id"`
	JSONPath string `mapstructure:"json_path"`
	Timeout  time.Duration
}

// Load reads configuration from path, or from DATAGRID_CONFIG, or from
// datagrid.{toml,yaml,json} in the working directory. Env var overrides use
// prefix DATAGRID_. A missing file is only an error when a path was given.
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := grid.DefaultConfig()
	v.SetDefault("grid.render_key", defaults.RenderKey)
	v.SetDefault("grid.page_limit", 0)
	v.SetDefault("grid.selection", defaults.Selection)
	v.SetDefault("grid.enable_filter", defaults.EnableFilter)
	v.SetDefault("grid.has_footer", defaults.HasFooter)
	v.SetDefault("style.table", defaults.Style.Table)
	v.SetDefault("style.head", string(defaults.Style.Head))
	v.SetDefault("style.class_name", defaults.Style.ClassName)
	v.SetDefault("style.prefix", defaults.Style.Prefix)
	v.SetDefault("source.kind", SourceNone)
	v.SetDefault("source.path", "")
	v.SetDefault("source.table", "")
	v.SetDefault("source.profile", "")
	v.SetDefault("source.file_id", "")
	v.SetDefault("source.json_path", "")
	v.SetDefault("source.timeout", grid.DefaultLoadTimeout)

	if path == "" {
		path = os.Getenv("DATAGRID_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("datagrid")
	}

	v.SetEnvPrefix("DATAGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that cannot be mapped onto a grid.
func (c Config) Validate() error {
	if c.Grid.PageLimit < 0 {
		return fmt.Errorf("%w: grid.page_limit %d is negative", ErrInvalidConfig, c.Grid.PageLimit)
	}
	switch c.Source.Kind {
	case SourceNone, SourceFile, SourceSQLite, SourceDeltaSharing:
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	for i, col := range c.Columns {
		if col.Name == "" {
			return fmt.Errorf("%w: columns[%d] has no name", ErrInvalidConfig, i)
		}
		if _, ok := parseDataType(col.Type); !ok {
			return fmt.Errorf("%w: columns[%d] has unknown type %q", ErrInvalidConfig, i, col.Type)
		}
	}
	return nil
}

// GridConfig maps the settings onto a grid configuration. Data is left empty.
func (c Config) GridConfig() grid.Config {
	cfg := grid.DefaultConfig()
	cfg.RenderKey = c.Grid.RenderKey
	cfg.Selection = c.Grid.Selection
	cfg.EnableFilter = c.Grid.EnableFilter
	cfg.HasFooter = c.Grid.HasFooter
	if c.Grid.PageLimit > 0 {
		cfg.Pages = &grid.Pages{Limit: c.Grid.PageLimit}
	}
	cfg.Style = datagrid.StyleFlags{
		Table:     c.Style.Table,
		Head:      datagrid.HeadTone(c.Style.Head),
		ClassName: c.Style.ClassName,
		Prefix:    c.Style.Prefix,
	}
	cfg.Columns = c.columns()
	return cfg
}

func (c Config) columns() []datagrid.Column {
	if len(c.Columns) == 0 {
		return nil
	}
	columns := make([]datagrid.Column, len(c.Columns))
	for i, col := range c.Columns {
		label := col.Label
		if label == "" {
			label = col.Name
		}
		t, _ := parseDataType(col.Type)
		columns[i] = datagrid.Column{Name: col.Name, Label: label, Type: t}
	}
	return columns
}

func parseDataType(name string) (datagrid.DataType, bool) {
	if name == "" {
		return datagrid.TypeString, true
	}
	for t := datagrid.TypeString; t <= datagrid.TypeList; t++ {
		if strings.EqualFold(name, t.String()) {
			return t, true
		}
	}
	return datagrid.TypeString, false
}
