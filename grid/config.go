package grid

import (
	"github.com/magpierre/datagrid/datagrid"
)

// Pages configures pagination.
type Pages struct {
	// Limit is the number of rows per page.
	Limit int
}

// RowOverride carries per-row display settings for the presentation layer.
// The grid passes overrides through untouched.
type RowOverride map[string]any

// Config holds the inputs of a grid.
type Config struct {
	// Columns is the ordered list of column descriptors.
	Columns []datagrid.Column
	// Rows holds per-row display overrides.
	Rows []RowOverride
	// Data is the initial dataset.
	Data []datagrid.Row
	// Pages enables pagination when non-nil.
	Pages *Pages
	// RenderKey names the identity field. Ignored when Key is set.
	RenderKey string
	// Key extracts the identity of a row.
	Key datagrid.KeyFunc
	// Selection enables the selection controls.
	Selection bool
	// EnableFilter enables the filter controls.
	EnableFilter bool
	// HasFooter shows the footer even without pagination.
	HasFooter bool
	// Style holds the style switches mapped by StyleTags.
	Style datagrid.StyleFlags
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	return Config{
		RenderKey: datagrid.DefaultKeyField,
		HasFooter: true,
		Style:     datagrid.DefaultStyle(),
	}
}

func (c Config) keyFunc() datagrid.KeyFunc {
	if c.Key != nil {
		return c.Key
	}
	if c.RenderKey != "" {
		return datagrid.FieldKey(c.RenderKey)
	}
	return datagrid.FieldKey(datagrid.DefaultKeyField)
}

func (c Config) pageLimit() int {
	if c.Pages == nil {
		return 0
	}
	return c.Pages.Limit
}

// Layout tells the presentation layer which sections to show.
type Layout struct {
	// Header holds the filter box and selection summary.
	Header bool
	// Footer holds the pager.
	Footer bool
}
