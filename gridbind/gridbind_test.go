package gridbind

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/datagrid/datagrid"
	"github.com/magpierre/datagrid/grid"
)

func newGrid() *grid.Grid {
	cfg := grid.DefaultConfig()
	cfg.Columns = []datagrid.Column{
		{Name: "id", Label: "ID", Type: datagrid.TypeInt},
		{Name: "name", Label: "Name"},
	}
	cfg.Data = []datagrid.Row{
		{"id": 1, "name": "apple"},
		{"id": 2, "name": "banana"},
		{"id": 3, "name": "cherry"},
	}
	return grid.New(cfg, grid.WithLogger(zerolog.Nop()))
}

func TestAttach(t *testing.T) {
	test.NewTempApp(t)
	g := newGrid()
	p := Attach(g)

	count, err := p.VisibleCount.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	g.SetFilter(datagrid.Criterion{Label: "Name", Value: "an"})
	g.SelectToggle(datagrid.All)
	g.SetOrder(datagrid.OrderSpec{Key: "id", Forward: false})

	count, err = p.VisibleCount.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	value, err := p.FilterValue.Get()
	require.NoError(t, err)
	assert.Equal(t, "an", value)

	label, err := p.FilterLabel.Get()
	require.NoError(t, err)
	assert.Equal(t, "Name", label)

	all, err := p.SelectAll.Get()
	require.NoError(t, err)
	assert.True(t, all)

	selected, err := p.Selected.Get()
	require.NoError(t, err)
	assert.Equal(t, []any{2}, selected)

	key, err := p.OrderKey.Get()
	require.NoError(t, err)
	assert.Equal(t, "id", key)

	forward, err := p.Forward.Get()
	require.NoError(t, err)
	assert.False(t, forward)

	total, err := p.Total.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	row, err := p.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "banana", row["name"])

	_, err = p.Row(5)
	require.Error(t, err)
}

func TestPublisher_DropsStaleSnapshots(t *testing.T) {
	test.NewTempApp(t)
	p := NewPublisher()

	require.NoError(t, p.Publish(grid.Snapshot{Generation: 5, Total: 5}))
	require.NoError(t, p.Publish(grid.Snapshot{Generation: 4, Total: 4}))

	total, err := p.Total.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestHeadColorName(t *testing.T) {
	tests := map[string]struct {
		tone     datagrid.HeadTone
		expected string
	}{
		"active":  {tone: datagrid.HeadActive, expected: string(theme.ColorNameSelection)},
		"success": {tone: datagrid.HeadSuccess, expected: string(theme.ColorNameSuccess)},
		"info":    {tone: datagrid.HeadInfo, expected: string(theme.ColorNamePrimary)},
		"warning": {tone: datagrid.HeadWarning, expected: string(theme.ColorNameWarning)},
		"danger":  {tone: datagrid.HeadDanger, expected: string(theme.ColorNameError)},
		"unknown": {tone: "loud", expected: string(theme.ColorNameSelection)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(HeadColorName(tc.tone)))
		})
	}
}

func TestTheme(t *testing.T) {
	plain := NewTheme(datagrid.DefaultStyle())
	assert.True(t, plain.Has(datagrid.TagBordered))
	assert.False(t, plain.Has(datagrid.TagStriped))
	assert.Equal(t, color.Transparent, plain.Color(ColorNameStripe, theme.VariantLight))
	assert.Equal(t, float32(8), plain.Size(theme.SizeNamePadding))
	assert.Equal(t, float32(1), plain.Size(theme.SizeNameSeparatorThickness))
	assert.Equal(t,
		plain.Color(theme.ColorNameSelection, theme.VariantDark),
		plain.Color(theme.ColorNameHeaderBackground, theme.VariantDark))

	style := datagrid.StyleFlags{Table: []string{"striped", "condensed"}, Head: datagrid.HeadDanger}
	dense := NewTheme(style)
	assert.NotEqual(t, color.Transparent, dense.Color(ColorNameStripe, theme.VariantLight))
	assert.Equal(t, float32(2), dense.Size(theme.SizeNamePadding))
	assert.Equal(t, float32(0), dense.Size(theme.SizeNameSeparatorThickness))
	assert.Equal(t,
		dense.Color(theme.ColorNameError, theme.VariantLight),
		dense.Color(theme.ColorNameHeaderBackground, theme.VariantLight))
}
