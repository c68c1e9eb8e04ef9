package grid

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/magpierre/datagrid/datagrid"
)

func numeric(a, b any) datagrid.Ordering {
	x, y := a.(int), b.(int)
	switch {
	case x < y:
		return datagrid.Less
	case x > y:
		return datagrid.Greater
	}
	return datagrid.Equal
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Columns = []datagrid.Column{
		{Name: "id", Label: "ID", Type: datagrid.TypeInt},
		{Name: "name", Label: "Name", Type: datagrid.TypeString},
	}
	cfg.Data = []datagrid.Row{
		{"id": 3, "name": "carrot"},
		{"id": 1, "name": "apple"},
		{"id": 2, "name": "banana"},
	}
	cfg.Pages = &Pages{Limit: 10}
	cfg.Selection = true
	cfg.EnableFilter = true
	return cfg
}

func newTestGrid(cfg Config, opts ...Option) *Grid {
	return New(cfg, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func ids(rows []datagrid.Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	g := newTestGrid(testConfig())
	s := g.Snapshot()

	assert.False(t, s.SelectAll)
	assert.Empty(t, s.Selected)
	assert.Equal(t, datagrid.Criterion{}, s.Criterion)
	assert.Equal(t, "", s.Order.Key)
	assert.True(t, s.Order.Forward)
	assert.Equal(t, []any{3, 1, 2}, ids(s.Visible))
	assert.Equal(t, 3, s.Total)
}

func TestGrid_SetFilter(t *testing.T) {
	g := newTestGrid(testConfig())

	g.SetFilter(datagrid.Criterion{Value: "an"})
	assert.Equal(t, []any{2}, ids(g.Visible()))

	g.SetFilterLabel("ID")
	assert.Empty(t, g.Visible())
	assert.Equal(t, datagrid.Criterion{Label: "ID", Value: "an"}, g.Criterion())

	g.SetFilterValue("1")
	assert.Equal(t, []any{1}, ids(g.Visible()))

	g.SetFilterValue("")
	assert.Equal(t, []any{3, 1, 2}, ids(g.Visible()))
}

func TestGrid_SetFilterClearsSelection(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SelectToggle(1)
	require.True(t, g.IsSelected(1))

	g.SetFilter(datagrid.Criterion{Value: "a"})
	assert.Empty(t, g.Selection().Selected)
	assert.False(t, g.Selection().SelectAll)
}

func TestGrid_SetOrder(t *testing.T) {
	g := newTestGrid(testConfig())

	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: true})
	assert.Equal(t, []any{1, 2, 3}, ids(g.Visible()))

	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: false})
	assert.Equal(t, []any{3, 2, 1}, ids(g.Visible()))

	g.SetOrder(datagrid.OrderSpec{Key: "name", Forward: true})
	assert.Equal(t, []any{1, 2, 3}, ids(g.Visible()), "column type picks the comparator")

	g.SetOrder(datagrid.DefaultOrder())
	assert.Equal(t, []any{3, 1, 2}, ids(g.Visible()))
}

func TestGrid_OrderAppliesToFilteredRows(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: false})
	g.SetFilter(datagrid.Criterion{Label: "Name", Value: "a"})

	assert.Equal(t, []any{3, 2, 1}, ids(g.Visible()))

	g.SetFilter(datagrid.Criterion{Label: "Name", Value: "an"})
	assert.Equal(t, []any{2}, ids(g.Visible()))
}

func TestGrid_SetOrderPanicKeepsState(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: true})
	before := g.Snapshot()

	require.Panics(t, func() {
		g.SetOrder(datagrid.OrderSpec{Key: "id", Forward: true, Compare: func(a, b any) datagrid.Ordering {
			panic("bad comparator")
		}})
	})

	after := g.Snapshot()
	assert.Equal(t, before.Generation, after.Generation)
	assert.Equal(t, ids(before.Visible), ids(after.Visible))
	assert.Equal(t, "id", after.Order.Key)
}

func TestGrid_SelectToggle(t *testing.T) {
	g := newTestGrid(testConfig())

	g.SelectToggle(datagrid.All)
	s := g.Snapshot()
	assert.True(t, s.SelectAll)
	assert.Equal(t, []any{3, 1, 2}, s.Selected)

	g.SelectToggle(1)
	assert.False(t, g.Selection().SelectAll)
	assert.Equal(t, []any{3, 2}, g.Selection().Selected)

	g.SelectToggle(1)
	assert.True(t, g.Selection().SelectAll)
}

func TestGrid_SelectAllUsesFilteredRows(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SetFilter(datagrid.Criterion{Label: "Name", Value: "an"})

	g.SelectToggle(datagrid.All)
	assert.Equal(t, []any{2}, g.Selection().Selected)
	assert.True(t, g.Selection().SelectAll)
}

func TestGrid_CustomKey(t *testing.T) {
	cfg := testConfig()
	cfg.Key = datagrid.FieldKey("name")
	g := newTestGrid(cfg)

	g.SelectToggle(datagrid.All)
	assert.Equal(t, []any{"carrot", "apple", "banana"}, g.Selection().Selected)
	assert.Equal(t, "apple", g.Key(datagrid.Row{"name": "apple"}))
}

func TestGrid_ReplaceResets(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SetFilter(datagrid.Criterion{Value: "a"})
	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: false})
	g.SelectToggle(datagrid.All)

	g.Replace([]datagrid.Row{{"id": 7, "name": "grape"}, {"id": 8, "name": "kiwi"}})

	s := g.Snapshot()
	assert.False(t, s.SelectAll)
	assert.Empty(t, s.Selected)
	assert.Equal(t, datagrid.Criterion{}, s.Criterion)
	assert.Equal(t, datagrid.DefaultOrder().Key, s.Order.Key)
	assert.True(t, s.Order.Forward)
	assert.Equal(t, []any{7, 8}, ids(s.Visible))
	assert.Equal(t, 2, s.Total)
}

func TestGrid_ChangePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reloader := datagrid.NewMockReloader(ctrl)
	reloader.EXPECT().Rerender(20).Times(1)

	g := newTestGrid(testConfig(), WithReloader(reloader))
	offset, err := g.ChangePage(2)
	require.NoError(t, err)
	assert.Equal(t, 20, offset)
}

func TestGrid_ChangePageErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		pages       *Pages
		page        int
		expectedErr error
	}{
		"pagination disabled": {pages: nil, page: 1, expectedErr: datagrid.ErrPaginationDisabled},
		"negative page":       {pages: &Pages{Limit: 5}, page: -2, expectedErr: datagrid.ErrInvalidPage},
		"no reloader":         {pages: &Pages{Limit: 5}, page: 1, expectedErr: datagrid.ErrNoDataSource},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.Pages = tc.pages
			_, err := newTestGrid(cfg).ChangePage(tc.page)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestGrid_PageLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loader := datagrid.NewMockPageLoader(ctrl)
	loader.EXPECT().
		LoadPage(gomock.Any(), 10, 10).
		Return([]datagrid.Row{{"id": 11, "name": "lime"}}, nil).
		Times(1)

	g := newTestGrid(testConfig(), WithPageLoader(loader, time.Second))
	g.SetFilter(datagrid.Criterion{Value: "a"})

	_, err := g.ChangePage(1)
	require.NoError(t, err)

	s := g.Snapshot()
	assert.Equal(t, []any{11}, ids(s.Visible))
	assert.Equal(t, datagrid.Criterion{}, s.Criterion)
}

func TestGrid_NilPageLoader(t *testing.T) {
	g := newTestGrid(testConfig(), WithPageLoader(nil, time.Second))

	require.NotPanics(t, func() {
		_, err := g.ChangePage(1)
		require.ErrorIs(t, err, datagrid.ErrNoDataSource)
	})
	assert.Equal(t, []any{3, 1, 2}, ids(g.Visible()))
}

func TestGrid_PageLoaderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loader := datagrid.NewMockPageLoader(ctrl)
	loader.EXPECT().
		LoadPage(gomock.Any(), 0, 10).
		Return(nil, assert.AnError).
		Times(1)

	g := newTestGrid(testConfig(), WithPageLoader(loader, 0))
	var failedOffset = -1
	var failure error
	g.OnLoadError(func(offset int, err error) {
		failedOffset, failure = offset, err
	})
	before := g.Snapshot()

	_, err := g.ChangePage(0)
	require.NoError(t, err, "the page request itself was emitted")
	assert.Equal(t, 0, failedOffset)
	assert.ErrorIs(t, failure, assert.AnError)
	assert.Equal(t, before, g.Snapshot())
}

func TestGrid_OnChange(t *testing.T) {
	g := newTestGrid(testConfig())
	var got []Snapshot
	g.OnChange(func(s Snapshot) { got = append(got, s) })

	g.SetFilter(datagrid.Criterion{Value: "apple"})
	g.SelectToggle(1)
	g.SetOrder(datagrid.OrderSpec{Key: "id", Compare: numeric, Forward: true})
	g.Replace(nil)

	require.Len(t, got, 4)
	assert.Equal(t, []any{1}, ids(got[0].Visible))
	assert.Equal(t, []any{1}, got[1].Selected)
	assert.True(t, got[1].SelectAll)
	assert.Equal(t, "id", got[2].Order.Key)
	assert.Empty(t, got[3].Visible)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Generation, got[i-1].Generation)
	}
}

func TestGrid_SnapshotIsCopy(t *testing.T) {
	g := newTestGrid(testConfig())
	g.SelectToggle(3)

	s := g.Snapshot()
	s.Visible[0] = datagrid.Row{"id": 99}
	s.Selected[0] = 99

	assert.Equal(t, []any{3, 1, 2}, ids(g.Visible()))
	assert.Equal(t, []any{3}, g.Selection().Selected)
	assert.True(t, s.IsSelected(99))
}

func TestGrid_Presentation(t *testing.T) {
	cfg := testConfig()
	g := newTestGrid(cfg)
	assert.Equal(t, Layout{Header: true, Footer: true}, g.Layout())
	assert.Equal(t, 1, g.PageCount())
	assert.Contains(t, g.StyleTags(), datagrid.TagBordered)

	cfg.Selection, cfg.EnableFilter, cfg.HasFooter, cfg.Pages = false, false, false, nil
	cfg.Rows = []RowOverride{{"class": "highlight"}}
	g = newTestGrid(cfg)
	assert.Equal(t, Layout{}, g.Layout())
	assert.Equal(t, 0, g.PageCount())
	assert.Equal(t, []RowOverride{{"class": "highlight"}}, g.RowOverrides())

	label, ok := g.SuggestLabel("Nmae")
	require.True(t, ok)
	assert.Equal(t, "Name", label)
}
