package grid

import (
	"slices"

	"github.com/magpierre/datagrid/datagrid"
)

// Snapshot is a read-only copy of the grid state handed to presentation
// collaborators. It shares no slices with the grid.
type Snapshot struct {
	SelectAll bool
	Selected  []any
	Criterion datagrid.Criterion
	Order     datagrid.OrderSpec
	// Visible is the filtered and sorted dataset.
	Visible []datagrid.Row
	// Total is the size of the source dataset.
	Total int
	// Generation increases with every transition.
	Generation uint64
}

// IsSelected reports whether key is selected in this snapshot.
func (s Snapshot) IsSelected(key any) bool {
	return slices.Contains(s.Selected, key)
}

func (g *Grid) snapshot() Snapshot {
	sel := g.selection.Clone()
	return Snapshot{
		SelectAll:  sel.SelectAll,
		Selected:   sel.Selected,
		Criterion:  g.criterion,
		Order:      g.order,
		Visible:    datagrid.Clone(g.visible),
		Total:      len(g.source),
		Generation: g.generation,
	}
}
