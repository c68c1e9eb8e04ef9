// Package selection tracks which rows of a grid are selected.
package selection

import (
	"slices"

	"github.com/magpierre/datagrid/datagrid"
)

// Tracker computes selection transitions. It holds no state besides the key
// extraction function, so one Tracker can serve any number of grids.
type Tracker struct {
	key datagrid.KeyFunc
}

// NewTracker returns a Tracker identifying rows with key. A nil key reads the
// default "id" field.
func NewTracker(key datagrid.KeyFunc) *Tracker {
	if key == nil {
		key = datagrid.FieldKey(datagrid.DefaultKeyField)
	}
	return &Tracker{key: key}
}

// Key returns the identity of row.
func (t *Tracker) Key(row datagrid.Row) any {
	return t.key(row)
}

// Toggle returns the selection that results from toggling key against the
// current dataset. state is never modified.
//
// datagrid.All flips SelectAll and selects every row of dataset, or none. An
// empty dataset never becomes select-all.
// Any other key is added when absent and removed when present, and SelectAll
// is recomputed. Keys are not checked against the dataset.
func (t *Tracker) Toggle(state datagrid.SelectionState, key any, dataset []datagrid.Row) datagrid.SelectionState {
	if datagrid.IsAll(key) {
		next := datagrid.SelectionState{
			SelectAll: !state.SelectAll && len(dataset) > 0,
			Selected:  []any{},
		}
		if next.SelectAll {
			next.Selected = make([]any, len(dataset))
			for i, row := range dataset {
				next.Selected[i] = t.key(row)
			}
		}
		return next
	}

	selected := slices.Clone(state.Selected)
	if selected == nil {
		selected = []any{}
	}
	if i := slices.Index(selected, key); i < 0 {
		selected = append(selected, key)
	} else {
		selected = slices.Delete(selected, i, i+1)
	}

	return datagrid.SelectionState{
		SelectAll: len(selected) == len(dataset) && len(selected) != 0,
		Selected:  selected,
	}
}

// Contains reports whether key is selected.
func Contains(state datagrid.SelectionState, key any) bool {
	return slices.Contains(state.Selected, key)
}

// Empty returns the default selection.
func Empty() datagrid.SelectionState {
	return datagrid.SelectionState{Selected: []any{}}
}
