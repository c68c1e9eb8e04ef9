// Package order derives the ordered view of a dataset from an order spec.
package order

import (
	"slices"

	"github.com/magpierre/datagrid/datagrid"
)

// Apply returns a sorted copy of rows. An empty key returns an unsorted copy.
//
// The comparator receives the Key field of both rows. When Forward is false
// its result is reversed, so descending order is the exact mirror of
// ascending order. Ties keep their dataset order. A nil comparator falls back
// to Values.
//
// A panicking comparator propagates to the caller.
func Apply(spec datagrid.OrderSpec, rows []datagrid.Row) []datagrid.Row {
	out := datagrid.Clone(rows)
	if !spec.IsSorted() {
		return out
	}

	compare := spec.Compare
	if compare == nil {
		compare = Values
	}
	key := spec.Key
	slices.SortStableFunc(out, func(prev, next datagrid.Row) int {
		o := compare(prev[key], next[key])
		if !spec.Forward {
			o = o.Reverse()
		}
		return int(o)
	})
	return out
}
