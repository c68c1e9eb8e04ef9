// Package filter derives the filtered view of a dataset from a criterion.
package filter

import (
	"github.com/agnivade/levenshtein"

	"github.com/magpierre/datagrid/datagrid"
)

// Build returns the predicate for a non-empty criterion.
//
// An empty label searches every column; otherwise only the column carrying the
// label is searched, the last one winning when labels repeat.
func Build(c datagrid.Criterion, columns []datagrid.Column) Predicate {
	if c.Label != "" {
		col, ok := ResolveLabel(c.Label, columns)
		if !ok {
			return rejectAll{label: c.Label}
		}
		return &Contains{Column: col, Value: c.Value}
	}

	if len(columns) == 0 {
		return rejectAll{}
	}
	either := &CompositeFilter{Logic: LogicOR, Filters: make([]Predicate, len(columns))}
	for i, col := range columns {
		either.Filters[i] = &Contains{Column: col, Value: c.Value}
	}
	return either
}

// Apply returns the rows matching the criterion, preserving order.
// An empty criterion value returns a shallow copy of rows.
func Apply(c datagrid.Criterion, rows []datagrid.Row, columns []datagrid.Column) []datagrid.Row {
	if c.IsZero() {
		return datagrid.Clone(rows)
	}

	p := Build(c, columns)
	out := make([]datagrid.Row, 0, len(rows))
	for _, row := range rows {
		// Predicates built here never fail; a failure counts as a non-match.
		if ok, err := p.Evaluate(row); err == nil && ok {
			out = append(out, row)
		}
	}
	return out
}

// ResolveLabel finds the column with the given label. When several columns
// share the label the last one is returned.
func ResolveLabel(label string, columns []datagrid.Column) (datagrid.Column, bool) {
	for i := len(columns) - 1; i >= 0; i-- {
		if columns[i].Label == label {
			return columns[i], true
		}
	}
	return datagrid.Column{}, false
}

// Suggest returns the column label closest to label by edit distance.
// It returns false when there are no labelled columns or label already
// resolves.
func Suggest(label string, columns []datagrid.Column) (string, bool) {
	if _, ok := ResolveLabel(label, columns); ok {
		return "", false
	}

	best, bestDist := "", -1
	for _, col := range columns {
		if col.Label == "" {
			continue
		}
		d := levenshtein.ComputeDistance(label, col.Label)
		if bestDist < 0 || d < bestDist {
			best, bestDist = col.Label, d
		}
	}
	return best, bestDist >= 0
}
