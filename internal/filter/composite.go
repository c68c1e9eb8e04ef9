package filter

import (
	"fmt"
	"strings"

	"github.com/magpierre/datagrid/datagrid"
)

// Predicate decides whether a row belongs to the filtered view.
type Predicate interface {
	// Evaluate reports whether the row passes.
	Evaluate(row datagrid.Row) (bool, error)

	// Description returns a human readable form of the predicate.
	Description() string
}

// LogicOp represents a logical operator for combining predicates.
type LogicOp int

const (
	// LogicAND requires all predicates to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one predicate to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines multiple predicates with AND or OR logic.
type CompositeFilter struct {
	// Filters is the list of predicates to combine.
	Filters []Predicate

	// Logic specifies how to combine the predicates (AND or OR).
	Logic LogicOp
}

// Evaluate implements the Predicate interface.
func (f *CompositeFilter) Evaluate(row datagrid.Row) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil // Empty filter passes all rows
	}

	switch f.Logic {
	case LogicAND:
		for _, p := range f.Filters {
			passes, err := p.Evaluate(row)
			if err != nil {
				return false, err
			}
			if !passes {
				return false, nil
			}
		}
		return true, nil

	case LogicOR:
		for _, p := range f.Filters {
			passes, err := p.Evaluate(row)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: unknown logic operator %d", datagrid.ErrInvalidFilter, f.Logic)
	}
}

// Description implements the Predicate interface.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "empty filter"
	}

	descriptions := make([]string, len(f.Filters))
	for i, p := range f.Filters {
		descriptions[i] = p.Description()
	}

	return "(" + strings.Join(descriptions, " "+f.Logic.String()+" ") + ")"
}

// Contains passes rows whose rendered column value contains Value.
type Contains struct {
	Column datagrid.Column
	Value  string
}

// Evaluate implements the Predicate interface. Undefined values never match.
func (c *Contains) Evaluate(row datagrid.Row) (bool, error) {
	text, ok := datagrid.Format(c.Column.Render(row))
	if !ok {
		return false, nil
	}
	return strings.Contains(text, c.Value), nil
}

// Description implements the Predicate interface.
func (c *Contains) Description() string {
	return fmt.Sprintf("%s contains %q", c.Column.Name, c.Value)
}

// rejectAll is used when the criterion names a label no column carries.
type rejectAll struct {
	label string
}

func (r rejectAll) Evaluate(datagrid.Row) (bool, error) { return false, nil }

func (r rejectAll) Description() string {
	return fmt.Sprintf("no column labelled %q", r.label)
}
