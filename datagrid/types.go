// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datagrid holds the types shared by the grid state engine and its
// data sources: rows, column descriptors, filter criteria, order specs and
// selection state.
package datagrid

import (
	"fmt"
	"reflect"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeBinary represents binary/blob data.
	TypeBinary
	// TypeDecimal represents decimal/numeric data (fixed precision).
	TypeDecimal
	// TypeStruct represents structured data (nested fields).
	TypeStruct
	// TypeList represents list/array data.
	TypeList
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	case TypeBinary:
		return "Binary"
	case TypeDecimal:
		return "Decimal"
	case TypeStruct:
		return "Struct"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Row is a single record. Values are looked up by column name.
type Row map[string]any

// Clone returns a shallow copy of the dataset slice. The rows themselves are
// shared.
func Clone(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// KeyFunc extracts the identity of a row. Returned keys must be comparable.
type KeyFunc func(Row) any

// DefaultKeyField is the row field used for identity when none is configured.
const DefaultKeyField = "id"

// FieldKey returns a KeyFunc reading the named field.
func FieldKey(name string) KeyFunc {
	return func(r Row) any {
		return r[name]
	}
}

// Renderer maps a raw cell value to its display value.
// A nil result means the value is undefined for display and filtering.
type Renderer func(value any) any

// Column describes one column of the grid.
type Column struct {
	// Name is the row field the column reads.
	Name string
	// Label is the header text, also used to scope a filter to this column.
	Label string
	// Type is informational and set by loaders; it selects a default comparator.
	Type DataType
	// Renderer is optional.
	Renderer Renderer
}

// Render returns the display value of the column for the given row.
func (c Column) Render(r Row) any {
	v := r[c.Name]
	if c.Renderer != nil {
		return c.Renderer(v)
	}
	return v
}

// Criterion is the active filter.
type Criterion struct {
	// Label scopes the search to the column with this label; empty searches
	// every column.
	Label string
	// Value is the search term; empty disables filtering.
	Value string
}

// IsZero reports whether the criterion passes every row through.
func (c Criterion) IsZero() bool {
	return c.Value == ""
}

// Ordering is the result of a three-way comparison.
type Ordering int

const (
	// Less means the first value sorts before the second.
	Less Ordering = -1
	// Equal means the values are tied.
	Equal Ordering = 0
	// Greater means the first value sorts after the second.
	Greater Ordering = 1
)

// Reverse flips the direction of the ordering.
func (o Ordering) Reverse() Ordering {
	return -o
}

// String returns the string representation of an Ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// OrderingOf normalises a signed integer comparison result.
func OrderingOf(n int) Ordering {
	switch {
	case n < 0:
		return Less
	case n > 0:
		return Greater
	default:
		return Equal
	}
}

// Comparator compares two cell values.
type Comparator func(a, b any) Ordering

// OrderSpec is the active sort. The zero value of Forward is false, so a
// literal such as OrderSpec{Key: "k"} sorts descending; start from
// DefaultOrder() and set Key to sort ascending.
type OrderSpec struct {
	// Key is the column name to sort by; empty disables sorting.
	Key string
	// Compare orders two values of the Key field.
	Compare Comparator
	// Forward keeps the comparator's direction; false reverses it.
	Forward bool
}

// IsSorted reports whether this spec represents an active sort.
func (s OrderSpec) IsSorted() bool {
	return s.Key != ""
}

// DefaultOrder returns the pass-through order spec.
func DefaultOrder() OrderSpec {
	return OrderSpec{Forward: true}
}

// SelectionState is the set of selected row keys.
type SelectionState struct {
	SelectAll bool
	// Selected keeps insertion order.
	Selected []any
}

// Clone returns a copy that shares no slice with s.
func (s SelectionState) Clone() SelectionState {
	out := SelectionState{SelectAll: s.SelectAll, Selected: make([]any, len(s.Selected))}
	copy(out.Selected, s.Selected)
	return out
}

type allSentinel struct{}

// All is the selection toggle input meaning "select or deselect every row".
var All any = allSentinel{}

// IsAll reports whether key is the All sentinel.
func IsAll(key any) bool {
	_, ok := key.(allSentinel)
	return ok
}

// Format converts a value to the string used for filtering.
// The second result is false when the value is undefined: nil or a nil pointer.
func Format(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case time.Time:
		return t.Format(time.RFC3339Nano), true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}
