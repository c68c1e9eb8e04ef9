// Package jsonrows reads JSON documents into grid datasets.
package jsonrows

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/magpierre/datagrid/datagrid"
)

// Parse reads rows from data. The rows are the objects found at path (a gjson
// path, empty for the document root): an array of objects yields one row per
// object and a single object yields one row. Columns follow the order in
// which fields are first seen.
func Parse(data []byte, path string) (datagrid.Dataset, error) {
	if !gjson.ValidBytes(data) {
		return datagrid.Dataset{}, fmt.Errorf("%w: invalid JSON", datagrid.ErrUnsupportedFile)
	}

	result := gjson.ParseBytes(data)
	if path != "" {
		result = result.Get(path)
		if !result.Exists() {
			return datagrid.Dataset{}, fmt.Errorf("%w: nothing at path %q", datagrid.ErrEmptyData, path)
		}
	}

	var objects []gjson.Result
	switch {
	case result.IsArray():
		for _, item := range result.Array() {
			if !item.IsObject() {
				return datagrid.Dataset{}, fmt.Errorf("%w: array element is %s, not an object",
					datagrid.ErrUnsupportedFile, item.Type)
			}
			objects = append(objects, item)
		}
	case result.IsObject():
		objects = []gjson.Result{result}
	default:
		return datagrid.Dataset{}, fmt.Errorf("%w: expected an object or an array of objects", datagrid.ErrUnsupportedFile)
	}

	if len(objects) == 0 {
		return datagrid.Dataset{}, fmt.Errorf("%w: JSON has no records", datagrid.ErrEmptyData)
	}

	b := newBuilder()
	for _, obj := range objects {
		row := make(datagrid.Row)
		obj.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			v := valueOf(value)
			b.see(name, v)
			row[name] = v
			return true
		})
		b.rows = append(b.rows, row)
	}
	return b.dataset(), nil
}

// valueOf converts a gjson value. Whole numbers without a fraction or exponent
// become int64, or uint64 above the int64 range; wider ones keep their digits
// as text. Nested objects and arrays keep their raw JSON text.
func valueOf(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.String:
		return r.String()
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return r.Float()
		}
		if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(r.Raw, 10, 64); err == nil {
			return n
		}
		return r.Raw
	default:
		return r.Raw
	}
}

type builder struct {
	names []string
	types map[string]datagrid.DataType
	typed map[string]bool
	rows  []datagrid.Row
}

func newBuilder() *builder {
	return &builder{
		types: make(map[string]datagrid.DataType),
		typed: make(map[string]bool),
	}
}

func (b *builder) see(name string, v any) {
	if _, ok := b.types[name]; !ok {
		b.names = append(b.names, name)
		b.types[name] = datagrid.TypeString
	}
	if v == nil {
		return
	}

	t := typeOf(v)
	switch {
	case !b.typed[name]:
		b.types[name] = t
		b.typed[name] = true
	case b.types[name] == datagrid.TypeInt && t == datagrid.TypeFloat:
		b.types[name] = datagrid.TypeFloat
	case b.types[name] == datagrid.TypeFloat && t == datagrid.TypeInt:
		// stays float
	case b.types[name] != t:
		b.types[name] = datagrid.TypeString
	}
}

func typeOf(v any) datagrid.DataType {
	switch v.(type) {
	case int64, uint64:
		return datagrid.TypeInt
	case float64:
		return datagrid.TypeFloat
	case bool:
		return datagrid.TypeBool
	default:
		return datagrid.TypeString
	}
}

func (b *builder) dataset() datagrid.Dataset {
	ds := datagrid.Dataset{
		Columns: make([]datagrid.Column, len(b.names)),
		Rows:    b.rows,
	}
	for i, name := range b.names {
		ds.Columns[i] = datagrid.Column{Name: name, Label: name, Type: b.types[name]}
	}
	return ds
}
