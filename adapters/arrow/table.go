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

// Package arrow converts between Arrow tables and grid datasets, and reads and
// writes them as Parquet, CSV and JSON.
package arrow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/magpierre/datagrid/datagrid"
)

// NewFromArrowTable reads every row of table into a dataset. Columns are
// labelled with their field names.
func NewFromArrowTable(table arrow.Table) (datagrid.Dataset, error) {
	if table == nil {
		return datagrid.Dataset{}, datagrid.ErrNoDataSource
	}

	schema := table.Schema()
	ds := datagrid.Dataset{
		Columns: make([]datagrid.Column, schema.NumFields()),
		Rows:    make([]datagrid.Row, 0, table.NumRows()),
	}
	for i, field := range schema.Fields() {
		ds.Columns[i] = datagrid.Column{
			Name:  field.Name,
			Label: field.Name,
			Type:  DataTypeOf(field.Type),
		}
	}

	if table.NumRows() == 0 {
		return ds, nil
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			row := make(datagrid.Row, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[schema.Field(colIdx).Name] = getTypedValue(col, rowIdx)
			}
			ds.Rows = append(ds.Rows, row)
		}
	}

	if tr.Err() != nil {
		return datagrid.Dataset{}, fmt.Errorf("error reading table: %w", tr.Err())
	}
	return ds, nil
}

// DataTypeOf maps an Arrow type to the grid's column type.
func DataTypeOf(dt arrow.DataType) datagrid.DataType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datagrid.TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datagrid.TypeFloat
	case arrow.BOOL:
		return datagrid.TypeBool
	case arrow.DATE32, arrow.DATE64:
		return datagrid.TypeDate
	case arrow.TIMESTAMP:
		return datagrid.TypeTimestamp
	case arrow.BINARY:
		return datagrid.TypeBinary
	case arrow.DECIMAL128:
		return datagrid.TypeDecimal
	case arrow.STRUCT:
		return datagrid.TypeStruct
	case arrow.LIST:
		return datagrid.TypeList
	default:
		return datagrid.TypeString
	}
}

// getTypedValue returns the Go value of an Arrow cell. Dates and timestamps
// become time.Time so they sort chronologically.
func getTypedValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return col.(*array.String).Value(pos)
	case arrow.LARGE_STRING:
		return col.(*array.LargeString).Value(pos)
	case arrow.BINARY:
		return string(col.(*array.Binary).Value(pos))
	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos)
	case arrow.INT8:
		return col.(*array.Int8).Value(pos)
	case arrow.INT16:
		return col.(*array.Int16).Value(pos)
	case arrow.INT32:
		return col.(*array.Int32).Value(pos)
	case arrow.INT64:
		return col.(*array.Int64).Value(pos)
	case arrow.UINT8:
		return col.(*array.Uint8).Value(pos)
	case arrow.UINT16:
		return col.(*array.Uint16).Value(pos)
	case arrow.UINT32:
		return col.(*array.Uint32).Value(pos)
	case arrow.UINT64:
		return col.(*array.Uint64).Value(pos)
	case arrow.FLOAT16:
		return col.(*array.Float16).Value(pos).Float32()
	case arrow.FLOAT32:
		return col.(*array.Float32).Value(pos)
	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos)
	case arrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime()
	case arrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime()
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.(*array.Timestamp).Value(pos).ToTime(unit)
	case arrow.DECIMAL128:
		return col.(*array.Decimal128).Value(pos).BigInt().String()
	case arrow.STRUCT:
		b, err := json.Marshal(col.(*array.Struct).GetOneForMarshal(pos))
		if err != nil {
			return nil
		}
		var result any
		if err := json.Unmarshal(b, &result); err != nil {
			return string(b)
		}
		return result
	default:
		return col.ValueStr(pos)
	}
}

// NewArrowTable builds an Arrow table from a dataset. Each column's Arrow type
// is inferred from its non-nil values: int64, float64, bool and timestamp
// columns keep their type, anything else (including mixed columns) is stored
// as formatted strings.
func NewArrowTable(ds datagrid.Dataset, mem memory.Allocator) (arrow.Table, error) {
	if len(ds.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", datagrid.ErrEmptyData)
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, len(ds.Columns))
	for i, c := range ds.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: inferType(c.Name, ds.Rows), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	for _, row := range ds.Rows {
		for i, field := range fields {
			if err := appendValue(rb.Field(i), field.Type, row[field.Name]); err != nil {
				return nil, fmt.Errorf("column %s: %w", field.Name, err)
			}
		}
	}

	rec := rb.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

func inferType(name string, rows []datagrid.Row) arrow.DataType {
	var inferred arrow.DataType
	for _, row := range rows {
		v := row[name]
		if v == nil {
			continue
		}
		var dt arrow.DataType
		switch v.(type) {
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			dt = arrow.PrimitiveTypes.Int64
		case float32, float64:
			dt = arrow.PrimitiveTypes.Float64
		case bool:
			dt = arrow.FixedWidthTypes.Boolean
		case time.Time:
			dt = timestampType
		default:
			return arrow.BinaryTypes.String
		}
		if inferred != nil && !arrow.TypeEqual(inferred, dt) {
			return arrow.BinaryTypes.String
		}
		inferred = dt
	}
	if inferred == nil {
		return arrow.BinaryTypes.String
	}
	return inferred
}

func appendValue(b array.Builder, dt arrow.DataType, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch dt.ID() {
	case arrow.INT64:
		b.(*array.Int64Builder).Append(toInt64(v))
	case arrow.FLOAT64:
		switch f := v.(type) {
		case float32:
			b.(*array.Float64Builder).Append(float64(f))
		case float64:
			b.(*array.Float64Builder).Append(f)
		}
	case arrow.BOOL:
		b.(*array.BooleanBuilder).Append(v.(bool))
	case arrow.TIMESTAMP:
		ts, err := arrow.TimestampFromTime(v.(time.Time), arrow.Nanosecond)
		if err != nil {
			return err
		}
		b.(*array.TimestampBuilder).Append(ts)
	default:
		s, _ := datagrid.Format(v)
		b.(*array.StringBuilder).Append(s)
	}
	return nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	default:
		return 0
	}
}
