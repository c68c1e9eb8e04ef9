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

package arrow

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/magpierre/datagrid/datagrid"
)

// ExportFormat represents the supported export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
	FormatJSON
)

func (f ExportFormat) String() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// ParseExportFormat accepts a format name or a file extension.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "parquet":
		return FormatParquet, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", datagrid.ErrUnsupportedFile, s)
}

// ExportRows writes the given rows, typically a grid's visible rows, in the
// requested format.
func ExportRows(columns []datagrid.Column, rows []datagrid.Row, format ExportFormat, w io.Writer) error {
	table, err := NewArrowTable(datagrid.Dataset{Columns: columns, Rows: rows}, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", datagrid.ErrExportFailed, err)
	}
	defer table.Release()
	return Export(table, format, w)
}

// ExportFile writes table to filePath.
func ExportFile(table arrow.Table, format ExportFormat, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s file: %w", datagrid.ErrExportFailed, format, err)
	}
	defer file.Close()

	return Export(table, format, file)
}

// Export writes table to w.
func Export(table arrow.Table, format ExportFormat, w io.Writer) error {
	var err error
	switch format {
	case FormatParquet:
		err = exportParquet(table, w)
	case FormatCSV:
		err = exportCSV(table, w)
	case FormatJSON:
		err = exportJSON(table, w)
	default:
		err = fmt.Errorf("unknown format %s", format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", datagrid.ErrExportFailed, err)
	}
	return nil
}

func exportParquet(table arrow.Table, w io.Writer) error {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	chunk := table.NumRows()
	if chunk <= 0 {
		chunk = 1
	}
	if err := writer.WriteTable(table, chunk); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	return writer.Close()
}

func exportCSV(table arrow.Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	schema := table.Schema()
	headers := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	err := eachRow(table, func(rec arrow.Record, rowIdx int) error {
		row := make([]string, rec.NumCols())
		for colIdx, col := range rec.Columns() {
			row[colIdx] = formatValue(col, rowIdx)
		}
		return writer.Write(row)
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

func exportJSON(table arrow.Table, w io.Writer) error {
	schema := table.Schema()
	records := make([]map[string]any, 0, table.NumRows())

	err := eachRow(table, func(rec arrow.Record, rowIdx int) error {
		record := make(map[string]any, rec.NumCols())
		for colIdx, col := range rec.Columns() {
			record[schema.Field(colIdx).Name] = jsonValue(col, rowIdx)
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func eachRow(table arrow.Table, fn func(rec arrow.Record, rowIdx int) error) error {
	if table.NumRows() == 0 {
		return nil
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			if err := fn(rec, rowIdx); err != nil {
				return err
			}
		}
	}

	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}
	return nil
}

// formatValue renders a cell as CSV text. Null cells are empty.
func formatValue(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}

	switch col.DataType().ID() {
	case arrow.FLOAT32:
		return fmt.Sprintf("%.6f", col.(*array.Float32).Value(pos))
	case arrow.FLOAT64:
		return fmt.Sprintf("%.6f", col.(*array.Float64).Value(pos))
	case arrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime().Format("2006-01-02")
	case arrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime().Format("2006-01-02")
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.(*array.Timestamp).Value(pos).ToTime(unit).Format("2006-01-02 15:04:05.999999999")
	case arrow.STRUCT:
		b, err := json.Marshal(col.(*array.Struct).GetOneForMarshal(pos))
		if err != nil {
			return ""
		}
		return string(b)
	}

	s, _ := datagrid.Format(getTypedValue(col, pos))
	return s
}

// jsonValue keeps numbers and booleans typed and renders dates as text.
// Null cells of any type are null.
func jsonValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	v := getTypedValue(col, pos)
	switch col.DataType().ID() {
	case arrow.DATE32, arrow.DATE64:
		return formatValue(col, pos)
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.(*array.Timestamp).Value(pos).ToTime(unit).Format("2006-01-02T15:04:05.999999999Z")
	}
	return v
}
