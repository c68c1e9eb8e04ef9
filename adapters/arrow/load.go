package arrow

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/magpierre/datagrid/datagrid"
)

const csvChunkSize = 1024

// ReadParquet reads a whole Parquet file into an Arrow table. The caller owns
// the table and must release it.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (arrow.Table, error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return table, nil
}

// ReadCSV reads delimited text with a header line into an Arrow table, inferring
// column types from the data. Empty cells are read as nulls.
func ReadCSV(r io.Reader, separator rune) (arrow.Table, error) {
	reader := arrowcsv.NewInferringReader(r,
		arrowcsv.WithHeader(true),
		arrowcsv.WithComma(separator),
		arrowcsv.WithChunk(csvChunkSize),
		arrowcsv.WithNullReader(true, ""),
	)
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()

	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no CSV records", datagrid.ErrEmptyData)
	}

	return array.NewTableFromRecords(records[0].Schema(), records), nil
}
