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

// Package deltasharing serves pages of a Delta Sharing table to a grid.
package deltasharing

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"github.com/rs/zerolog/log"

	arrowadapter "github.com/magpierre/datagrid/adapters/arrow"
	"github.com/magpierre/datagrid/datagrid"
)

// Fetcher downloads a table as Arrow data.
type Fetcher interface {
	Fetch(ctx context.Context) (arrow.Table, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (arrow.Table, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context) (arrow.Table, error) {
	return f(ctx)
}

// Source pages rows out of a shared table. The table is fetched on the first
// page request and kept until Refresh or Close.
type Source struct {
	fetcher Fetcher
	columns []string
	table   arrow.Table
}

// Option configures a Source.
type Option func(*Source)

// WithColumns keeps only the named columns.
func WithColumns(columns ...string) Option {
	return func(s *Source) {
		s.columns = columns
	}
}

// New creates a source reading path with the credentials in profile. With an
// empty fileID every data file of the table is read.
func New(profile string, path TablePath, fileID string, opts ...Option) (*Source, error) {
	if profile == "" {
		return nil, fmt.Errorf("%w: empty profile", datagrid.ErrNoDataSource)
	}
	if !path.valid() {
		return nil, fmt.Errorf("%w: table path %q", datagrid.ErrInvalidIdentifier, path)
	}
	return NewWithFetcher(&clientFetcher{profile: profile, path: path, fileID: fileID}, opts...), nil
}

// NewWithFetcher creates a source over any Arrow table fetcher.
func NewWithFetcher(f Fetcher, opts ...Option) *Source {
	s := &Source{fetcher: f}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPage implements datagrid.PageLoader. A limit <= 0 reads to the end of
// the table.
func (s *Source) LoadPage(ctx context.Context, offset, limit int) ([]datagrid.Row, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", datagrid.ErrInvalidPage, offset)
	}
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	page, err := sliceTable(table, int64(offset), int64(limit))
	if err != nil {
		return nil, err
	}
	defer page.Release()

	ds, err := arrowadapter.NewFromArrowTable(page)
	if err != nil {
		return nil, err
	}
	return ds.Rows, nil
}

// Columns describes the columns of the table, fetching it if needed.
func (s *Source) Columns(ctx context.Context) ([]datagrid.Column, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	columns := make([]datagrid.Column, 0, table.NumCols())
	for _, field := range table.Schema().Fields() {
		columns = append(columns, datagrid.Column{
			Name:  field.Name,
			Label: field.Name,
			Type:  arrowadapter.DataTypeOf(field.Type),
		})
	}
	return columns, nil
}

// Count returns the number of rows in the table, fetching it if needed.
func (s *Source) Count(ctx context.Context) (int, error) {
	table, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return int(table.NumRows()), nil
}

// Refresh drops the cached table so the next request fetches it again.
func (s *Source) Refresh() {
	if s.table != nil {
		s.table.Release()
		s.table = nil
	}
}

// Close releases the cached table.
func (s *Source) Close() error {
	s.Refresh()
	return nil
}

func (s *Source) load(ctx context.Context) (arrow.Table, error) {
	if s.table != nil {
		return s.table, nil
	}

	table, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table: %w", err)
	}
	if len(s.columns) > 0 {
		selected, err := selectColumns(table, s.columns)
		table.Release()
		if err != nil {
			return nil, err
		}
		table = selected
	}

	log.Debug().Int64("rows", table.NumRows()).Int64("columns", table.NumCols()).Msg("shared table fetched")
	s.table = table
	return table, nil
}

// selectColumns returns a table holding only the named columns, in schema
// order.
func selectColumns(table arrow.Table, names []string) (arrow.Table, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	schema := table.Schema()
	var (
		fields  []arrow.Field
		columns []arrow.Column
	)
	for i, field := range schema.Fields() {
		if wanted[field.Name] {
			fields = append(fields, field)
			columns = append(columns, *table.Column(i))
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: none of %v", datagrid.ErrColumnNotFound, names)
	}

	return array.NewTable(arrow.NewSchema(fields, nil), columns, table.NumRows()), nil
}

// sliceTable returns rows [offset, offset+limit) of table, or [offset, end)
// when limit <= 0. The window is cut out of each column's chunks without
// copying.
func sliceTable(table arrow.Table, offset, limit int64) (arrow.Table, error) {
	total := table.NumRows()
	lo := min(offset, total)
	hi := total
	if limit > 0 {
		hi = min(offset+limit, total)
	}

	numCols := int(table.NumCols())
	columns := make([]arrow.Column, numCols)
	for i := 0; i < numCols; i++ {
		col := table.Column(i)
		var chunks []arrow.Array
		var start int64

		for _, chunk := range col.Data().Chunks() {
			end := start + int64(chunk.Len())
			if end > lo && start < hi {
				from := max(lo, start) - start
				to := min(hi, end) - start
				chunks = append(chunks, array.NewSlice(chunk, from, to))
			}
			start = end
		}

		chunked := arrow.NewChunked(col.DataType(), chunks)
		for _, c := range chunks {
			c.Release()
		}
		columns[i] = *arrow.NewColumn(col.Field(), chunked)
		chunked.Release()
	}

	return array.NewTable(table.Schema(), columns, hi-lo), nil
}

// clientFetcher downloads a table with the Delta Sharing client.
type clientFetcher struct {
	profile string
	path    TablePath
	fileID  string
}

func (c *clientFetcher) Fetch(ctx context.Context) (arrow.Table, error) {
	client, err := delta_sharing.NewSharingClientV2FromString(c.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}

	table := c.path.table()
	resp, err := client.ListFilesInTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", c.path, err)
	}

	var parts []arrow.Table
	defer func() {
		for _, p := range parts {
			p.Release()
		}
	}()

	for _, f := range resp.AddFiles {
		if c.fileID != "" && f.Id != c.fileID {
			continue
		}
		log.Info().Str("table", c.path.String()).Str("file", f.Id).Msg("loading shared file")
		part, err := delta_sharing.LoadArrowTable(ctx, client, table, f.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to load file %s: %w", f.Id, err)
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		if c.fileID != "" {
			return nil, fmt.Errorf("%w: file %s not in %s", datagrid.ErrEmptyData, c.fileID, c.path)
		}
		return nil, fmt.Errorf("%w: %s has no data files", datagrid.ErrEmptyData, c.path)
	}
	return concatTables(parts)
}

// concatTables stacks tables sharing the first table's schema.
func concatTables(tables []arrow.Table) (arrow.Table, error) {
	schema := tables[0].Schema()
	var records []arrow.Record
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	for _, t := range tables {
		if !t.Schema().Equal(schema) {
			return nil, fmt.Errorf("%w: data files have different schemas", datagrid.ErrUnsupportedFile)
		}
		if t.NumRows() == 0 {
			continue
		}
		tr := array.NewTableReader(t, t.NumRows())
		for tr.Next() {
			rec := tr.Record()
			rec.Retain()
			records = append(records, rec)
		}
		tr.Release()
	}
	return array.NewTableFromRecords(schema, records), nil
}
