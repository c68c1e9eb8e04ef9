package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/magpierre/datagrid/adapters/deltasharing"
	"github.com/magpierre/datagrid/adapters/filesource"
	"github.com/magpierre/datagrid/adapters/sqlsource"
	"github.com/magpierre/datagrid/datagrid"
	"github.com/magpierre/datagrid/grid"
)

// Session is a grid wired to its configured data source.
type Session struct {
	Grid    *grid.Grid
	closers []io.Closer
}

// Close releases the data source.
func (s *Session) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// pagedSource is a page loader that can also describe and count its rows.
type pagedSource interface {
	datagrid.PageLoader
	Columns(ctx context.Context) ([]datagrid.Column, error)
}

// Open loads the configured source and builds a grid over it. Paged sources
// (sqlite, deltasharing) load the first page when grid.page_limit is set and
// become the grid's page loader; otherwise every row is loaded up front.
func Open(ctx context.Context, c Config, opts ...grid.Option) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg := c.GridConfig()
	s := &Session{}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	var (
		src pagedSource
		err error
	)
	switch c.Source.Kind {
	case SourceNone:
	case SourceFile:
		var ds datagrid.Dataset
		ds, err = filesource.Load(ctx, c.Source.Path, filesource.Options{JSONPath: c.Source.JSONPath})
		if err == nil {
			cfg.Columns = mergeColumns(cfg.Columns, c.Columns, ds.Columns)
			cfg.Data = ds.Rows
		}
	case SourceSQLite:
		src, err = s.openSQLite(c.Source)
	case SourceDeltaSharing:
		src, err = s.openDeltaSharing(c.Source)
	}
	if err != nil {
		s.Close()
		return nil, err
	}

	if src != nil {
		columns, err := src.Columns(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
		cfg.Columns = mergeColumns(cfg.Columns, c.Columns, columns)

		limit := 0
		if cfg.Pages != nil {
			limit = cfg.Pages.Limit
			opts = append(opts, grid.WithPageLoader(src, c.timeout()))
		}
		cfg.Data, err = src.LoadPage(ctx, 0, limit)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	log.Info().
		Str("source", c.Source.Kind).
		Int("rows", len(cfg.Data)).
		Int("columns", len(cfg.Columns)).
		Msg("grid opened")
	s.Grid = grid.New(cfg, opts...)
	return s, nil
}

func (c Config) timeout() time.Duration {
	if c.Source.Timeout <= 0 {
		return grid.DefaultLoadTimeout
	}
	return c.Source.Timeout
}

func (s *Session) openSQLite(sc SourceConfig) (pagedSource, error) {
	db, err := sqlsource.Open(sc.Path)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, db)
	return sqlsource.New(db, sc.Table)
}

func (s *Session) openDeltaSharing(sc SourceConfig) (pagedSource, error) {
	profile, err := os.ReadFile(sc.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	path, err := deltasharing.ParseTablePath(sc.Table)
	if err != nil {
		return nil, err
	}
	src, err := deltasharing.New(string(profile), path, sc.FileID)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, src)
	return src, nil
}

// mergeColumns keeps configured columns, filling in types the configuration
// left out from the source. Without configured columns the source's are used.
func mergeColumns(configured []datagrid.Column, raw []ColumnConfig, fromSource []datagrid.Column) []datagrid.Column {
	if len(configured) == 0 {
		return fromSource
	}
	types := make(map[string]datagrid.DataType, len(fromSource))
	for _, col := range fromSource {
		types[col.Name] = col.Type
	}
	merged := make([]datagrid.Column, len(configured))
	for i, col := range configured {
		if raw[i].Type == "" {
			if t, ok := types[col.Name]; ok {
				col.Type = t
			}
		}
		merged[i] = col
	}
	return merged
}
