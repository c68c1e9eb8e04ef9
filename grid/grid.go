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

// Package grid composes selection, filtering, sorting and pagination into the
// state controller behind a tabular widget.
package grid

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/magpierre/datagrid/datagrid"
	"github.com/magpierre/datagrid/internal/filter"
	"github.com/magpierre/datagrid/internal/order"
	"github.com/magpierre/datagrid/internal/pagination"
	"github.com/magpierre/datagrid/internal/selection"
)

// Grid holds the state of one table: its source dataset, the active filter and
// order, the selection and the derived visible dataset.
//
// A Grid is not safe for concurrent use. Every operation runs to completion
// synchronously and change listeners are called before it returns.
type Grid struct {
	cfg     Config
	columns []datagrid.Column

	source   []datagrid.Row
	filtered []datagrid.Row
	visible  []datagrid.Row

	selection datagrid.SelectionState
	criterion datagrid.Criterion
	order     datagrid.OrderSpec

	tracker  *selection.Tracker
	pager    *pagination.Adapter
	reloader datagrid.Reloader

	listeners     []func(Snapshot)
	errListeners  []func(offset int, err error)
	generation    uint64
	logger        zerolog.Logger
	loaderOptions *loaderOptions
}

// Option configures a Grid.
type Option func(*Grid)

// WithReloader sets the collaborator notified by ChangePage.
func WithReloader(r datagrid.Reloader) Option {
	return func(g *Grid) {
		g.reloader = r
	}
}

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Grid) {
		g.logger = l
	}
}

// New creates a grid over cfg.Data.
func New(cfg Config, opts ...Option) *Grid {
	g := &Grid{
		cfg:     cfg,
		columns: cfg.Columns,
		tracker: selection.NewTracker(cfg.keyFunc()),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.loaderOptions != nil {
		g.reloader = datagrid.ReloaderFunc(g.load)
	}
	g.pager = pagination.NewAdapter(cfg.pageLimit(), g.reloader)

	g.reset(cfg.Data)
	return g
}

// Replace swaps the source dataset. Selection, filter and order return to
// their defaults.
func (g *Grid) Replace(rows []datagrid.Row) {
	g.reset(rows)
	g.logger.Debug().
		Int("rows", len(rows)).
		Uint64("generation", g.generation).
		Msg("dataset replaced")
	g.notify()
}

func (g *Grid) reset(rows []datagrid.Row) {
	g.source = datagrid.Clone(rows)
	g.criterion = datagrid.Criterion{}
	g.order = datagrid.DefaultOrder()
	g.selection = selection.Empty()
	g.filtered = datagrid.Clone(g.source)
	g.visible = datagrid.Clone(g.source)
	g.generation++
}

// SelectToggle toggles key, or every row of the filtered dataset when key is
// datagrid.All. SelectAll is kept against the filtered dataset, not the whole
// source.
func (g *Grid) SelectToggle(key any) {
	g.selection = g.tracker.Toggle(g.selection, key, g.filtered)
	g.generation++
	g.logger.Debug().
		Interface("key", key).
		Int("selected", len(g.selection.Selected)).
		Bool("select_all", g.selection.SelectAll).
		Msg("selection toggled")
	g.notify()
}

// SetFilter replaces the criterion and clears the selection.
func (g *Grid) SetFilter(c datagrid.Criterion) {
	filtered := filter.Apply(c, g.source, g.columns)
	visible := order.Apply(g.resolvedOrder(g.order), filtered)

	g.criterion = c
	g.filtered = filtered
	g.visible = visible
	g.selection = selection.Empty()
	g.generation++
	g.logger.Debug().
		Str("label", c.Label).
		Str("value", c.Value).
		Int("visible", len(visible)).
		Msg("filter changed")
	g.notify()
}

// SetFilterLabel changes the column scope of the current criterion.
func (g *Grid) SetFilterLabel(label string) {
	c := g.criterion
	c.Label = label
	g.SetFilter(c)
}

// SetFilterValue changes the search term of the current criterion.
func (g *Grid) SetFilterValue(value string) {
	c := g.criterion
	c.Value = value
	g.SetFilter(c)
}

// SetOrder replaces the order spec. A panicking comparator aborts the change
// and leaves the grid as it was.
func (g *Grid) SetOrder(spec datagrid.OrderSpec) {
	visible := order.Apply(g.resolvedOrder(spec), g.filtered)

	g.order = spec
	g.visible = visible
	g.generation++
	g.logger.Debug().
		Str("key", spec.Key).
		Bool("forward", spec.Forward).
		Msg("order changed")
	g.notify()
}

// resolvedOrder fills in the column type's default comparator when none is set.
func (g *Grid) resolvedOrder(spec datagrid.OrderSpec) datagrid.OrderSpec {
	if !spec.IsSorted() || spec.Compare != nil {
		return spec
	}
	spec.Compare = order.Values
	for _, col := range g.columns {
		if col.Name == spec.Key {
			spec.Compare = order.ForType(col.Type)
			break
		}
	}
	return spec
}

// ChangePage asks the reloader for the page at pageIndex and returns the
// emitted offset.
func (g *Grid) ChangePage(pageIndex int) (int, error) {
	offset, err := g.pager.ChangePage(pageIndex)
	if err != nil {
		g.logger.Debug().Err(err).Int("page", pageIndex).Msg("page change rejected")
		return 0, err
	}
	return offset, nil
}

// Snapshot returns a copy of the current state.
func (g *Grid) Snapshot() Snapshot {
	return g.snapshot()
}

// Visible returns a copy of the filtered and sorted dataset.
func (g *Grid) Visible() []datagrid.Row {
	return datagrid.Clone(g.visible)
}

// Selection returns a copy of the selection state.
func (g *Grid) Selection() datagrid.SelectionState {
	return g.selection.Clone()
}

// IsSelected reports whether key is selected.
func (g *Grid) IsSelected(key any) bool {
	return selection.Contains(g.selection, key)
}

// Criterion returns the active filter.
func (g *Grid) Criterion() datagrid.Criterion {
	return g.criterion
}

// Order returns the active order spec.
func (g *Grid) Order() datagrid.OrderSpec {
	return g.order
}

// Columns returns the column descriptors.
func (g *Grid) Columns() []datagrid.Column {
	return g.columns
}

// RowOverrides returns the per-row display overrides, untouched.
func (g *Grid) RowOverrides() []RowOverride {
	return g.cfg.Rows
}

// Key returns the identity of row.
func (g *Grid) Key(row datagrid.Row) any {
	return g.tracker.Key(row)
}

// Total returns the size of the source dataset.
func (g *Grid) Total() int {
	return len(g.source)
}

// PageCount returns the number of pages covering the source dataset, or 0
// when pagination is disabled.
func (g *Grid) PageCount() int {
	return pagination.PageCount(len(g.source), g.pager.Limit())
}

// SuggestLabel returns the column label closest to label when label matches
// no column.
func (g *Grid) SuggestLabel(label string) (string, bool) {
	return filter.Suggest(label, g.columns)
}

// Layout reports which presentation sections the configuration asks for.
func (g *Grid) Layout() Layout {
	return Layout{
		Header: g.cfg.EnableFilter || g.cfg.Selection,
		Footer: g.pager.Enabled() || g.cfg.HasFooter,
	}
}

// StyleTags returns the semantic style tags of the grid.
func (g *Grid) StyleTags() []datagrid.StyleTag {
	return datagrid.StyleTags(g.cfg.Style)
}

// OnChange registers fn to receive a snapshot after every transition.
func (g *Grid) OnChange(fn func(Snapshot)) {
	g.listeners = append(g.listeners, fn)
}

// OnLoadError registers fn to be told about page loads that failed.
func (g *Grid) OnLoadError(fn func(offset int, err error)) {
	g.errListeners = append(g.errListeners, fn)
}

func (g *Grid) notify() {
	if len(g.listeners) == 0 {
		return
	}
	s := g.snapshot()
	for _, fn := range g.listeners {
		fn(s)
	}
}
