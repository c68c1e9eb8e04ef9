// Package gridbind publishes grid snapshots to Fyne data bindings and renders
// grid style tags as a Fyne theme.
package gridbind

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2/data/binding"
	"github.com/rs/zerolog/log"

	"github.com/magpierre/datagrid/datagrid"
	"github.com/magpierre/datagrid/grid"
)

// Publisher mirrors a grid snapshot into bindings that Fyne widgets can be
// bound to. Widgets read the bindings; they never see the grid itself.
type Publisher struct {
	SelectAll    binding.Bool
	Selected     binding.UntypedList
	FilterLabel  binding.String
	FilterValue  binding.String
	OrderKey     binding.String
	Forward      binding.Bool
	Visible      binding.UntypedList
	VisibleCount binding.Int
	Total        binding.Int

	generation uint64
}

// NewPublisher creates a publisher with empty bindings.
func NewPublisher() *Publisher {
	return &Publisher{
		SelectAll:    binding.NewBool(),
		Selected:     binding.NewUntypedList(),
		FilterLabel:  binding.NewString(),
		FilterValue:  binding.NewString(),
		OrderKey:     binding.NewString(),
		Forward:      binding.NewBool(),
		Visible:      binding.NewUntypedList(),
		VisibleCount: binding.NewInt(),
		Total:        binding.NewInt(),
	}
}

// Attach publishes g's current state and every later transition.
func Attach(g *grid.Grid) *Publisher {
	p := NewPublisher()
	publish := func(s grid.Snapshot) {
		if err := p.Publish(s); err != nil {
			log.Error().Err(err).Uint64("generation", s.Generation).Msg("failed to publish snapshot")
		}
	}
	publish(g.Snapshot())
	g.OnChange(publish)
	return p
}

// Publish copies s into the bindings. Snapshots older than the last published
// one are ignored.
func (p *Publisher) Publish(s grid.Snapshot) error {
	if s.Generation != 0 && s.Generation < p.generation {
		log.Debug().Uint64("generation", s.Generation).Msg("stale snapshot dropped")
		return nil
	}
	p.generation = s.Generation

	visible := make([]any, len(s.Visible))
	for i, r := range s.Visible {
		visible[i] = r
	}

	return errors.Join(
		p.SelectAll.Set(s.SelectAll),
		p.Selected.Set(s.Selected),
		p.FilterLabel.Set(s.Criterion.Label),
		p.FilterValue.Set(s.Criterion.Value),
		p.OrderKey.Set(s.Order.Key),
		p.Forward.Set(s.Order.Forward),
		p.Visible.Set(visible),
		p.VisibleCount.Set(len(s.Visible)),
		p.Total.Set(s.Total),
	)
}

// Row returns the visible row at index i.
func (p *Publisher) Row(i int) (datagrid.Row, error) {
	v, err := p.Visible.GetValue(i)
	if err != nil {
		return nil, err
	}
	row, ok := v.(datagrid.Row)
	if !ok {
		return nil, fmt.Errorf("visible item %d is %T, not a row", i, v)
	}
	return row, nil
}
