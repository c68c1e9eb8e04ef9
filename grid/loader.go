package grid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/magpierre/datagrid/datagrid"
)

// DefaultLoadTimeout bounds a page load when no timeout is configured.
const DefaultLoadTimeout = 60 * time.Second

type loaderOptions struct {
	loader  datagrid.PageLoader
	timeout time.Duration
}

// WithPageLoader makes the grid its own reload collaborator: a page change
// loads the page from loader and replaces the dataset with it. A failed load
// leaves the grid untouched and is reported to OnLoadError listeners.
// It takes precedence over WithReloader. A nil loader is ignored.
func WithPageLoader(loader datagrid.PageLoader, timeout time.Duration) Option {
	return func(g *Grid) {
		if loader == nil {
			return
		}
		g.loaderOptions = &loaderOptions{loader: loader, timeout: timeout}
	}
}

// createTimeoutContext creates a context bounded by timeout, or by
// DefaultLoadTimeout when timeout <= 0.
func createTimeoutContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (g *Grid) load(offset int) {
	opts := g.loaderOptions
	requestID := uuid.New()
	limit := g.pager.Limit()

	ctx, cancel := createTimeoutContext(opts.timeout)
	defer cancel()

	start := time.Now()
	g.logger.Info().
		Str("request_id", requestID.String()).
		Int("offset", offset).
		Int("limit", limit).
		Msg("loading page")

	rows, err := opts.loader.LoadPage(ctx, offset, limit)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("request_id", requestID.String()).
			Int("offset", offset).
			Msg("page load failed")
		for _, fn := range g.errListeners {
			fn(offset, err)
		}
		return
	}

	g.logger.Debug().
		Str("request_id", requestID.String()).
		Int("rows", len(rows)).
		Dur("latency", time.Since(start)).
		Msg("page loaded")
	g.Replace(rows)
}
