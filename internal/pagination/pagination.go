// Package pagination turns page indices into data offsets.
package pagination

import (
	"fmt"

	"github.com/magpierre/datagrid/datagrid"
)

// Adapter forwards page changes to a reloader. It keeps no dataset; the
// reloader is expected to replace the grid's rows with the requested page.
type Adapter struct {
	limit    int
	reloader datagrid.Reloader
}

// NewAdapter returns an Adapter for pages of limit rows. A limit <= 0 disables
// pagination.
func NewAdapter(limit int, reloader datagrid.Reloader) *Adapter {
	return &Adapter{limit: limit, reloader: reloader}
}

// Enabled reports whether page changes can be emitted.
func (a *Adapter) Enabled() bool {
	return a.limit > 0
}

// Limit returns the page size.
func (a *Adapter) Limit() int {
	return a.limit
}

// Offset returns the data offset of a page.
func (a *Adapter) Offset(pageIndex int) (int, error) {
	if !a.Enabled() {
		return 0, datagrid.ErrPaginationDisabled
	}
	if pageIndex < 0 {
		return 0, fmt.Errorf("%w: %d", datagrid.ErrInvalidPage, pageIndex)
	}
	return pageIndex * a.limit, nil
}

// ChangePage emits the offset of pageIndex to the reloader and returns it.
// There is no de-duplication or in-flight tracking.
func (a *Adapter) ChangePage(pageIndex int) (int, error) {
	offset, err := a.Offset(pageIndex)
	if err != nil {
		return 0, err
	}
	if a.reloader == nil {
		return 0, datagrid.ErrNoDataSource
	}
	a.reloader.Rerender(offset)
	return offset, nil
}

// PageCount returns how many pages of limit rows cover total rows.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
