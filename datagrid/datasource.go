package datagrid

import "context"

//go:generate mockgen -destination=datasource_mock.go -package=datagrid -source=datasource.go

// Reloader is the external collaborator notified by a page change.
// It is expected to fetch the rows at offset and replace the grid's dataset.
type Reloader interface {
	Rerender(offset int)
}

// ReloaderFunc adapts a function to the Reloader interface.
type ReloaderFunc func(offset int)

// Rerender implements Reloader.
func (f ReloaderFunc) Rerender(offset int) {
	f(offset)
}

// PageLoader fetches a window of rows from a data source.
// Implementations return fewer than limit rows at the end of the source and
// should return errors rather than panic.
type PageLoader interface {
	// LoadPage returns up to limit rows starting at offset.
	LoadPage(ctx context.Context, offset, limit int) ([]Row, error)
}

// Dataset is a loaded table: its column descriptors and its rows.
type Dataset struct {
	Columns []Column
	Rows    []Row
}

// ColumnNames returns the names of the dataset's columns in order.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}
