package datagrid

import "errors"

// Common errors returned by the datagrid packages.
var (
	// ErrPaginationDisabled is returned when a page change is requested
	// without a configured page limit.
	ErrPaginationDisabled = errors.New("pagination disabled")

	// ErrInvalidPage is returned when a page index is negative.
	ErrInvalidPage = errors.New("invalid page index")

	// ErrInvalidFilter is returned when a filter expression is invalid.
	ErrInvalidFilter = errors.New("invalid filter expression")

	// ErrNoDataSource is returned when a required data source is nil.
	ErrNoDataSource = errors.New("data source is nil")

	// ErrEmptyData is returned when data is empty where it shouldn't be.
	ErrEmptyData = errors.New("data is empty")

	// ErrColumnNotFound is returned when a column name is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrUnsupportedFile is returned when a file type cannot be loaded.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrInvalidIdentifier is returned when a table or column name is not a
	// plain SQL identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrScript is returned when a comparator or renderer script fails to
	// compile or has the wrong signature.
	ErrScript = errors.New("script error")

	// ErrExportFailed is returned when export operation fails.
	ErrExportFailed = errors.New("export failed")
)
