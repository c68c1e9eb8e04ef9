// Package sqlsource pages rows out of a SQLite table.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/magpierre/datagrid/datagrid"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens the SQLite database at dbPath. ":memory:" opens a private
// in-memory database held on a single connection.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Source reads one table page by page. It implements datagrid.PageLoader.
type Source struct {
	db      *sql.DB
	table   string
	columns []string
	orderBy string
}

// Option configures a Source.
type Option func(*Source)

// WithColumns restricts the selected columns.
func WithColumns(columns ...string) Option {
	return func(s *Source) {
		s.columns = columns
	}
}

// WithOrderBy sets the column that gives pages a stable order. The default is
// the table's rowid.
func WithOrderBy(column string) Option {
	return func(s *Source) {
		s.orderBy = column
	}
}

// New creates a source over table. Table and column names must be plain
// identifiers.
func New(db *sql.DB, table string, opts ...Option) (*Source, error) {
	if db == nil {
		return nil, datagrid.ErrNoDataSource
	}
	s := &Source{db: db, table: table, orderBy: "rowid"}
	for _, opt := range opts {
		opt(s)
	}

	names := append([]string{s.table, s.orderBy}, s.columns...)
	for _, name := range names {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", datagrid.ErrInvalidIdentifier, name)
		}
	}
	return s, nil
}

func (s *Source) selectList() string {
	if len(s.columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(s.columns))
	for i, c := range s.columns {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

func quote(name string) string {
	if name == "rowid" {
		return name
	}
	return `"` + name + `"`
}

// LoadPage returns up to limit rows starting at offset. A limit <= 0 reads
// to the end of the table.
func (s *Source) LoadPage(ctx context.Context, offset, limit int) ([]datagrid.Row, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", datagrid.ErrInvalidPage, offset)
	}
	if limit <= 0 {
		limit = -1
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT ? OFFSET ?",
		s.selectList(), quote(s.table), quote(s.orderBy))
	log.Debug().Str("table", s.table).Int("offset", offset).Int("limit", limit).Msg("querying page")

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	out := make([]datagrid.Row, 0)
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(datagrid.Row, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}

// Count returns the number of rows in the table.
func (s *Source) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quote(s.table))).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.table, err)
	}
	return n, nil
}

// Columns describes the table's columns from their declared types. Only the
// selected columns are returned when WithColumns was given.
func (s *Source) Columns(ctx context.Context) ([]datagrid.Column, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(s.table)))
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", s.table, err)
	}
	defer rows.Close()

	declared := make(map[string]datagrid.DataType)
	var order []string
	for rows.Next() {
		var (
			cid       int
			name      string
			declType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		declared[name] = dataTypeOf(declType)
		order = append(order, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read column info: %w", err)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: table %s", datagrid.ErrColumnNotFound, s.table)
	}

	if len(s.columns) > 0 {
		order = s.columns
	}
	columns := make([]datagrid.Column, 0, len(order))
	for _, name := range order {
		t, ok := declared[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", datagrid.ErrColumnNotFound, s.table, name)
		}
		columns = append(columns, datagrid.Column{Name: name, Label: name, Type: t})
	}
	return columns, nil
}

// dataTypeOf follows SQLite's column affinity rules on the declared type.
func dataTypeOf(declType string) datagrid.DataType {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "INT"):
		return datagrid.TypeInt
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return datagrid.TypeString
	case strings.Contains(t, "BLOB"):
		return datagrid.TypeBinary
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return datagrid.TypeFloat
	case strings.Contains(t, "BOOL"):
		return datagrid.TypeBool
	case strings.Contains(t, "TIMESTAMP"), strings.Contains(t, "DATETIME"):
		return datagrid.TypeTimestamp
	case strings.Contains(t, "DATE"):
		return datagrid.TypeDate
	case strings.Contains(t, "DEC"), strings.Contains(t, "NUMERIC"):
		return datagrid.TypeDecimal
	default:
		return datagrid.TypeString
	}
}

// Load reads the whole table into a dataset.
func (s *Source) Load(ctx context.Context) (datagrid.Dataset, error) {
	columns, err := s.Columns(ctx)
	if err != nil {
		return datagrid.Dataset{}, err
	}
	rows, err := s.LoadPage(ctx, 0, 0)
	if err != nil {
		return datagrid.Dataset{}, err
	}
	return datagrid.Dataset{Columns: columns, Rows: rows}, nil
}
