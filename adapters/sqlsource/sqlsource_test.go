package sqlsource

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/datagrid/datagrid"
)

const fixture = `
CREATE TABLE fruit (
    id    INTEGER PRIMARY KEY,
    name  TEXT NOT NULL,
    price REAL,
    note  VARCHAR(20)
);
INSERT INTO fruit (id, name, price, note) VALUES
    (1, 'apple', 1.5, NULL),
    (2, 'banana', 0.25, 'ripe'),
    (3, 'carrot', 0.75, NULL),
    (4, 'date', 3.0, 'dry'),
    (5, 'elder', 2.0, NULL);
`

func openFixture(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(fixture)
	require.NoError(t, err)
	return db
}

func TestSource_LoadPage(t *testing.T) {
	src, err := New(openFixture(t), "fruit", WithColumns("id", "name"), WithOrderBy("id"))
	require.NoError(t, err)

	tests := map[string]struct {
		offset   int
		limit    int
		expected []any
	}{
		"first page":   {offset: 0, limit: 2, expected: []any{int64(1), int64(2)}},
		"second page":  {offset: 2, limit: 2, expected: []any{int64(3), int64(4)}},
		"short page":   {offset: 4, limit: 2, expected: []any{int64(5)}},
		"past the end": {offset: 10, limit: 2, expected: []any{}},
		"no limit":     {offset: 3, limit: 0, expected: []any{int64(4), int64(5)}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := src.LoadPage(context.Background(), tc.offset, tc.limit)
			require.NoError(t, err)

			ids := make([]any, len(rows))
			for i, r := range rows {
				ids[i] = r["id"]
				assert.Len(t, r, 2)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestSource_LoadPageValues(t *testing.T) {
	src, err := New(openFixture(t), "fruit")
	require.NoError(t, err)

	rows, err := src.LoadPage(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, datagrid.Row{"id": int64(2), "name": "banana", "price": 0.25, "note": "ripe"}, rows[0])

	rows, err = src.LoadPage(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Nil(t, rows[0]["note"])

	_, err = src.LoadPage(context.Background(), -1, 1)
	require.ErrorIs(t, err, datagrid.ErrInvalidPage)
}

func TestSource_CountAndColumns(t *testing.T) {
	src, err := New(openFixture(t), "fruit")
	require.NoError(t, err)

	n, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	columns, err := src.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []datagrid.Column{
		{Name: "id", Label: "id", Type: datagrid.TypeInt},
		{Name: "name", Label: "name", Type: datagrid.TypeString},
		{Name: "price", Label: "price", Type: datagrid.TypeFloat},
		{Name: "note", Label: "note", Type: datagrid.TypeString},
	}, columns)

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 5)
	assert.Equal(t, []string{"id", "name", "price", "note"}, ds.ColumnNames())
}

func TestSource_UnknownColumn(t *testing.T) {
	src, err := New(openFixture(t), "fruit", WithColumns("id", "colour"))
	require.NoError(t, err)

	_, err = src.Columns(context.Background())
	require.ErrorIs(t, err, datagrid.ErrColumnNotFound)

	missing, err := New(openFixture(t), "vegetables")
	require.NoError(t, err)
	_, err = missing.Columns(context.Background())
	require.ErrorIs(t, err, datagrid.ErrColumnNotFound)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		table       string
		opts        []Option
		expectedErr error
	}{
		"plain":          {table: "fruit"},
		"injected table": {table: "fruit; DROP TABLE fruit", expectedErr: datagrid.ErrInvalidIdentifier},
		"quoted column":  {table: "fruit", opts: []Option{WithColumns(`id"`)}, expectedErr: datagrid.ErrInvalidIdentifier},
		"bad order":      {table: "fruit", opts: []Option{WithOrderBy("1=1")}, expectedErr: datagrid.ErrInvalidIdentifier},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := New(&sql.DB{}, tc.table, tc.opts...)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := New(nil, "fruit")
	require.ErrorIs(t, err, datagrid.ErrNoDataSource)
}

func TestDataTypeOf(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected datagrid.DataType
	}{
		"integer":    {input: "INTEGER", expected: datagrid.TypeInt},
		"bigint":     {input: "bigint", expected: datagrid.TypeInt},
		"varchar":    {input: "VARCHAR(20)", expected: datagrid.TypeString},
		"double":     {input: "DOUBLE PRECISION", expected: datagrid.TypeFloat},
		"blob":       {input: "BLOB", expected: datagrid.TypeBinary},
		"boolean":    {input: "BOOLEAN", expected: datagrid.TypeBool},
		"datetime":   {input: "DATETIME", expected: datagrid.TypeTimestamp},
		"date":       {input: "DATE", expected: datagrid.TypeDate},
		"decimal":    {input: "DECIMAL(10,2)", expected: datagrid.TypeDecimal},
		"undeclared": {input: "", expected: datagrid.TypeString},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, dataTypeOf(tc.input))
		})
	}
}
