package filesource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowadapter "github.com/magpierre/datagrid/adapters/arrow"
	"github.com/magpierre/datagrid/datagrid"
)

const profile = `{"shareCredentialsVersion":1,"endpoint":"https://sharing.example.com/delta-sharing/","bearerToken":"token"}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectFileType(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		path     string
		content  string
		expected FileType
	}{
		"csv":           {path: "a.CSV", expected: FileTypeCSV},
		"tsv":           {path: "a.tsv", expected: FileTypeCSV},
		"parquet":       {path: "a.parquet", expected: FileTypeParquet},
		"json":          {path: "a.json", content: `[{"id":1}]`, expected: FileTypeJSON},
		"profile":       {path: "a.share", content: profile, expected: FileTypeDeltaSharingProfile},
		"profile in js": {path: "a.json", content: profile, expected: FileTypeDeltaSharingProfile},
		"unknown":       {path: "a.xlsx", expected: FileTypeUnknown},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, DetectFileType(tc.path, tc.content))
		})
	}
}

func TestDetectSeparator(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input    string
		expected rune
	}{
		"comma":     {input: "a,b,c\n1,2,3", expected: ','},
		"semicolon": {input: "a;b;c", expected: ';'},
		"tab":       {input: "a\tb", expected: '\t'},
		"pipe":      {input: "a|b|c|d", expected: '|'},
		"none":      {input: "single", expected: ','},
		"empty":     {input: "", expected: ','},
		"tie":       {input: "a,b;c", expected: ','},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, DetectSeparator(strings.NewReader(tc.input)))
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "fruit.csv", "id;name\n1;apple\n2;banana\n")

	ds, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, ds.ColumnNames())
	assert.Equal(t, []datagrid.Row{
		{"id": int64(1), "name": "apple"},
		{"id": int64(2), "name": "banana"},
	}, ds.Rows)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "fruit.json", `{"items":[{"id":1,"name":"apple"}]}`)

	ds, err := Load(context.Background(), path, Options{JSONPath: "items"})
	require.NoError(t, err)
	assert.Equal(t, []datagrid.Row{{"id": int64(1), "name": "apple"}}, ds.Rows)
}

func TestLoad_Parquet(t *testing.T) {
	table, err := arrowadapter.NewArrowTable(datagrid.Dataset{
		Columns: []datagrid.Column{{Name: "id"}, {Name: "name"}},
		Rows:    []datagrid.Row{{"id": 1, "name": "apple"}},
	}, nil)
	require.NoError(t, err)
	defer table.Release()

	path := filepath.Join(t.TempDir(), "fruit.parquet")
	require.NoError(t, arrowadapter.ExportFile(table, arrowadapter.FormatParquet, path))

	ds, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []datagrid.Row{{"id": int64(1), "name": "apple"}}, ds.Rows)
	assert.Equal(t, datagrid.TypeInt, ds.Columns[0].Type)
}

func TestLoad_Unsupported(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		name    string
		content string
	}{
		"profile":   {name: "cred.share", content: profile},
		"extension": {name: "sheet.xlsx", content: "binary"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(context.Background(), writeFile(t, tc.name, tc.content), Options{})
			require.ErrorIs(t, err, datagrid.ErrUnsupportedFile)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
}
