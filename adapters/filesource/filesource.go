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

// Package filesource loads local data files into grid datasets.
package filesource

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	arrowadapter "github.com/magpierre/datagrid/adapters/arrow"
	"github.com/magpierre/datagrid/adapters/jsonrows"
	"github.com/magpierre/datagrid/datagrid"
)

// FileType represents the type of data file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
	FileTypeDeltaSharingProfile
)

func (f FileType) String() string {
	switch f {
	case FileTypeCSV:
		return "csv"
	case FileTypeParquet:
		return "parquet"
	case FileTypeJSON:
		return "json"
	case FileTypeDeltaSharingProfile:
		return "delta sharing profile"
	default:
		return "unknown"
	}
}

// Options tune how a file is read.
type Options struct {
	// JSONPath selects the rows inside a JSON document (gjson syntax).
	JSONPath string
	// Separator overrides CSV separator detection when non-zero.
	Separator rune
}

// DetectFileType determines the type of file based on extension and content
func DetectFileType(filePath string, content string) FileType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv", ".tsv":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".json", ".share", ".txt":
		if isDeltaSharingProfile(content) {
			return FileTypeDeltaSharingProfile
		}
		return FileTypeJSON
	default:
		return FileTypeUnknown
	}
}

// isDeltaSharingProfile checks if the content looks like a Delta Sharing profile
func isDeltaSharingProfile(content string) bool {
	var profile map[string]any
	if err := json.Unmarshal([]byte(content), &profile); err != nil {
		return false
	}

	_, hasVersion := profile["shareCredentialsVersion"]
	_, hasEndpoint := profile["endpoint"]
	_, hasBearerToken := profile["bearerToken"]

	return hasVersion && hasEndpoint && hasBearerToken
}

// DetectSeparator guesses the CSV separator from the first line: the most
// frequent of comma, semicolon, tab and pipe, or comma when none occurs.
func DetectSeparator(r io.Reader) rune {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return ','
	}

	firstLine := scanner.Text()
	maxCount := 0
	detectedSep := ','
	// fixed order so ties resolve the same way every time
	for _, sep := range []rune{',', ';', '\t', '|'} {
		if count := strings.Count(firstLine, string(sep)); count > maxCount {
			maxCount = count
			detectedSep = sep
		}
	}
	return detectedSep
}

// separatorName returns a human-readable name for the separator
func separatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}

// Load reads a CSV, Parquet or JSON file into a dataset.
func Load(ctx context.Context, filePath string, opts Options) (datagrid.Dataset, error) {
	var head string
	if ext := strings.ToLower(filepath.Ext(filePath)); ext == ".json" || ext == ".share" || ext == ".txt" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return datagrid.Dataset{}, fmt.Errorf("failed to read file: %w", err)
		}
		head = string(content)
	}

	fileType := DetectFileType(filePath, head)
	log.Debug().Str("path", filePath).Stringer("type", fileType).Msg("loading data file")

	var (
		ds  datagrid.Dataset
		err error
	)
	switch fileType {
	case FileTypeCSV:
		ds, err = loadCSVFile(filePath, opts.Separator)
	case FileTypeParquet:
		ds, err = loadParquetFile(ctx, filePath)
	case FileTypeJSON:
		ds, err = jsonrows.Parse([]byte(head), opts.JSONPath)
	case FileTypeDeltaSharingProfile:
		err = fmt.Errorf("%w: %s is a delta sharing profile, open it as a delta sharing source",
			datagrid.ErrUnsupportedFile, filepath.Base(filePath))
	default:
		err = fmt.Errorf("%w: %s", datagrid.ErrUnsupportedFile, filepath.Base(filePath))
	}
	if err != nil {
		log.Error().Err(err).Str("path", filePath).Msg("failed to load data file")
		return datagrid.Dataset{}, err
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Int("rows", len(ds.Rows)).
		Int("columns", len(ds.Columns)).
		Msg("loaded data file")
	return ds, nil
}

func loadCSVFile(filePath string, separator rune) (datagrid.Dataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return datagrid.Dataset{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if separator == 0 {
		separator = DetectSeparator(f)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return datagrid.Dataset{}, fmt.Errorf("failed to rewind file: %w", err)
		}
	}
	log.Debug().Str("separator", separatorName(separator)).Msg("reading CSV")

	table, err := arrowadapter.ReadCSV(f, separator)
	if err != nil {
		return datagrid.Dataset{}, fmt.Errorf("failed to load CSV file: %w", err)
	}
	defer table.Release()

	return arrowadapter.NewFromArrowTable(table)
}

func loadParquetFile(ctx context.Context, filePath string) (datagrid.Dataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return datagrid.Dataset{}, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	table, err := arrowadapter.ReadParquet(ctx, f)
	if err != nil {
		return datagrid.Dataset{}, err
	}
	defer table.Release()

	return arrowadapter.NewFromArrowTable(table)
}
