package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk encoding of an uploaded dataset.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	// ErrEmptyDataset is returned when a dataset decodes to zero data rows.
	ErrEmptyDataset = errors.New("dataset contains no rows")
	// ErrUnsupportedFormat is returned for encodings the engine cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// LoadError wraps a parse or conversion failure for a specific format.
type LoadError struct {
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s dataset: %v", e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Table is an immutable rows-by-named-columns view of a dataset.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) RowCount() int {
	return len(t.Rows)
}

func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Column returns the index of the named column, or -1 if absent.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// FormatFromFilename derives the dataset format from a file name extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	case "xls":
		return FormatXLS, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Decode parses raw dataset bytes into a Table. It never returns a
// partial table: any failure yields a nil table and a non-nil error.
func Decode(data []byte, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(data)
	case FormatJSON:
		return decodeJSON(data)
	case FormatXLSX, FormatXLS:
		return decodeExcel(data, format)
	default:
		return nil, ErrUnsupportedFormat
	}
}
