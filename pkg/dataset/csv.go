package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// decodeCSV parses CSV bytes into a Table. The first record is the
// header; short rows are padded with empty cells and long rows are
// truncated to the header width.
func decodeCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Format: FormatCSV, Err: err}
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	header := records[0]
	if len(header) == 0 {
		return nil, &LoadError{Format: FormatCSV, Err: errors.New("empty header row")}
	}
	for i, name := range header {
		if name == "" {
			header[i] = fmt.Sprintf("column_%d", i)
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(header))
		copy(row, record)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	return &Table{Columns: header, Rows: rows}, nil
}
