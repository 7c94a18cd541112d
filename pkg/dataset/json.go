package dataset

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// decodeJSON parses a JSON array of flat objects into a Table. Columns
// are the sorted union of all object keys so the result is deterministic
// regardless of per-record key order.
func decodeJSON(data []byte) (*Table, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Format: FormatJSON, Err: err}
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	seen := make(map[string]struct{})
	var columns []string
	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)
	if len(columns) == 0 {
		return nil, ErrEmptyDataset
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellString(record[col])
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// cellString renders a decoded JSON value the way it would appear in a
// CSV cell. Integer-valued floats keep their integer form.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
