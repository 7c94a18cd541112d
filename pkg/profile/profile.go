package profile

import (
	"strings"

	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

// Columns with at most this many distinct values are treated as
// categorical even when their cells parse as numbers.
const lowCardinalityLimit = 10

// NumericSummary is the five-number-plus-mean-std summary of a numeric column.
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ColumnProfile holds the per-column statistics of a dataset profile.
// Categorical columns carry ValueDistribution (ratios over non-missing
// cells, summing to 1.0); numeric columns carry NumericSummary. A
// low-cardinality numeric column carries both.
type ColumnProfile struct {
	Name              string             `json:"name"`
	DType             string             `json:"dtype"`
	MissingCount      int                `json:"missing_count"`
	MissingPct        float64            `json:"missing_pct"`
	DistinctValues    int                `json:"distinct_values"`
	ValueDistribution map[string]float64 `json:"value_distribution,omitempty"`
	NumericSummary    *NumericSummary    `json:"numeric_summary,omitempty"`
}

// DatasetProfile is the dataset-level statistics record the bias
// analyzer consumes. TotalMissingPct is the dataset-wide missing-cell
// percentage over rows x columns, not a per-column average.
type DatasetProfile struct {
	RowCount            int             `json:"row_count"`
	ColumnCount         int             `json:"column_count"`
	Columns             []ColumnProfile `json:"columns"`
	DuplicateRowCount   int             `json:"duplicate_row_count"`
	TotalMissingPct     float64         `json:"total_missing_pct"`
	ProtectedAttributes []string        `json:"protected_attributes"`
	TargetColumn        string          `json:"target_column,omitempty"`
}

// Column returns the profile of the named column, or nil if absent.
func (p *DatasetProfile) Column(name string) *ColumnProfile {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// Options configures protected-attribute and target detection.
type Options struct {
	// ProtectedAttributes are explicitly designated sensitive columns,
	// added on top of name-based detection.
	ProtectedAttributes []string
	// TargetColumn overrides target auto-detection when non-empty.
	TargetColumn string
	// SensitiveTerms overrides the default sensitive-term list when non-nil.
	SensitiveTerms []string
}

// Profile computes the full statistics record for a table. It returns
// dataset.ErrEmptyDataset for a table with no data rows or no columns
// and never returns a partial profile.
func Profile(t *dataset.Table, opts Options) (*DatasetProfile, error) {
	if t == nil || t.RowCount() == 0 || t.ColumnCount() == 0 {
		return nil, dataset.ErrEmptyDataset
	}

	rows := t.RowCount()
	cols := t.ColumnCount()

	profiles := make([]ColumnProfile, 0, cols)
	totalMissing := 0
	for i, name := range t.Columns {
		cp := profileColumn(t, i, name)
		totalMissing += cp.MissingCount
		profiles = append(profiles, cp)
	}

	target := opts.TargetColumn
	if target == "" {
		target = DetectTargetColumn(t)
	}

	terms := opts.SensitiveTerms
	if terms == nil {
		terms = DefaultSensitiveTerms
	}

	return &DatasetProfile{
		RowCount:            rows,
		ColumnCount:         cols,
		Columns:             profiles,
		DuplicateRowCount:   duplicateRowCount(t),
		TotalMissingPct:     float64(totalMissing) / float64(rows*cols) * 100,
		ProtectedAttributes: protectedAttributes(t.Columns, terms, opts.ProtectedAttributes, target),
		TargetColumn:        target,
	}, nil
}

func profileColumn(t *dataset.Table, idx int, name string) ColumnProfile {
	rows := t.RowCount()

	counts := make(map[string]int)
	values := make([]float64, 0, rows)
	missing := 0
	allInt := true
	allFloat := true

	for _, row := range t.Rows {
		cell := row[idx]
		if dataset.IsMissing(cell) {
			missing++
			continue
		}
		counts[cell]++

		f, isFloat, isInt := parseNumeric(cell)
		if !isInt {
			allInt = false
		}
		if !isFloat {
			allFloat = false
			continue
		}
		values = append(values, f)
	}
	nonMissing := rows - missing

	dtype := "string"
	if nonMissing > 0 && allFloat {
		dtype = "float"
		if allInt {
			dtype = "int"
		}
	}

	cp := ColumnProfile{
		Name:           name,
		DType:          dtype,
		MissingCount:   missing,
		MissingPct:     float64(missing) / float64(rows) * 100,
		DistinctValues: len(counts),
	}

	categorical := dtype == "string" || len(counts) <= lowCardinalityLimit
	if categorical && nonMissing > 0 {
		dist := make(map[string]float64, len(counts))
		for value, count := range counts {
			dist[value] = float64(count) / float64(nonMissing)
		}
		cp.ValueDistribution = dist
	}

	if dtype != "string" && len(values) > 0 {
		cp.NumericSummary = summarize(values)
	}

	return cp
}

// parseNumeric reports the parsed value and whether the cell is a valid
// float and a valid integer respectively.
func parseNumeric(cell string) (float64, bool, bool) {
	cell = strings.TrimSpace(cell)
	f, err := parseFloat(cell)
	if err != nil {
		return 0, false, false
	}
	_, intErr := parseInt(cell)
	return f, true, intErr == nil
}

func duplicateRowCount(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.RowCount())
	duplicates := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

func protectedAttributes(columns, terms, explicit []string, target string) []string {
	explicitSet := make(map[string]struct{}, len(explicit))
	for _, name := range explicit {
		explicitSet[name] = struct{}{}
	}

	protected := make([]string, 0)
	for _, name := range columns {
		_, designated := explicitSet[name]
		if designated || name == target || IsSensitiveName(name, terms) {
			protected = append(protected, name)
		}
	}
	return protected
}
