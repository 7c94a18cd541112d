package profile

import (
	"testing"

	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

func TestIsSensitiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		column string
		want   bool
	}{
		{name: "exact", column: "gender", want: true},
		{name: "uppercase", column: "Gender", want: true},
		{name: "substring", column: "applicant_age_years", want: true},
		{name: "race", column: "race", want: true},
		{name: "plain_feature", column: "loan_amount", want: false},
		{name: "empty", column: "", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := IsSensitiveName(tc.column, DefaultSensitiveTerms)
			if got != tc.want {
				t.Fatalf("IsSensitiveName(%q) = %v, want %v", tc.column, got, tc.want)
			}
		})
	}
}

func TestDetectTargetColumnByName(t *testing.T) {
	t.Parallel()

	table := &dataset.Table{
		Columns: []string{"feature_a", "label", "feature_b"},
		Rows:    [][]string{{"1", "yes", "2"}},
	}
	if got := DetectTargetColumn(table); got != "label" {
		t.Fatalf("got %q, want label", got)
	}
}

func TestDetectTargetColumnBinaryFallback(t *testing.T) {
	t.Parallel()

	table := &dataset.Table{
		Columns: []string{"amount", "flag"},
		Rows: [][]string{
			{"100", "0"},
			{"200", "1"},
			{"300", "1"},
		},
	}
	if got := DetectTargetColumn(table); got != "flag" {
		t.Fatalf("got %q, want flag", got)
	}
}

func TestDetectTargetColumnNone(t *testing.T) {
	t.Parallel()

	table := &dataset.Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"100", "x"},
			{"200", "y"},
		},
	}
	if got := DetectTargetColumn(table); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
