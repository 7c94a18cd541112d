package profile

import (
	"strings"

	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

// DefaultSensitiveTerms marks columns as protected attributes when their
// lowercase name contains one of these substrings.
var DefaultSensitiveTerms = []string{
	"gender",
	"sex",
	"race",
	"ethnic",
	"age",
	"religion",
	"disability",
	"income",
	"salary",
	"marital",
	"relationship",
	"education",
	"native-country",
	"workclass",
	"nationality",
}

var targetTerms = []string{
	"target",
	"label",
	"outcome",
	"result",
	"prediction",
	"class",
	"approved",
	"default",
	"churn",
	"score",
}

// IsSensitiveName reports whether a column name matches the sensitive-term
// list. Matching is case-insensitive substring containment, so "Age" and
// "age_group" both count.
func IsSensitiveName(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// DetectTargetColumn guesses the target/label column: first by name
// keywords, then by looking for a binary 0/1 numeric column. It returns
// "" when nothing qualifies.
func DetectTargetColumn(t *dataset.Table) string {
	for _, name := range t.Columns {
		lower := strings.ToLower(name)
		for _, term := range targetTerms {
			if strings.Contains(lower, term) {
				return name
			}
		}
	}

	for idx, name := range t.Columns {
		if isBinaryColumn(t, idx) {
			return name
		}
	}
	return ""
}

func isBinaryColumn(t *dataset.Table, idx int) bool {
	seen := make(map[string]struct{}, 2)
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[idx])
		if dataset.IsMissing(cell) {
			continue
		}
		if cell != "0" && cell != "1" {
			return false
		}
		seen[cell] = struct{}{}
	}
	return len(seen) == 2
}
