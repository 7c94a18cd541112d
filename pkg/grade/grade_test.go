package grade

import (
	"fmt"
	"math"
	"testing"

	"github.com/ethica-ai/ethica/backend/pkg/assessment"
)

// uniformDims builds one score record per dimension, all at the same
// normalized score.
func uniformDims(normalized float64) []assessment.DimensionScore {
	dims := make([]assessment.DimensionScore, 0, len(assessment.Dimensions))
	for _, dim := range assessment.Dimensions {
		dims = append(dims, assessment.DimensionScore{
			Name:            dim.Name,
			RawAvg:          normalized / 100 * 4,
			Stars:           int(math.Round(normalized / 100 * 4)),
			Weight:          dim.Weight,
			NormalizedScore: normalized,
		})
	}
	return dims
}

func TestGradeCompositeFormula(t *testing.T) {
	t.Parallel()

	report := Grade(90, uniformDims(90), 80)
	// 90*0.7 + 80*0.3 = 87
	if report.EthicalScore != 87 {
		t.Fatalf("ethical score = %d, want 87", report.EthicalScore)
	}
	if report.AssessmentTotal != 90 {
		t.Fatalf("assessment total = %v, want 90", report.AssessmentTotal)
	}
	if report.BiasScore != 80 {
		t.Fatalf("bias score = %d, want 80", report.BiasScore)
	}
}

func TestGradeRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// 85*0.7 + 84*0.3 = 84.7 -> 85
	report := Grade(85, uniformDims(85), 84)
	if report.EthicalScore != 85 {
		t.Fatalf("ethical score = %d, want 85", report.EthicalScore)
	}
	if report.Grade != TierGold {
		t.Fatalf("grade = %q, want Gold", report.Grade)
	}
}

func TestGradeTierBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Tier
	}{
		{score: 100, want: TierGold},
		{score: 85, want: TierGold},
		{score: 84, want: TierSilver},
		{score: 70, want: TierSilver},
		{score: 69, want: TierBronze},
		{score: 55, want: TierBronze},
		{score: 54, want: TierNeedsImprovement},
		{score: 0, want: TierNeedsImprovement},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("score_%d", tc.score), func(t *testing.T) {
			// Feed the score through both components so the weighted sum
			// lands exactly on it.
			report := Grade(float64(tc.score), uniformDims(float64(tc.score)), tc.score)
			if report.EthicalScore != tc.score {
				t.Fatalf("ethical score = %d, want %d", report.EthicalScore, tc.score)
			}
			if report.Grade != tc.want {
				t.Fatalf("grade = %q, want %q", report.Grade, tc.want)
			}
		})
	}
}

func TestGradeZeroEverything(t *testing.T) {
	t.Parallel()

	report := Grade(0, uniformDims(0), 0)
	if report.EthicalScore != 0 {
		t.Fatalf("ethical score = %d, want 0", report.EthicalScore)
	}
	if report.Grade != TierNeedsImprovement {
		t.Fatalf("grade = %q, want NeedsImprovement", report.Grade)
	}
}

func TestGradeFairnessDisplayRecombined(t *testing.T) {
	t.Parallel()

	report := Grade(60, uniformDims(60), 90)

	for _, view := range report.Dimensions {
		if view.Name == assessment.DimFairness {
			// 60*0.7 + 90*0.3 = 69.0
			if view.DisplayScore != 69 {
				t.Fatalf("fairness display = %v, want 69", view.DisplayScore)
			}
			continue
		}
		if view.DisplayScore != view.NormalizedScore {
			t.Fatalf("dimension %q display = %v, want raw %v", view.Name, view.DisplayScore, view.NormalizedScore)
		}
	}
}

func TestGradeIssuesFormat(t *testing.T) {
	t.Parallel()

	dims := uniformDims(80)
	dims[2].NormalizedScore = 41.7 // Privacy & Consent

	report := Grade(72, dims, 80)
	if len(report.Issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(report.Issues))
	}
	want := "Privacy & Consent score below 50% (41.7%)"
	if report.Issues[0] != want {
		t.Fatalf("issue = %q, want %q", report.Issues[0], want)
	}
}

func TestGradeIssueThresholdBoundary(t *testing.T) {
	t.Parallel()

	dims := uniformDims(50)
	report := Grade(50, dims, 50)
	if len(report.Issues) != 0 {
		t.Fatalf("got %d issues at exactly 50, want 0", len(report.Issues))
	}
}

func TestGradeRecommendationsOrderAndCap(t *testing.T) {
	t.Parallel()

	// Every dimension below 70 qualifies; output keeps declaration order
	// and stops at three.
	report := Grade(40, uniformDims(40), 40)
	want := []string{
		recommendations[assessment.DimTransparency],
		recommendations[assessment.DimFairness],
		recommendations[assessment.DimPrivacy],
	}
	if len(report.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(report.Recommendations), len(want))
	}
	for i, rec := range want {
		if report.Recommendations[i] != rec {
			t.Fatalf("recommendation %d = %q, want %q", i, report.Recommendations[i], rec)
		}
	}
}

func TestGradeNoRecommendationsWhenStrong(t *testing.T) {
	t.Parallel()

	report := Grade(90, uniformDims(90), 90)
	if len(report.Recommendations) != 0 {
		t.Fatalf("got %d recommendations, want 0", len(report.Recommendations))
	}
	if len(report.Issues) != 0 {
		t.Fatalf("got %d issues, want 0", len(report.Issues))
	}
}
