package grade

import (
	"fmt"
	"math"

	"github.com/ethica-ai/ethica/backend/pkg/assessment"
)

// Tier is the grade band of a composite report.
type Tier string

const (
	TierGold             Tier = "Gold"
	TierSilver           Tier = "Silver"
	TierBronze           Tier = "Bronze"
	TierNeedsImprovement Tier = "NeedsImprovement"
)

// Inclusive lower score bounds of the grade tiers.
const (
	goldFloor   = 85
	silverFloor = 70
	bronzeFloor = 55
)

// Dimensions below this normalized score are flagged as issues.
const issueThreshold = 50

// Dimensions below this normalized score earn a recommendation.
const recommendationThreshold = 70

const maxRecommendations = 3

// Weights of the assessment total and the dataset bias score in the
// combined ethical score.
const (
	assessmentWeight = 0.7
	biasWeight       = 0.3
)

// DimensionView is a dimension score with its display value. For
// Fairness & Bias the display score is recombined 70/30 with the dataset
// bias score; every other dimension displays its raw normalized score.
type DimensionView struct {
	assessment.DimensionScore
	DisplayScore float64 `json:"display_score"`
}

// CompositeReport combines the questionnaire assessment and the dataset
// bias analysis into one score, grade tier, issue list, and
// recommendation list. It is constructed once per assessment/analysis
// pair and never mutated.
type CompositeReport struct {
	EthicalScore    int             `json:"ethical_score"`
	AssessmentTotal float64         `json:"assessment_total"`
	BiasScore       int             `json:"bias_score"`
	Grade           Tier            `json:"grade"`
	Dimensions      []DimensionView `json:"dimensions"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

var recommendations = map[string]string{
	assessment.DimTransparency:   "Document model behavior, data sources, and decision logic for end users",
	assessment.DimFairness:       "Audit training data and outcomes for disparate impact across demographic groups",
	assessment.DimPrivacy:        "Strengthen consent collection and apply data minimization",
	assessment.DimAccountability: "Assign clear ownership for AI decisions and establish an escalation path",
	assessment.DimSecurity:       "Harden the model and data pipeline against tampering and leakage",
	assessment.DimInclusivity:    "Involve affected communities and test with diverse user groups",
	assessment.DimRegulation:     "Review applicable AI regulations and document compliance measures",
}

// Grade computes the composite report from an assessment total, its
// per-dimension scores, and the dataset bias score.
func Grade(total float64, dims []assessment.DimensionScore, biasScore int) *CompositeReport {
	ethical := int(math.Round(total*assessmentWeight + float64(biasScore)*biasWeight))

	views := make([]DimensionView, 0, len(dims))
	var issues []string
	var recs []string
	for _, dim := range dims {
		display := dim.NormalizedScore
		if dim.Name == assessment.DimFairness {
			display = round1(dim.NormalizedScore*assessmentWeight + float64(biasScore)*biasWeight)
		}
		views = append(views, DimensionView{DimensionScore: dim, DisplayScore: display})

		if dim.NormalizedScore < issueThreshold {
			issues = append(issues, fmt.Sprintf("%s score below %d%% (%.1f%%)", dim.Name, issueThreshold, dim.NormalizedScore))
		}
		if dim.NormalizedScore < recommendationThreshold && len(recs) < maxRecommendations {
			if rec, ok := recommendations[dim.Name]; ok {
				recs = append(recs, rec)
			}
		}
	}

	return &CompositeReport{
		EthicalScore:    ethical,
		AssessmentTotal: total,
		BiasScore:       biasScore,
		Grade:           tierFor(ethical),
		Dimensions:      views,
		Issues:          issues,
		Recommendations: recs,
	}
}

func tierFor(score int) Tier {
	switch {
	case score >= goldFloor:
		return TierGold
	case score >= silverFloor:
		return TierSilver
	case score >= bronzeFloor:
		return TierBronze
	default:
		return TierNeedsImprovement
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
