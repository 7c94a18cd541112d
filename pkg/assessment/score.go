package assessment

import (
	"fmt"
	"math"
)

// MaxAnswerScore is the top of the per-question option scale.
const MaxAnswerScore = 4

// DimensionScore is the aggregated result of one questionnaire dimension.
type DimensionScore struct {
	Name            string  `json:"name"`
	RawAvg          float64 `json:"raw_avg"`
	Stars           int     `json:"stars"`
	Weight          float64 `json:"weight"`
	NormalizedScore float64 `json:"normalized_score"`
}

// Result holds the per-dimension scores and the weighted total in [0,100].
type Result struct {
	Dimensions []DimensionScore `json:"dimensions"`
	Total      float64          `json:"assessment_total"`
}

// IncompleteAssessmentError reports a missing or out-of-range answer.
// Scoring never defaults an unanswered question to zero.
type IncompleteAssessmentError struct {
	QuestionID string
	Answer     int
	Missing    bool
}

func (e *IncompleteAssessmentError) Error() string {
	if e.Missing {
		return fmt.Sprintf("assessment incomplete: no answer for question %q", e.QuestionID)
	}
	return fmt.Sprintf("assessment incomplete: answer %d for question %q is outside 0-%d", e.Answer, e.QuestionID, MaxAnswerScore)
}

// Score aggregates a complete answer map into per-dimension scores and
// the weighted assessment total. Every configured question must be
// answered with a score in [0,4]; otherwise it fails with
// *IncompleteAssessmentError and returns no partial result.
func Score(answers map[string]int) (*Result, error) {
	for _, q := range Questions {
		answer, ok := answers[q.ID]
		if !ok {
			return nil, &IncompleteAssessmentError{QuestionID: q.ID, Missing: true}
		}
		if answer < 0 || answer > MaxAnswerScore {
			return nil, &IncompleteAssessmentError{QuestionID: q.ID, Answer: answer}
		}
	}

	grouped := questionsByDimension()

	dimensions := make([]DimensionScore, 0, len(Dimensions))
	total := 0.0
	for _, dim := range Dimensions {
		questions := grouped[dim.Name]

		sum := 0
		for _, q := range questions {
			sum += answers[q.ID]
		}
		rawAvg := float64(sum) / float64(len(questions))
		normalized := rawAvg / MaxAnswerScore * 100

		dimensions = append(dimensions, DimensionScore{
			Name:            dim.Name,
			RawAvg:          rawAvg,
			Stars:           int(math.Round(rawAvg)),
			Weight:          dim.Weight,
			NormalizedScore: normalized,
		})
		total += normalized * dim.Weight
	}

	return &Result{Dimensions: dimensions, Total: total}, nil
}
