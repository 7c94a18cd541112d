package assessment

// Dimension is one weighted axis of the ethics questionnaire. The seven
// weights sum to exactly 1.0.
type Dimension struct {
	Name   string
	Weight float64
}

const (
	DimTransparency   = "Transparency"
	DimFairness       = "Fairness & Bias"
	DimPrivacy        = "Privacy & Consent"
	DimAccountability = "Accountability"
	DimSecurity       = "Security"
	DimInclusivity    = "Inclusivity"
	DimRegulation     = "Regulation"
)

// Dimensions is the fixed dimension catalog in declaration order.
// Recommendation ordering and dimension output ordering follow it.
var Dimensions = []Dimension{
	{Name: DimTransparency, Weight: 0.20},
	{Name: DimFairness, Weight: 0.20},
	{Name: DimPrivacy, Weight: 0.20},
	{Name: DimAccountability, Weight: 0.15},
	{Name: DimSecurity, Weight: 0.10},
	{Name: DimInclusivity, Weight: 0.10},
	{Name: DimRegulation, Weight: 0.05},
}

// Question is one questionnaire item. Each of the five options maps to
// the score equal to its index (0-4).
type Question struct {
	ID        string
	Dimension string
	Text      string
	Options   [5]string
}

// defaultScale is the agreement scale most questions use.
var defaultScale = [5]string{
	"Not at all",
	"To a limited extent",
	"Partially",
	"To a large extent",
	"Fully",
}

// Questions is the fixed 20-question catalog.
var Questions = []Question{
	{ID: "t1", Dimension: DimTransparency, Text: "Is the purpose of the AI system clearly communicated to its users?", Options: defaultScale},
	{ID: "t2", Dimension: DimTransparency, Text: "Are the data sources used for training documented and available for review?", Options: defaultScale},
	{ID: "t3", Dimension: DimTransparency, Text: "Can individual decisions of the system be explained in non-technical terms?", Options: defaultScale},
	{ID: "f1", Dimension: DimFairness, Text: "Has the training data been audited for representation of demographic groups?", Options: defaultScale},
	{ID: "f2", Dimension: DimFairness, Text: "Are system outcomes monitored for disparate impact across groups?", Options: defaultScale},
	{ID: "f3", Dimension: DimFairness, Text: "Is there a defined process to remediate detected bias?", Options: defaultScale},
	{ID: "p1", Dimension: DimPrivacy, Text: "Is informed consent obtained before personal data is collected?", Options: defaultScale},
	{ID: "p2", Dimension: DimPrivacy, Text: "Is data collection limited to what the system actually needs?", Options: defaultScale},
	{ID: "p3", Dimension: DimPrivacy, Text: "Can individuals request deletion of their personal data?", Options: defaultScale},
	{ID: "a1", Dimension: DimAccountability, Text: "Is there a named owner responsible for the system's decisions?", Options: defaultScale},
	{ID: "a2", Dimension: DimAccountability, Text: "Is there an escalation path when the system causes harm?", Options: defaultScale},
	{ID: "a3", Dimension: DimAccountability, Text: "Are decisions and their inputs logged for later audit?", Options: defaultScale},
	{ID: "s1", Dimension: DimSecurity, Text: "Is access to training data and model artifacts restricted and audited?", Options: defaultScale},
	{ID: "s2", Dimension: DimSecurity, Text: "Has the system been tested against adversarial or malicious inputs?", Options: defaultScale},
	{ID: "s3", Dimension: DimSecurity, Text: "Is personal data encrypted at rest and in transit?", Options: defaultScale},
	{ID: "i1", Dimension: DimInclusivity, Text: "Were affected communities consulted during design?", Options: defaultScale},
	{ID: "i2", Dimension: DimInclusivity, Text: "Has the system been tested with users of varying abilities and backgrounds?", Options: defaultScale},
	{ID: "i3", Dimension: DimInclusivity, Text: "Are non-digital or assisted alternatives available to those who need them?", Options: defaultScale},
	{ID: "r1", Dimension: DimRegulation, Text: "Have applicable AI and data-protection regulations been identified?", Options: defaultScale},
	{ID: "r2", Dimension: DimRegulation, Text: "Is regulatory compliance documented and kept up to date?", Options: defaultScale},
}

// questionsByDimension groups the catalog preserving dimension order.
func questionsByDimension() map[string][]Question {
	grouped := make(map[string][]Question, len(Dimensions))
	for _, q := range Questions {
		grouped[q.Dimension] = append(grouped[q.Dimension], q)
	}
	return grouped
}
