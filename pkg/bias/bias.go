package bias

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ethica-ai/ethica/backend/pkg/profile"
)

// Level classifies the bias risk of a dataset. Lower scores map to
// higher-risk levels.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
)

// PenaltyCategory names the factor behind a deduction.
type PenaltyCategory string

const (
	PenaltyMissingValues      PenaltyCategory = "MissingValues"
	PenaltyClassImbalance     PenaltyCategory = "ClassImbalance"
	PenaltyProtectedAttribute PenaltyCategory = "ProtectedAttributeBias"
	PenaltyDatasetSize        PenaltyCategory = "DatasetSize"
)

// PenaltyEntry is one deduction with its human-readable reasoning trail.
type PenaltyEntry struct {
	Category       PenaltyCategory `json:"category"`
	PointsDeducted float64         `json:"points_deducted"`
	Reasoning      []string        `json:"reasoning"`
}

// Report is the immutable result of one bias analysis.
type Report struct {
	Score     int            `json:"score"`
	Level     Level          `json:"level"`
	Penalties []PenaltyEntry `json:"penalties"`
	Reasoning []string       `json:"reasoning"`
}

// Config names every threshold and weight of the analyzer so boundary
// values can be exercised precisely in tests.
type Config struct {
	// Missing-values penalty: points per percentage point of dataset-wide
	// missing cells, capped.
	MissingPctFactor float64
	MissingCap       float64
	// Per-column missing percentage above which a column is called out in
	// the reasoning.
	HighMissingColumnPct float64

	// Class imbalance: a categorical column is severely imbalanced when
	// its minority class ratio falls below SevereMinorityRatio, and
	// moderately imbalanced below ModerateMinorityRatio. Each column
	// deducts its tier's per-column penalty, saturating at ImbalanceCap.
	SevereMinorityRatio               float64
	ModerateMinorityRatio             float64
	ImbalancePenaltyPerColumn         float64
	ModerateImbalancePenaltyPerColumn float64
	ImbalanceCap                      float64

	// Protected-attribute distribution bias thresholds and deductions.
	ModerateDistributionBias float64
	SevereDistributionBias   float64
	ModerateAttributePenalty float64
	SevereAttributePenalty   float64

	// Dataset-size penalty tiers.
	SmallRowThreshold   int
	ModerateRowThreshold int
	SmallSizePenalty    float64
	ModerateSizePenalty float64

	// Level thresholds: score >= LowScoreFloor is LOW risk, score >=
	// ModerateScoreFloor is MODERATE, anything below is HIGH.
	LowScoreFloor      int
	ModerateScoreFloor int
}

// DefaultConfig returns the calibrated production thresholds.
func DefaultConfig() Config {
	return Config{
		MissingPctFactor:     0.5,
		MissingCap:           25,
		HighMissingColumnPct: 20,

		SevereMinorityRatio:               0.05,
		ModerateMinorityRatio:             0.10,
		ImbalancePenaltyPerColumn:         10,
		ModerateImbalancePenaltyPerColumn: 5,
		ImbalanceCap:                      70,

		ModerateDistributionBias: 0.25,
		SevereDistributionBias:   0.5,
		ModerateAttributePenalty: 5,
		SevereAttributePenalty:   10,

		SmallRowThreshold:    1000,
		ModerateRowThreshold: 5000,
		SmallSizePenalty:     10,
		ModerateSizePenalty:  5,

		LowScoreFloor:      80,
		ModerateScoreFloor: 50,
	}
}

// Analyze derives the bias report from a dataset profile. The score
// starts at 100, each penalty subtracts from it, and the result floors
// at 0. Reasoning is ordered: missing values, class imbalance, protected
// attributes, dataset size.
func Analyze(p *profile.DatasetProfile, cfg Config) *Report {
	var penalties []PenaltyEntry

	if entry := missingValuesPenalty(p, cfg); entry != nil {
		penalties = append(penalties, *entry)
	}
	if entry := classImbalancePenalty(p, cfg); entry != nil {
		penalties = append(penalties, *entry)
	}
	penalties = append(penalties, protectedAttributePenalties(p, cfg)...)
	if entry := datasetSizePenalty(p, cfg); entry != nil {
		penalties = append(penalties, *entry)
	}

	total := 0.0
	var reasoning []string
	for _, entry := range penalties {
		total += entry.PointsDeducted
		reasoning = append(reasoning, entry.Reasoning...)
	}

	score := int(math.Round(100 - total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &Report{
		Score:     score,
		Level:     cfg.level(score),
		Penalties: penalties,
		Reasoning: reasoning,
	}
}

func (cfg Config) level(score int) Level {
	switch {
	case score >= cfg.LowScoreFloor:
		return LevelLow
	case score >= cfg.ModerateScoreFloor:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func missingValuesPenalty(p *profile.DatasetProfile, cfg Config) *PenaltyEntry {
	if p.TotalMissingPct <= 0 {
		return nil
	}
	points := math.Min(cfg.MissingCap, p.TotalMissingPct*cfg.MissingPctFactor)

	reasoning := []string{
		fmt.Sprintf("Missing Values: -%s points", formatPoints(points)),
		"  High missing rates can introduce bias by excluding certain groups",
	}
	for _, col := range p.Columns {
		if col.MissingPct > cfg.HighMissingColumnPct {
			reasoning = append(reasoning, fmt.Sprintf("    - %s: %.1f%% missing values", col.Name, col.MissingPct))
		}
	}

	return &PenaltyEntry{
		Category:       PenaltyMissingValues,
		PointsDeducted: points,
		Reasoning:      reasoning,
	}
}

func classImbalancePenalty(p *profile.DatasetProfile, cfg Config) *PenaltyEntry {
	type imbalanced struct {
		name  string
		ratio float64
	}

	var severe, moderate []imbalanced
	for _, col := range p.Columns {
		if col.ValueDistribution == nil || col.DistinctValues < 2 {
			continue
		}
		ratio := minorityClassRatio(col.ValueDistribution)
		switch {
		case ratio < cfg.SevereMinorityRatio:
			severe = append(severe, imbalanced{name: col.Name, ratio: ratio})
		case ratio < cfg.ModerateMinorityRatio:
			moderate = append(moderate, imbalanced{name: col.Name, ratio: ratio})
		}
	}
	if len(severe) == 0 && len(moderate) == 0 {
		return nil
	}

	raw := float64(len(severe))*cfg.ImbalancePenaltyPerColumn +
		float64(len(moderate))*cfg.ModerateImbalancePenaltyPerColumn
	points := math.Min(cfg.ImbalanceCap, raw)

	reasoning := []string{
		fmt.Sprintf("Class Imbalance: -%s points", formatPoints(points)),
		"  Class imbalance can lead to biased model predictions",
	}
	for _, col := range severe {
		reasoning = append(reasoning, fmt.Sprintf("    - %s: minority class = %.2f%%", col.name, col.ratio*100))
	}
	for _, col := range moderate {
		reasoning = append(reasoning, fmt.Sprintf("    - %s: minority class = %.2f%%", col.name, col.ratio*100))
	}

	return &PenaltyEntry{
		Category:       PenaltyClassImbalance,
		PointsDeducted: points,
		Reasoning:      reasoning,
	}
}

func protectedAttributePenalties(p *profile.DatasetProfile, cfg Config) []PenaltyEntry {
	var entries []PenaltyEntry
	for _, name := range p.ProtectedAttributes {
		col := p.Column(name)
		if col == nil || col.ValueDistribution == nil {
			continue
		}

		metric := DistributionBias(col.ValueDistribution)

		var points float64
		var severity string
		switch {
		case metric >= cfg.SevereDistributionBias:
			points = cfg.SevereAttributePenalty
			severity = "Severe"
		case metric >= cfg.ModerateDistributionBias:
			points = cfg.ModerateAttributePenalty
			severity = "Moderate"
		default:
			continue
		}

		entries = append(entries, PenaltyEntry{
			Category:       PenaltyProtectedAttribute,
			PointsDeducted: points,
			Reasoning: []string{
				fmt.Sprintf("Protected Attribute Bias (%s): -%s points", name, formatPoints(points)),
				fmt.Sprintf("  %s distribution bias detected: %.3f", severity, metric),
			},
		})
	}
	return entries
}

func datasetSizePenalty(p *profile.DatasetProfile, cfg Config) *PenaltyEntry {
	var points float64
	var reason string
	switch {
	case p.RowCount < cfg.SmallRowThreshold:
		points = cfg.SmallSizePenalty
		reason = "  Small dataset size may not represent all groups adequately"
	case p.RowCount < cfg.ModerateRowThreshold:
		points = cfg.ModerateSizePenalty
		reason = "  Moderate dataset size - consider a larger sample for better representation"
	default:
		return nil
	}

	return &PenaltyEntry{
		Category:       PenaltyDatasetSize,
		PointsDeducted: points,
		Reasoning: []string{
			fmt.Sprintf("Dataset Size: -%s points", formatPoints(points)),
			reason,
		},
	}
}

// formatPoints renders a deduction without trailing zeros, so whole
// values print as "10" and fractional ones as "12.5".
func formatPoints(points float64) string {
	return strconv.FormatFloat(math.Round(points*10)/10, 'f', -1, 64)
}
