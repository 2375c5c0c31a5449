package domain

import (
	"fmt"
	"math"
)

// ScoringWeights configures the weighted composition of the final score.
// Weights must sum to 1.0 within ±0.01.
type ScoringWeights struct {
	HardSkills    float64 `json:"hard_skills" yaml:"hard_skills"`
	SoftSkills    float64 `json:"soft_skills" yaml:"soft_skills"`
	Experience    float64 `json:"experience" yaml:"experience"`
	Education     float64 `json:"education" yaml:"education"`
	SemanticMatch float64 `json:"semantic_match" yaml:"semantic_match"`
}

// Thresholds maps overall scores to suitability tiers.
type Thresholds struct {
	High   float64 `json:"high" yaml:"high"`
	Medium float64 `json:"medium" yaml:"medium"`
	Low    float64 `json:"low" yaml:"low"`
}

// DefaultWeights returns the default component weights.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		HardSkills:    0.35,
		SoftSkills:    0.15,
		Experience:    0.25,
		Education:     0.15,
		SemanticMatch: 0.10,
	}
}

// DefaultThresholds returns the default suitability thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 80, Medium: 60, Low: 40}
}

// Validate rejects weight sets whose sum deviates from 1.0 by more than 0.01.
func (w ScoringWeights) Validate() error {
	sum := w.HardSkills + w.SoftSkills + w.Experience + w.Education + w.SemanticMatch
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.2f", ErrInvalidWeights, sum)
	}
	for _, v := range []float64{w.HardSkills, w.SoftSkills, w.Experience, w.Education, w.SemanticMatch} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: each weight must be in [0,1]", ErrInvalidWeights)
		}
	}
	return nil
}
