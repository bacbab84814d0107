package config

import (
	"fmt"
	"math"
)

// ContextWeights is the weight table consulted by the scoring transform for
// every decoded annotation. It is loaded once at startup and treated as
// read-only for the life of the process, so it can be shared across
// concurrent queries without synchronization.
//
// Recommended ranges (documented, not enforced): match weights in [1.00, inf),
// mismatch weights in [0.00, 1.00] except negation mismatch which may range
// [-1.00, 1.00]. At most one dimension should carry a negative mismatch
// weight; out-of-range values are applied as configured and produce
// deterministic but unspecified ranking behavior.
type ContextWeights struct {
	Negation  DimensionWeights       `json:"negation" mapstructure:"negation"`
	Subject   DimensionWeights       `json:"subject" mapstructure:"subject"`
	Temporal  TieredDimensionWeights `json:"temporal" mapstructure:"temporal"`
	Assertion TieredDimensionWeights `json:"assertion" mapstructure:"assertion"`
}

// DimensionWeights holds the match/mismatch pair for a single-tier dimension
// (negation, subject).
type DimensionWeights struct {
	Match    float64 `json:"match" mapstructure:"match"`
	Mismatch float64 `json:"mismatch" mapstructure:"mismatch"`
}

// TieredDimensionWeights holds light/heavy sub-weights on both the match and
// mismatch side of a two-tier dimension (temporal, assertion). The tier is
// selected by the upstream NLP strength signal; absent one, heavy applies.
type TieredDimensionWeights struct {
	Match    TierWeights `json:"match" mapstructure:"match"`
	Mismatch TierWeights `json:"mismatch" mapstructure:"mismatch"`
}

// TierWeights is a light/heavy weight pair.
type TierWeights struct {
	Light float64 `json:"light" mapstructure:"light"`
	Heavy float64 `json:"heavy" mapstructure:"heavy"`
}

// DefaultContextWeights returns the built-in weight table: every match weight
// is 1.00 so contextually normal occurrences are scoring-neutral, and
// mismatches down-weight without going negative. Negative negation mismatch
// (actively penalizing negated mentions) is available through configuration
// but is never a default.
func DefaultContextWeights() *ContextWeights {
	return &ContextWeights{
		Negation: DimensionWeights{Match: 1.00, Mismatch: 0.10},
		Subject:  DimensionWeights{Match: 1.00, Mismatch: 0.50},
		Temporal: TieredDimensionWeights{
			Match:    TierWeights{Light: 1.00, Heavy: 1.00},
			Mismatch: TierWeights{Light: 0.75, Heavy: 0.50},
		},
		Assertion: TieredDimensionWeights{
			Match:    TierWeights{Light: 1.00, Heavy: 1.00},
			Mismatch: TierWeights{Light: 0.75, Heavy: 0.50},
		},
	}
}

// Validate reports configuration errors: every leaf must be a finite number
// and every match-side leaf must be set. Range checks are deliberately not
// performed here - scoring assumes a fully populated table and applies
// whatever values the configuration supplies.
func (w *ContextWeights) Validate() error {
	leaves := []struct {
		name  string
		value float64
		match bool
	}{
		{"negation.match", w.Negation.Match, true},
		{"negation.mismatch", w.Negation.Mismatch, false},
		{"subject.match", w.Subject.Match, true},
		{"subject.mismatch", w.Subject.Mismatch, false},
		{"temporal.match.light", w.Temporal.Match.Light, true},
		{"temporal.match.heavy", w.Temporal.Match.Heavy, true},
		{"temporal.mismatch.light", w.Temporal.Mismatch.Light, false},
		{"temporal.mismatch.heavy", w.Temporal.Mismatch.Heavy, false},
		{"assertion.match.light", w.Assertion.Match.Light, true},
		{"assertion.match.heavy", w.Assertion.Match.Heavy, true},
		{"assertion.mismatch.light", w.Assertion.Mismatch.Light, false},
		{"assertion.mismatch.heavy", w.Assertion.Mismatch.Heavy, false},
	}

	for _, leaf := range leaves {
		if math.IsNaN(leaf.value) || math.IsInf(leaf.value, 0) {
			return fmt.Errorf("context weight %s is not a finite number: %v", leaf.name, leaf.value)
		}
		// A zero match weight almost always means the leaf was absent from the
		// configuration file; match weights are documented as >= 1.00.
		if leaf.match && leaf.value == 0 {
			return fmt.Errorf("context weight %s is missing or zero; match weights must be configured (default 1.00)", leaf.name)
		}
	}
	return nil
}
