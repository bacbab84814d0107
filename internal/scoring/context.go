// Package scoring converts a decoded contextual annotation into the scalar
// adjustment applied to an occurrence's relevance contribution, and decides
// whether the occurrence counts toward query-term coordination.
//
// Every function here is pure: the weight table is read-only after load and
// may be shared across any number of concurrent queries.
package scoring

import (
	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/payload"
)

// Tier selects the light or heavy sub-weight of the temporal and assertion
// dimensions. The selection comes from the upstream NLP strength signal;
// callers without one use TierHeavy, which is the zero value.
type Tier int

const (
	TierHeavy Tier = iota
	TierLight
)

func (t Tier) String() string {
	if t == TierLight {
		return "light"
	}
	return "heavy"
}

// pick indexes a light/heavy weight pair by tier.
func (t Tier) pick(w config.TierWeights) float64 {
	if t == TierLight {
		return w.Light
	}
	return w.Heavy
}

// Adjustment computes the multiplicative score adjustment for one occurrence.
// Each of the four status dimensions contributes a factor selected by
// comparing the decoded status against the ideal status (positive, asserted,
// present, patient-is-subject); the factors multiply so that an all-match
// annotation under a neutral table (all match weights 1.00) yields exactly
// 1.00 and leaves the base relevance score untouched.
func Adjustment(a payload.ContextAnnotation, temporalTier, assertionTier Tier, w *config.ContextWeights) float64 {
	var negation float64
	if a.Positive() {
		negation = w.Negation.Match
	} else {
		negation = w.Negation.Mismatch
	}

	var subject float64
	if a.PatientIsSubject() {
		subject = w.Subject.Match
	} else {
		subject = w.Subject.Mismatch
	}

	var temporal float64
	if a.Present() {
		temporal = temporalTier.pick(w.Temporal.Match)
	} else {
		temporal = temporalTier.pick(w.Temporal.Mismatch)
	}

	var assertion float64
	if a.Asserted() {
		assertion = assertionTier.pick(w.Assertion.Match)
	} else {
		assertion = assertionTier.pick(w.Assertion.Mismatch)
	}

	return negation * subject * temporal * assertion
}

// IsCoordinating reports whether the occurrence counts toward the query's
// term-coordination count. It delegates to the codec's query-term rule:
// negation, assertion, and historical triggers are context markers, not
// content matches.
func IsCoordinating(a payload.ContextAnnotation) bool {
	return a.IsQueryTerm()
}
