// Package nlp is the producer boundary between the index and the ConText
// annotation pass. An Annotator yields, per term occurrence, the eight
// contextual flags plus the strength tiers the scoring transform accepts for
// the temporal and assertion dimensions.
//
// The built-in LexiconAnnotator is a compact window-based implementation of
// the ConText idea: trigger lexicons for negation, uncertainty, temporality,
// and experiencer, each casting a forward scope over following tokens until a
// scope terminator or another trigger of the same class. Deployments with a
// full NLP service can implement Annotator against it and bypass the lexicon
// entirely.
package nlp

import (
	"github.com/clinisearch/go-context-search/internal/scoring"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
	"github.com/clinisearch/go-context-search/payload"
)

// AnnotatedToken is a term occurrence together with its contextual
// annotation and the strength tiers for the two tiered scoring dimensions.
// The tiers are index-time diagnostics only: the persisted 2-byte payload
// cannot carry them, so query-time scoring of stored occurrences falls back
// to the heavy tier.
type AnnotatedToken struct {
	Term          string
	Position      int
	Annotation    payload.ContextAnnotation
	TemporalTier  scoring.Tier
	AssertionTier scoring.Tier
}

// Annotator computes contextual annotations for a field's token stream.
// Implementations must be safe for concurrent use; indexing runs fields in
// whatever order documents arrive.
type Annotator interface {
	Annotate(tokens []tokenizer.Token) []AnnotatedToken
}

// PassthroughAnnotator annotates every token with the default annotation
// (positive, asserted, present, patient subject). Useful for indices whose
// documents were annotated upstream or need no contextual handling.
type PassthroughAnnotator struct{}

// Annotate implements Annotator.
func (PassthroughAnnotator) Annotate(tokens []tokenizer.Token) []AnnotatedToken {
	annotated := make([]AnnotatedToken, len(tokens))
	for i, tok := range tokens {
		annotated[i] = AnnotatedToken{Term: tok.Term, Position: tok.Position}
	}
	return annotated
}
