package nlp

import (
	"github.com/clinisearch/go-context-search/internal/scoring"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
)

// triggerClass identifies which contextual dimension a trigger word affects.
type triggerClass int

const (
	classNegation triggerClass = iota
	classUncertainty
	classHistorical
	classExperiencer
)

// trigger describes one lexicon entry. Strong triggers ("denies", "hx")
// produce heavy-tier deviations; hedged ones ("prior", "possibly") light.
type trigger struct {
	class  triggerClass
	strong bool
}

// defaultScopeWindow is how many token positions a trigger's scope extends
// forward when no terminator cuts it short. Six positions covers the short
// noun phrases that dominate clinical findings lists.
const defaultScopeWindow = 6

// defaultTriggers is a compact ConText-style lexicon. It is intentionally
// small: the annotator exists so the engine runs end-to-end without an
// external NLP service, not to compete with one.
var defaultTriggers = map[string]trigger{
	// Negation
	"no":       {classNegation, true},
	"not":      {classNegation, true},
	"denies":   {classNegation, true},
	"denied":   {classNegation, true},
	"without":  {classNegation, true},
	"negative": {classNegation, true},
	"absent":   {classNegation, true},

	// Uncertainty (assertion dimension)
	"possible":     {classUncertainty, false},
	"possibly":     {classUncertainty, false},
	"perhaps":      {classUncertainty, false},
	"questionable": {classUncertainty, false},
	"probable":     {classUncertainty, true},
	"likely":       {classUncertainty, true},
	"suspected":    {classUncertainty, true},
	"suspect":      {classUncertainty, true},

	// Temporality
	"history":   {classHistorical, true},
	"hx":        {classHistorical, true},
	"past":      {classHistorical, true},
	"childhood": {classHistorical, true},
	"previous":  {classHistorical, false},
	"prior":     {classHistorical, false},

	// Experiencer
	"family":   {classExperiencer, true},
	"mother":   {classExperiencer, true},
	"father":   {classExperiencer, true},
	"maternal": {classExperiencer, true},
	"paternal": {classExperiencer, true},
	"brother":  {classExperiencer, true},
	"sister":   {classExperiencer, true},
}

// scopeTerminators end every open trigger scope when encountered.
var scopeTerminators = map[string]struct{}{
	"but":     {},
	"however": {},
	"though":  {},
	"except":  {},
	"aside":   {},
	"which":   {},
}

// LexiconAnnotator applies forward trigger scopes over a token stream.
// The zero configuration (NewLexiconAnnotator) uses the built-in lexicon and
// scope window. Instances are immutable after construction and safe for
// concurrent use.
type LexiconAnnotator struct {
	triggers    map[string]trigger
	terminators map[string]struct{}
	scopeWindow int
}

// NewLexiconAnnotator creates an annotator with the built-in trigger lexicon.
func NewLexiconAnnotator() *LexiconAnnotator {
	return &LexiconAnnotator{
		triggers:    defaultTriggers,
		terminators: scopeTerminators,
		scopeWindow: defaultScopeWindow,
	}
}

// openScope tracks one active trigger scope while scanning forward.
type openScope struct {
	class  triggerClass
	endPos int  // last position (inclusive) the scope covers
	strong bool // trigger strength, mapped to the scoring tier
}

// Annotate implements Annotator. Tokens must arrive in position order; gaps
// from stop-word removal are fine because scopes are measured in positions of
// the raw stream, not in surviving-token counts.
func (la *LexiconAnnotator) Annotate(tokens []tokenizer.Token) []AnnotatedToken {
	annotated := make([]AnnotatedToken, len(tokens))
	var scopes []openScope

	for i, tok := range tokens {
		if _, terminates := la.terminators[tok.Term]; terminates {
			scopes = scopes[:0]
		}

		// Drop scopes this token has moved past.
		active := scopes[:0]
		for _, s := range scopes {
			if tok.Position <= s.endPos {
				active = append(active, s)
			}
		}
		scopes = active

		out := AnnotatedToken{Term: tok.Term, Position: tok.Position}

		if trig, isTrigger := la.triggers[tok.Term]; isTrigger {
			switch trig.class {
			case classNegation:
				out.Annotation.NegationTrigger = true
			case classUncertainty:
				out.Annotation.AssertionTrigger = true
			case classHistorical:
				out.Annotation.HistoricalTrigger = true
			case classExperiencer:
				out.Annotation.ExperiencerTrigger = true
			}
			// A new trigger replaces any open scope of the same class.
			replaced := scopes[:0]
			for _, s := range scopes {
				if s.class != trig.class {
					replaced = append(replaced, s)
				}
			}
			scopes = append(replaced, openScope{
				class:  trig.class,
				endPos: tok.Position + la.scopeWindow,
				strong: trig.strong,
			})
		} else {
			for _, s := range scopes {
				switch s.class {
				case classNegation:
					out.Annotation.Negated = true
				case classUncertainty:
					out.Annotation.Uncertain = true
					out.AssertionTier = tierFor(s.strong)
				case classHistorical:
					out.Annotation.Historical = true
					out.TemporalTier = tierFor(s.strong)
				case classExperiencer:
					out.Annotation.OtherSubject = true
				}
			}
		}

		annotated[i] = out
	}
	return annotated
}

func tierFor(strong bool) scoring.Tier {
	if strong {
		return scoring.TierHeavy
	}
	return scoring.TierLight
}
