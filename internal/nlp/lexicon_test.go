package nlp

import (
	"testing"

	"github.com/clinisearch/go-context-search/internal/scoring"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotate(t *testing.T, text string) map[string]AnnotatedToken {
	t.Helper()
	annotator := NewLexiconAnnotator()
	annotated := annotator.Annotate(tokenizer.TokenizeWithPositions(text))

	byTerm := make(map[string]AnnotatedToken, len(annotated))
	for _, tok := range annotated {
		byTerm[tok.Term] = tok
	}
	return byTerm
}

func TestNegationScope(t *testing.T) {
	tokens := annotate(t, "denies chest pain or shortness of breath")

	denies := tokens["denies"]
	assert.True(t, denies.Annotation.NegationTrigger)
	assert.False(t, denies.Annotation.Negated, "trigger word itself carries no negated status")
	assert.False(t, denies.Annotation.IsQueryTerm())

	for _, term := range []string{"chest", "pain", "shortness", "breath"} {
		tok, ok := tokens[term]
		require.True(t, ok, "missing token %q", term)
		assert.True(t, tok.Annotation.Negated, "%q should be negated", term)
		assert.True(t, tok.Annotation.IsQueryTerm())
	}
}

func TestScopeTerminator(t *testing.T) {
	tokens := annotate(t, "no fever but reports severe headache")

	assert.True(t, tokens["fever"].Annotation.Negated)
	assert.False(t, tokens["headache"].Annotation.Negated, "terminator 'but' must end the negation scope")
	assert.False(t, tokens["severe"].Annotation.Negated)
}

func TestScopeWindowExpires(t *testing.T) {
	tokens := annotate(t, "no acute distress one two three four five six headache")

	assert.True(t, tokens["distress"].Annotation.Negated)
	assert.False(t, tokens["headache"].Annotation.Negated, "scope must expire after the window")
}

func TestUncertaintyTiers(t *testing.T) {
	hedged := annotate(t, "possible pneumonia")
	assert.True(t, hedged["possible"].Annotation.AssertionTrigger)
	assert.True(t, hedged["pneumonia"].Annotation.Uncertain)
	assert.Equal(t, scoring.TierLight, hedged["pneumonia"].AssertionTier)

	strong := annotate(t, "suspected pneumonia")
	assert.True(t, strong["pneumonia"].Annotation.Uncertain)
	assert.Equal(t, scoring.TierHeavy, strong["pneumonia"].AssertionTier)
}

func TestHistoricalTiers(t *testing.T) {
	strong := annotate(t, "history of myocardial infarction")
	assert.True(t, strong["history"].Annotation.HistoricalTrigger)
	assert.True(t, strong["myocardial"].Annotation.Historical)
	assert.Equal(t, scoring.TierHeavy, strong["myocardial"].TemporalTier)

	hedged := annotate(t, "prior episodes of dizziness")
	assert.True(t, hedged["dizziness"].Annotation.Historical)
	assert.Equal(t, scoring.TierLight, hedged["dizziness"].TemporalTier)
}

func TestExperiencerScope(t *testing.T) {
	tokens := annotate(t, "mother had breast cancer")

	mother := tokens["mother"]
	assert.True(t, mother.Annotation.ExperiencerTrigger)
	assert.True(t, mother.Annotation.IsQueryTerm(), "experiencer triggers stay coordination-eligible")

	assert.True(t, tokens["cancer"].Annotation.OtherSubject)
	assert.True(t, tokens["breast"].Annotation.OtherSubject)
}

func TestOverlappingScopes(t *testing.T) {
	tokens := annotate(t, "family history of no diabetes")

	// "diabetes" sits inside experiencer, historical, and negation scopes.
	diabetes := tokens["diabetes"]
	assert.True(t, diabetes.Annotation.OtherSubject)
	assert.True(t, diabetes.Annotation.Historical)
	assert.True(t, diabetes.Annotation.Negated)
}

func TestStopWordGapsKeepScopeAlignment(t *testing.T) {
	// Stop-word removal leaves position gaps; scopes are measured against
	// raw positions, so the window must still cover the survivors.
	annotator := NewLexiconAnnotator()
	tokens := tokenizer.TokenizeWithPositions("denies any chest pain")
	stopWords := map[string]struct{}{"any": {}}
	filtered := tokenizer.RemoveStopWords(tokens, stopWords)

	annotated := annotator.Annotate(filtered)
	require.Len(t, annotated, 3)
	assert.Equal(t, "pain", annotated[2].Term)
	assert.True(t, annotated[2].Annotation.Negated)
}

func TestPassthroughAnnotator(t *testing.T) {
	annotated := PassthroughAnnotator{}.Annotate(tokenizer.TokenizeWithPositions("no chest pain"))

	require.Len(t, annotated, 3)
	for _, tok := range annotated {
		assert.True(t, tok.Annotation.Positive())
		assert.True(t, tok.Annotation.IsQueryTerm())
	}
}
