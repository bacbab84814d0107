// Package tokenizer converts clinical note text into index terms. It
// lowercases, splits on non-alphanumeric runs, and optionally removes
// clinical stop words. Position-preserving variants exist for the annotation
// pass, which needs to know where each surviving token sat in the original
// token stream.
package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Token is a term together with its position in the field's token stream.
// Positions are assigned before stop-word removal so that trigger scopes
// computed over the raw stream stay aligned.
type Token struct {
	Term     string
	Position int
}

// Tokenize converts a string into a slice of lowercase tokens.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0)
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// TokenizeWithPositions tokenizes text and records each token's position in
// the stream.
func TokenizeWithPositions(text string) []Token {
	raw := Tokenize(text)
	tokens := make([]Token, len(raw))
	for i, term := range raw {
		tokens[i] = Token{Term: term, Position: i}
	}
	return tokens
}

// RemoveStopWords filters tokens against the given stop-word set while
// preserving the original positions of the survivors.
func RemoveStopWords(tokens []Token, stopWords map[string]struct{}) []Token {
	if len(stopWords) == 0 {
		return tokens
	}
	kept := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if _, isStop := stopWords[tok.Term]; !isStop {
			kept = append(kept, tok)
		}
	}
	return kept
}

// GeneratePrefixNGrams creates prefix n-grams from a token, from length 1 up
// to the token's length. For "chest" it produces: "c", "ch", "che", "ches",
// "chest".
func GeneratePrefixNGrams(token string) []string {
	tokenLen := len(token)
	if tokenLen == 0 {
		return make([]string, 0)
	}

	ngrams := make([]string, tokenLen)
	for i := 1; i <= tokenLen; i++ {
		ngrams[i-1] = token[:i]
	}
	return ngrams
}
