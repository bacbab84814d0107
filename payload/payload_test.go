package payload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// annotationFromBits builds an annotation from an 8-bit mask so tests can
// sweep every combination of the eight flags.
func annotationFromBits(bits int) ContextAnnotation {
	return ContextAnnotation{
		Negated:            bits&0x01 != 0,
		Uncertain:          bits&0x02 != 0,
		Historical:         bits&0x04 != 0,
		OtherSubject:       bits&0x08 != 0,
		NegationTrigger:    bits&0x10 != 0,
		AssertionTrigger:   bits&0x20 != 0,
		HistoricalTrigger:  bits&0x40 != 0,
		ExperiencerTrigger: bits&0x80 != 0,
	}
}

func TestRoundTripAllCombinations(t *testing.T) {
	for bits := 0; bits < 256; bits++ {
		original := annotationFromBits(bits)
		encoded := original.Bytes()
		require.Len(t, encoded, Size)

		decoded, err := Decode(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, original, decoded, "round trip failed for bit pattern %#02x", bits)
	}
}

func TestDefaultAnnotation(t *testing.T) {
	var def ContextAnnotation

	assert.Equal(t, []byte{0x00, 0x00}, def.Bytes())

	decoded, err := Decode([]byte{0x00, 0x00}, 0)
	require.NoError(t, err)
	assert.True(t, decoded.Positive())
	assert.True(t, decoded.Asserted())
	assert.True(t, decoded.Present())
	assert.True(t, decoded.PatientIsSubject())
	assert.False(t, decoded.NegationTrigger)
	assert.False(t, decoded.AssertionTrigger)
	assert.False(t, decoded.HistoricalTrigger)
	assert.False(t, decoded.ExperiencerTrigger)
}

func TestByteLayout(t *testing.T) {
	tests := []struct {
		name       string
		annotation ContextAnnotation
		expected   []byte
	}{
		{
			name:       "negated only",
			annotation: ContextAnnotation{Negated: true},
			expected:   []byte{0x01, 0x00},
		},
		{
			name:       "experiencer trigger only",
			annotation: ContextAnnotation{ExperiencerTrigger: true},
			expected:   []byte{0x00, 0x08},
		},
		{
			name:       "uncertain",
			annotation: ContextAnnotation{Uncertain: true},
			expected:   []byte{0x02, 0x00},
		},
		{
			name:       "historical",
			annotation: ContextAnnotation{Historical: true},
			expected:   []byte{0x04, 0x00},
		},
		{
			name:       "other subject",
			annotation: ContextAnnotation{OtherSubject: true},
			expected:   []byte{0x08, 0x00},
		},
		{
			name:       "negation trigger",
			annotation: ContextAnnotation{NegationTrigger: true},
			expected:   []byte{0x00, 0x01},
		},
		{
			name:       "assertion trigger",
			annotation: ContextAnnotation{AssertionTrigger: true},
			expected:   []byte{0x00, 0x02},
		},
		{
			name:       "historical trigger",
			annotation: ContextAnnotation{HistoricalTrigger: true},
			expected:   []byte{0x00, 0x04},
		},
		{
			name: "all bits",
			annotation: ContextAnnotation{
				Negated: true, Uncertain: true, Historical: true, OtherSubject: true,
				NegationTrigger: true, AssertionTrigger: true, HistoricalTrigger: true, ExperiencerTrigger: true,
			},
			expected: []byte{0x0f, 0x0f},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.annotation.Bytes())
		})
	}
}

func TestDecodeAtOffset(t *testing.T) {
	// Payloads are stored back to back in posting entries; decoding must
	// honor the offset rather than assuming the slice starts a payload.
	buf := []byte{0xff, 0xff, 0x01, 0x08, 0xff}

	decoded, err := Decode(buf, 2)
	require.NoError(t, err)
	assert.True(t, decoded.Negated)
	assert.False(t, decoded.Uncertain)
	assert.True(t, decoded.ExperiencerTrigger)
	assert.False(t, decoded.NegationTrigger)
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		offset int
	}{
		{name: "empty buffer", buf: nil, offset: 0},
		{name: "one byte", buf: []byte{0x01}, offset: 0},
		{name: "offset at end", buf: []byte{0x01, 0x00}, offset: 2},
		{name: "offset leaves one byte", buf: []byte{0x01, 0x00, 0x04}, offset: 2},
		{name: "negative offset", buf: []byte{0x01, 0x00}, offset: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf, tt.offset)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncatedPayload))
		})
	}
}

func TestIsQueryTerm(t *testing.T) {
	// Any annotation carrying a negation, assertion, or historical trigger is
	// excluded from coordination regardless of its other flags.
	for bits := 0; bits < 256; bits++ {
		a := annotationFromBits(bits)
		expected := !(a.NegationTrigger || a.AssertionTrigger || a.HistoricalTrigger)
		assert.Equal(t, expected, a.IsQueryTerm(), "bit pattern %#02x", bits)
	}

	// An experiencer trigger alone stays coordination-eligible.
	assert.True(t, ContextAnnotation{ExperiencerTrigger: true}.IsQueryTerm())

	// Status flags never affect eligibility.
	assert.True(t, ContextAnnotation{Negated: true, Historical: true, OtherSubject: true}.IsQueryTerm())
}
