// Package payload defines the 2-byte contextual annotation attached to every
// indexed term occurrence. The annotation carries the output of a ConText-style
// NLP pass: whether the occurrence is negated, hedged, historical, or about
// someone other than the patient, plus whether the occurrence is itself a
// trigger word for one of those classes.
//
// Byte format (little-endian, bit 0 = least significant):
//
// Byte 0 - status (bit set means the occurrence deviates from the default):
//
//	0x1 negated (default: positive)
//	0x2 possible/hedged (default: asserted)
//	0x4 historical (default: present)
//	0x8 other is subject (default: patient is subject)
//
// Byte 1 - trigger flags (bit set means the occurrence is that trigger type):
//
//	0x1 negation trigger
//	0x2 assertion trigger
//	0x4 historical trigger
//	0x8 experiencer trigger
//
// The zero value of ContextAnnotation is the default annotation (positive,
// asserted, present, patient is subject, no triggers) and encodes to two zero
// bytes.
package payload

import "fmt"

// Size is the exact number of bytes an encoded annotation occupies in the
// index. The format carries no version field: changing the layout requires a
// full reindex of every stored document.
const Size = 2

// Status byte bit masks (byte 0). A set bit marks a deviation from the
// default status, so a cleared byte means positive/asserted/present/patient.
const (
	statusNegated      = 0x1
	statusUncertain    = 0x2
	statusHistorical   = 0x4
	statusOtherSubject = 0x8
)

// Trigger byte bit masks (byte 1). Direct sense: a set bit means the
// occurrence is that trigger type.
const (
	triggerNegation    = 0x1
	triggerAssertion   = 0x2
	triggerHistorical  = 0x4
	triggerExperiencer = 0x8
)

// ContextAnnotation is the decoded, semantic form of the 2-byte payload.
// Fields store deviations from the default status so that the zero value is
// the canonical default annotation.
type ContextAnnotation struct {
	// Status of the occurrence itself.
	Negated      bool // concept is negated ("denies chest pain")
	Uncertain    bool // concept is possible/hedged, not asserted
	Historical   bool // concept is historical, not present
	OtherSubject bool // experiencer is someone other than the patient

	// Trigger flags: the occurrence is itself a linguistic trigger word for a
	// contextual class, used for coordination bookkeeping.
	NegationTrigger    bool
	AssertionTrigger   bool
	HistoricalTrigger  bool
	ExperiencerTrigger bool
}

// Positive reports whether the concept is affirmed (not negated).
func (a ContextAnnotation) Positive() bool { return !a.Negated }

// Asserted reports whether the concept is asserted rather than merely
// possible.
func (a ContextAnnotation) Asserted() bool { return !a.Uncertain }

// Present reports whether the concept is present rather than historical.
func (a ContextAnnotation) Present() bool { return !a.Historical }

// PatientIsSubject reports whether the patient is the experiencer.
func (a ContextAnnotation) PatientIsSubject() bool { return !a.OtherSubject }

// IsQueryTerm determines whether the occurrence should participate in the
// query coordination step of scoring. Negation, assertion, and historical
// triggers are context markers rather than content matches and are excluded.
// An experiencer trigger still counts: the identity of the subject remains
// relevant to the query.
func (a ContextAnnotation) IsQueryTerm() bool {
	return !(a.NegationTrigger || a.AssertionTrigger || a.HistoricalTrigger)
}

// Bytes returns the canonical 2-byte encoding of the annotation.
func (a ContextAnnotation) Bytes() []byte {
	buf := make([]byte, Size)
	var status byte
	if a.Negated {
		status |= statusNegated
	}
	if a.Uncertain {
		status |= statusUncertain
	}
	if a.Historical {
		status |= statusHistorical
	}
	if a.OtherSubject {
		status |= statusOtherSubject
	}
	buf[0] = status

	var trigger byte
	if a.NegationTrigger {
		trigger |= triggerNegation
	}
	if a.AssertionTrigger {
		trigger |= triggerAssertion
	}
	if a.HistoricalTrigger {
		trigger |= triggerHistorical
	}
	if a.ExperiencerTrigger {
		trigger |= triggerExperiencer
	}
	buf[1] = trigger
	return buf
}

// Decode reads an annotation from the 2 bytes of b starting at offset.
// Every 2-byte pattern is valid; the only failure mode is a short buffer,
// which indicates index corruption and must never be silently defaulted.
func Decode(b []byte, offset int) (ContextAnnotation, error) {
	if offset < 0 || len(b)-offset < Size {
		available := len(b) - offset
		if available < 0 {
			available = 0
		}
		return ContextAnnotation{}, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedPayload, Size, offset, available)
	}
	status := b[offset]
	trigger := b[offset+1]
	return ContextAnnotation{
		Negated:            status&statusNegated != 0,
		Uncertain:          status&statusUncertain != 0,
		Historical:         status&statusHistorical != 0,
		OtherSubject:       status&statusOtherSubject != 0,
		NegationTrigger:    trigger&triggerNegation != 0,
		AssertionTrigger:   trigger&triggerAssertion != 0,
		HistoricalTrigger:  trigger&triggerHistorical != 0,
		ExperiencerTrigger: trigger&triggerExperiencer != 0,
	}, nil
}

// String renders the annotation for logs and diagnostics.
func (a ContextAnnotation) String() string {
	subject := "patient"
	if a.OtherSubject {
		subject = "other"
	}
	return fmt.Sprintf("[negated:%t; asserted:%t; historical:%t; experiencer:%s; triggers:neg=%t,assert=%t,hist=%t,exp=%t]",
		a.Negated, !a.Uncertain, a.Historical, subject,
		a.NegationTrigger, a.AssertionTrigger, a.HistoricalTrigger, a.ExperiencerTrigger)
}
