// Package structural applies segment-level defects: broken delimiters,
// dropped segments, envelope damage and disagreeing control values.
package structural

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/randx"
)

var weights = map[domain.ErrorKind]float64{
	domain.KindMissingDelimiter:      10,
	domain.KindExtraDelimiter:        10,
	domain.KindMissingTerminator:     10,
	domain.KindDroppedField:          10,
	domain.KindBlankedField:          10,
	domain.KindMissingSegment:        15,
	domain.KindMissingEnvelope:       10,
	domain.KindControlNumberMismatch: 30,
	domain.KindIncorrectCount:        20,
}

var countNouns = map[string]string{
	domain.SharedSegmentCount: "segments",
	domain.SharedSetCount:     "transaction sets",
	domain.SharedGroupCount:   "functional groups",
}

// PartnerLookup finds the field of a paired segment that shares a key.
type PartnerLookup interface {
	Partner(segmentID, key string) (domain.FieldSpec, bool)
}

// Result is a mutated segment and the defect it carries.
type Result struct {
	Segment domain.Segment
	Outcome domain.Outcome
	// OmitPair asks the assembler to drop the segment's pair as well.
	OmitPair bool
}

// Mutator corrupts whole segments.
type Mutator struct {
	rng      *randx.Source
	partners PartnerLookup
}

// New creates a Mutator. partners may be nil, in which case explanations
// do not name the paired field.
func New(rng *randx.Source, partners PartnerLookup) *Mutator {
	return &Mutator{rng: rng, partners: partners}
}

// Eligible lists the structural kinds that can apply to a segment with the
// given clean field values.
func Eligible(spec domain.SegmentSpec, fields []string) []domain.ErrorKind {
	var kinds []domain.ErrorKind
	for _, k := range domain.StructuralErrorKinds {
		if eligible(k, spec, fields) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func eligible(k domain.ErrorKind, spec domain.SegmentSpec, fields []string) bool {
	switch k {
	case domain.KindMissingDelimiter, domain.KindDroppedField:
		return len(fields) >= 2
	case domain.KindExtraDelimiter:
		return len(fields) >= 1
	case domain.KindMissingTerminator, domain.KindMissingSegment:
		return true
	case domain.KindBlankedField:
		return firstNonEmpty(fields) >= 0
	case domain.KindMissingEnvelope:
		return spec.Role.IsEnvelope()
	case domain.KindControlNumberMismatch:
		return sharedIndex(spec, fields, domain.IsControlKey) >= 0
	case domain.KindIncorrectCount:
		return sharedIndex(spec, fields, domain.IsCountKey) >= 0
	}
	return false
}

// Mutate picks an eligible kind by weight and applies it.
func (m *Mutator) Mutate(spec domain.SegmentSpec, fields []string) Result {
	kinds := Eligible(spec, fields)
	choices := make([]randx.Choice[domain.ErrorKind], len(kinds))
	for i, k := range kinds {
		choices[i] = randx.C(k, weights[k])
	}
	return m.Apply(randx.Pick(m.rng, choices), spec, fields)
}

// Apply produces the given kind. A kind that cannot apply to this segment
// falls back to missing_segment.
func (m *Mutator) Apply(kind domain.ErrorKind, spec domain.SegmentSpec, fields []string) Result {
	fields = append([]string(nil), fields...)
	if !eligible(kind, spec, fields) {
		kind = domain.KindMissingSegment
	}

	switch kind {
	case domain.KindMissingDelimiter:
		return m.missingDelimiter(spec, fields)
	case domain.KindExtraDelimiter:
		return m.extraDelimiter(spec, fields)
	case domain.KindMissingTerminator:
		seg := domain.NewSegment(spec.ID, fields)
		text := strings.TrimSuffix(seg.String(), domain.SegmentTerminator)
		return Result{
			Segment: seg.WithRaw(text),
			Outcome: domain.Outcome{
				Kind:        kind,
				Value:       text,
				Explanation: fmt.Sprintf("The %s segment is not closed with the %q segment terminator.", spec.ID, domain.SegmentTerminator),
			},
		}
	case domain.KindDroppedField:
		return m.droppedField(spec, fields)
	case domain.KindBlankedField:
		return m.blankedField(spec, fields)
	case domain.KindMissingEnvelope:
		return m.missingEnvelope(spec, fields)
	case domain.KindControlNumberMismatch:
		return m.controlMismatch(spec, fields)
	case domain.KindIncorrectCount:
		return m.incorrectCount(spec, fields)
	default:
		seg := domain.NewSegment(spec.ID, fields)
		seg.Omitted = true
		return Result{
			Segment: seg,
			Outcome: domain.Outcome{
				Kind:        domain.KindMissingSegment,
				Explanation: fmt.Sprintf("The %s segment (%s) is missing from the transaction.", spec.ID, describe(spec)),
			},
		}
	}
}

// missingDelimiter merges two adjacent fields by removing the delimiter
// between them.
func (m *Mutator) missingDelimiter(spec domain.SegmentSpec, fields []string) Result {
	i := m.rng.IntN(len(fields) - 1)
	merged := make([]string, 0, len(fields)-1)
	merged = append(merged, fields[:i]...)
	merged = append(merged, fields[i]+fields[i+1])
	merged = append(merged, fields[i+2:]...)

	text := domain.Render(spec.ID, merged)
	return Result{
		Segment: domain.NewSegment(spec.ID, fields).WithRaw(text),
		Outcome: domain.Outcome{
			Kind:  domain.KindMissingDelimiter,
			Value: text,
			Explanation: fmt.Sprintf("The %q delimiter between %s and %s is missing, so the %s segment has %d fields instead of %d.",
				domain.FieldDelimiter, fieldName(spec, i), fieldName(spec, i+1), spec.ID, len(merged), len(fields)),
		},
	}
}

// extraDelimiter inserts an empty field, shifting every later value one
// position to the right.
func (m *Mutator) extraDelimiter(spec domain.SegmentSpec, fields []string) Result {
	i := m.rng.IntRange(0, len(fields)-1)
	extended := make([]string, 0, len(fields)+1)
	extended = append(extended, fields[:i]...)
	extended = append(extended, "")
	extended = append(extended, fields[i:]...)

	text := domain.Render(spec.ID, extended)
	return Result{
		Segment: domain.NewSegment(spec.ID, fields).WithRaw(text),
		Outcome: domain.Outcome{
			Kind:  domain.KindExtraDelimiter,
			Value: text,
			Explanation: fmt.Sprintf("An extra %q delimiter before %s shifts the rest of the %s segment, which now has %d fields instead of %d.",
				domain.FieldDelimiter, fieldName(spec, i), spec.ID, len(extended), len(fields)),
		},
	}
}

func (m *Mutator) droppedField(spec domain.SegmentSpec, fields []string) Result {
	i := m.rng.IntN(len(fields))
	dropped := append(append([]string(nil), fields[:i]...), fields[i+1:]...)

	seg := domain.NewSegment(spec.ID, dropped)
	return Result{
		Segment: seg,
		Outcome: domain.Outcome{
			Kind:  domain.KindDroppedField,
			Value: seg.String(),
			Explanation: fmt.Sprintf("%s was dropped together with its delimiter, so the %s segment has %d fields instead of %d.",
				fieldName(spec, i), spec.ID, len(dropped), len(fields)),
		},
	}
}

func (m *Mutator) blankedField(spec domain.SegmentSpec, fields []string) Result {
	var filled []int
	for i, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled = append(filled, i)
		}
	}
	i := randx.Uniform(m.rng, filled)
	fields[i] = ""

	seg := domain.NewSegment(spec.ID, fields)
	return Result{
		Segment: seg,
		Outcome: domain.Outcome{
			Kind:        domain.KindBlankedField,
			Value:       seg.String(),
			Explanation: fmt.Sprintf("%s in the %s segment has been emptied; its delimiters remain but the value is gone.", fieldName(spec, i), spec.ID),
		},
	}
}

func (m *Mutator) missingEnvelope(spec domain.SegmentSpec, fields []string) Result {
	seg := domain.NewSegment(spec.ID, fields)
	seg.Omitted = true

	explanation := fmt.Sprintf("The %s envelope segment (%s) is missing.", spec.ID, describe(spec))
	if spec.Pair != "" {
		explanation = fmt.Sprintf("The %s envelope segment (%s) and its %s counterpart are both missing.", spec.ID, describe(spec), spec.Pair)
	}
	return Result{
		Segment:  seg,
		OmitPair: spec.Pair != "",
		Outcome: domain.Outcome{
			Kind:        domain.KindMissingEnvelope,
			Explanation: explanation,
		},
	}
}

// controlMismatch replaces the segment's control number with a different
// number of the same width. The paired segment keeps the clean value.
func (m *Mutator) controlMismatch(spec domain.SegmentSpec, fields []string) Result {
	i := sharedIndex(spec, fields, domain.IsControlKey)
	f := spec.Fields[i]
	clean := fields[i]

	width := len(clean)
	modulus := 1
	for j := 0; j < width && j < 9; j++ {
		modulus *= 10
	}
	n, _ := strconv.Atoi(strings.TrimSpace(clean))
	wrong := fmt.Sprintf("%0*d", width, (n+m.rng.IntRange(1, modulus-1))%modulus)
	fields[i] = wrong

	partner := "its paired segment"
	if m.partners != nil {
		if p, ok := m.partners.Partner(spec.ID, f.SharedKey); ok {
			partner = p.ID
		}
	}
	return Result{
		Segment: domain.NewSegment(spec.ID, fields),
		Outcome: domain.Outcome{
			Kind:  domain.KindControlNumberMismatch,
			Value: wrong,
			Explanation: fmt.Sprintf("%s is '%s', but %s carries '%s'; the control numbers must match.",
				f.ID, wrong, partner, clean),
		},
	}
}

// incorrectCount shifts a declared count by 1 to 3.
func (m *Mutator) incorrectCount(spec domain.SegmentSpec, fields []string) Result {
	i := sharedIndex(spec, fields, domain.IsCountKey)
	f := spec.Fields[i]
	actual, _ := strconv.Atoi(strings.TrimSpace(fields[i]))

	delta := m.rng.IntRange(1, 3)
	declared := actual + delta
	if actual-delta >= 0 && m.rng.Bool(0.5) {
		declared = actual - delta
	}
	wrong := strconv.Itoa(declared)
	fields[i] = wrong

	return Result{
		Segment: domain.NewSegment(spec.ID, fields),
		Outcome: domain.Outcome{
			Kind:  domain.KindIncorrectCount,
			Value: wrong,
			Explanation: fmt.Sprintf("%s declares %d %s, but the actual count is %d.",
				f.ID, declared, countNouns[f.SharedKey], actual),
		},
	}
}

func sharedIndex(spec domain.SegmentSpec, fields []string, match func(string) bool) int {
	for i, f := range spec.Fields {
		if i < len(fields) && match(f.SharedKey) {
			return i
		}
	}
	return -1
}

func firstNonEmpty(fields []string) int {
	for i, f := range fields {
		if strings.TrimSpace(f) != "" {
			return i
		}
	}
	return -1
}

func fieldName(spec domain.SegmentSpec, i int) string {
	if i < len(spec.Fields) {
		return spec.Fields[i].ID
	}
	return fmt.Sprintf("%s%02d", spec.ID, i+1)
}

func describe(spec domain.SegmentSpec) string {
	if spec.Description != "" {
		return spec.Description
	}
	return string(spec.Role)
}
