package domain

// ErrorKind identifies one defect from the closed taxonomy.
type ErrorKind string

// KindNone marks an outcome that carries no defect.
const KindNone ErrorKind = "none"

// Field-level kinds corrupt the content of one value.
const (
	KindBlankValue       ErrorKind = "blank_value"
	KindMissingValue     ErrorKind = "missing_value"
	KindInvalidValue     ErrorKind = "invalid_value"
	KindInvalidCharacter ErrorKind = "invalid_character"
	KindInvalidLength    ErrorKind = "invalid_length"
	KindAllZeros         ErrorKind = "all_zeros"
)

// Structural kinds violate the shape of a segment or envelope.
const (
	KindMissingDelimiter      ErrorKind = "missing_delimiter"
	KindExtraDelimiter        ErrorKind = "extra_delimiter"
	KindMissingTerminator     ErrorKind = "missing_terminator"
	KindDroppedField          ErrorKind = "dropped_field"
	KindBlankedField          ErrorKind = "blanked_field"
	KindMissingSegment        ErrorKind = "missing_segment"
	KindMissingEnvelope       ErrorKind = "missing_envelope"
	KindControlNumberMismatch ErrorKind = "control_number_mismatch"
	KindIncorrectCount        ErrorKind = "incorrect_count"
)

// FieldErrorKinds lists the field-level taxonomy.
var FieldErrorKinds = []ErrorKind{
	KindBlankValue,
	KindMissingValue,
	KindInvalidValue,
	KindInvalidCharacter,
	KindInvalidLength,
	KindAllZeros,
}

// StructuralErrorKinds lists the segment-level taxonomy.
var StructuralErrorKinds = []ErrorKind{
	KindMissingDelimiter,
	KindExtraDelimiter,
	KindMissingTerminator,
	KindDroppedField,
	KindBlankedField,
	KindMissingSegment,
	KindMissingEnvelope,
	KindControlNumberMismatch,
	KindIncorrectCount,
}

// defaultWeights holds the relative frequency used when a scenario
// declares no weight of its own.
var defaultWeights = map[ErrorKind]float64{
	KindBlankValue:       10,
	KindMissingValue:     15,
	KindInvalidValue:     25,
	KindInvalidCharacter: 5,
	KindInvalidLength:    5,
	KindAllZeros:         5,
}

// DefaultWeight returns the default selection weight for a field kind.
func (k ErrorKind) DefaultWeight() float64 {
	if w, ok := defaultWeights[k]; ok {
		return w
	}
	return 1
}

// IsField reports whether k belongs to the field-level taxonomy.
func (k ErrorKind) IsField() bool {
	for _, fk := range FieldErrorKinds {
		if k == fk {
			return true
		}
	}
	return false
}

// IsStructural reports whether k belongs to the segment-level taxonomy.
func (k ErrorKind) IsStructural() bool {
	for _, sk := range StructuralErrorKinds {
		if k == sk {
			return true
		}
	}
	return false
}

// String returns the kind's identifier.
func (k ErrorKind) String() string {
	return string(k)
}
