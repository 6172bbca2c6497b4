package domain

import (
	"strconv"
	"strings"
)

// CharacterSet names the alphabet a field's clean value is drawn from.
type CharacterSet string

const (
	// CharsetNumeric allows digits only.
	CharsetNumeric CharacterSet = "numeric"
	// CharsetAlpha allows uppercase letters and space.
	CharsetAlpha CharacterSet = "alpha"
	// CharsetAlphanumeric allows uppercase letters, digits and space.
	CharsetAlphanumeric CharacterSet = "alphanumeric"
	// CharsetPrintable allows the X12 basic character set.
	CharsetPrintable CharacterSet = "printable"
	// CharsetExtended allows the X12 extended character set.
	CharsetExtended CharacterSet = "extended"
)

// CharacterSets lists every character set from most to least restrictive.
var CharacterSets = []CharacterSet{
	CharsetNumeric,
	CharsetAlpha,
	CharsetAlphanumeric,
	CharsetPrintable,
	CharsetExtended,
}

// Valid reports whether c is a known character set.
func (c CharacterSet) Valid() bool {
	for _, known := range CharacterSets {
		if c == known {
			return true
		}
	}
	return false
}

// MostPermissive reports whether no wider character set exists.
func (c CharacterSet) MostPermissive() bool {
	return c == CharsetExtended
}

// FieldType selects the routine that synthesizes a field's clean value.
type FieldType string

const (
	FieldGeneric           FieldType = "generic"
	FieldCode              FieldType = "code"
	FieldIdentifier        FieldType = "identifier"
	FieldDate              FieldType = "date"
	FieldBirthDate         FieldType = "birth_date"
	FieldTime              FieldType = "time"
	FieldCompanyName       FieldType = "company_name"
	FieldInsuranceProvider FieldType = "insurance_provider"
	FieldFirstName         FieldType = "first_name"
	FieldLastName          FieldType = "last_name"
	FieldMiddleInitial     FieldType = "middle_initial"
	FieldAddress           FieldType = "address"
	FieldAddressUnit       FieldType = "address_unit"
	FieldCity              FieldType = "city"
	FieldState             FieldType = "state"
	FieldZip               FieldType = "zip"
	FieldCounty            FieldType = "county"
	FieldPhone             FieldType = "phone"
	FieldSSN               FieldType = "ssn"
	FieldMemberID          FieldType = "member_id"
	FieldPlanID            FieldType = "plan_id"
	FieldControlNumber     FieldType = "control_number"
	FieldInterchangeID     FieldType = "interchange_id"
	FieldCount             FieldType = "count"
)

// FieldTypes lists every field type.
var FieldTypes = []FieldType{
	FieldGeneric, FieldCode, FieldIdentifier, FieldDate, FieldBirthDate,
	FieldTime, FieldCompanyName, FieldInsuranceProvider, FieldFirstName,
	FieldLastName, FieldMiddleInitial, FieldAddress, FieldAddressUnit,
	FieldCity, FieldState, FieldZip, FieldCounty, FieldPhone, FieldSSN,
	FieldMemberID, FieldPlanID, FieldControlNumber, FieldInterchangeID,
	FieldCount,
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCalendar reports whether values of this type are dates.
func (t FieldType) IsCalendar() bool {
	return t == FieldDate || t == FieldBirthDate
}

// Shared keys name values that must agree between two fields.
const (
	SharedInterchangeControl = "interchange_control"
	SharedGroupControl       = "group_control"
	SharedSetControl         = "set_control"
	SharedSegmentCount       = "segment_count"
	SharedSetCount           = "set_count"
	SharedGroupCount         = "group_count"
)

// IsControlKey reports whether key names a paired control number.
func IsControlKey(key string) bool {
	switch key {
	case SharedInterchangeControl, SharedGroupControl, SharedSetControl:
		return true
	}
	return false
}

// IsCountKey reports whether key names a declared count.
func IsCountKey(key string) bool {
	switch key {
	case SharedSegmentCount, SharedSetCount, SharedGroupCount:
		return true
	}
	return false
}

// ErrorScenario is a defect kind a field may receive, with an optional weight.
// A zero weight means the kind's default weight applies.
type ErrorScenario struct {
	Kind   ErrorKind
	Weight float64
}

// FieldSpec describes one positional field of a segment.
type FieldSpec struct {
	ID             string
	Segment        string
	Description    string
	CharacterSet   CharacterSet
	MinLength      int
	MaxLength      int
	ValidValues    []string
	CommonErrors   []string
	ErrorScenarios []ErrorScenario
	Required       bool
	FieldType      FieldType
	SharedKey      string
	Default        string
	HasDefault     bool
}

// SegmentOf derives the segment id from a field id by dropping the two
// trailing position digits ("ISA09" -> "ISA", "N101" -> "N1").
func SegmentOf(fieldID string) string {
	if len(fieldID) <= 2 {
		return ""
	}
	return fieldID[:len(fieldID)-2]
}

// Position returns the 1-based position encoded in a field id, or 0.
func Position(fieldID string) int {
	if len(fieldID) <= 2 {
		return 0
	}
	tail := fieldID[len(fieldID)-2:]
	if tail[0] < '0' || tail[0] > '9' || tail[1] < '0' || tail[1] > '9' {
		return 0
	}
	return int(tail[0]-'0')*10 + int(tail[1]-'0')
}

// IsValidValue reports whether v is one of the field's enumerated values.
// A field without enumerated values accepts nothing by enumeration.
func (f FieldSpec) IsValidValue(v string) bool {
	for _, allowed := range f.ValidValues {
		if v == allowed {
			return true
		}
	}
	return false
}

// InBounds reports whether v has an allowed length.
func (f FieldSpec) InBounds(v string) bool {
	return len(v) >= f.MinLength && len(v) <= f.MaxLength
}

// Fixed reports whether the field is fixed-width.
func (f FieldSpec) Fixed() bool {
	return f.MinLength == f.MaxLength
}

// Bounds renders the allowed length for explanations.
func (f FieldSpec) Bounds() string {
	if f.Fixed() {
		return "exactly " + strconv.Itoa(f.MinLength) + " characters"
	}
	return "between " + strconv.Itoa(f.MinLength) + " and " + strconv.Itoa(f.MaxLength) + " characters"
}

// ValidList renders the enumerated values for explanations.
func (f FieldSpec) ValidList() string {
	return strings.Join(f.ValidValues, ", ")
}

// Kinds returns the declared error kinds in declaration order.
func (f FieldSpec) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, len(f.ErrorScenarios))
	for i, s := range f.ErrorScenarios {
		kinds[i] = s.Kind
	}
	return kinds
}
