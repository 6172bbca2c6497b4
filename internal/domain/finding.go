package domain

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a finding that prevents the catalog from loading.
	SeverityError FindingSeverity = "error"
	// SeverityWarning indicates a finding that should be reviewed.
	SeverityWarning FindingSeverity = "warning"
)

// Finding type constants identify the kind of issue found in a specification source.
const (
	FindingMalformedSource    = "malformed_source"
	FindingSchemaViolation    = "schema_violation"
	FindingInvalidBounds      = "invalid_bounds"
	FindingUnknownCharset     = "unknown_character_set"
	FindingUnknownFieldType   = "unknown_field_type"
	FindingUnknownErrorKind   = "unknown_error_kind"
	FindingFieldOutsideSeg    = "field_outside_segment"
	FindingValueOutOfBounds   = "value_out_of_bounds"
	FindingDuplicateField     = "duplicate_field"
	FindingNoErrorScenarios   = "no_error_scenarios"
	FindingUnpairedSegment    = "unpaired_segment"
	FindingMissingSource      = "missing_source"
	FindingUnreachableInvalid = "unreachable_invalid_value"
)

// Finding represents an issue discovered while checking specification sources.
type Finding struct {
	Type     string
	Severity FindingSeverity
	Message  string
	Source   string
}
