package specs

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// decode parses and checks one source. Segments are returned only when no
// error-severity finding was produced.
func decode(src Source) ([]domain.SegmentSpec, []domain.Finding) {
	var raw interface{}
	if err := yaml.Unmarshal(src.Data, &raw); err != nil {
		return nil, []domain.Finding{errorFinding(domain.FindingMalformedSource, src.Name, "parsing YAML: %v", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, []domain.Finding{errorFinding(domain.FindingMalformedSource, src.Name, "compiling schema: %v", err)}
	}
	result, err := sch.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, []domain.Finding{errorFinding(domain.FindingMalformedSource, src.Name, "validating: %v", err)}
	}
	if !result.Valid() {
		findings := make([]domain.Finding, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			findings = append(findings, errorFinding(domain.FindingSchemaViolation, src.Name, "%s", re.String()))
		}
		return nil, findings
	}

	var doc document
	if err := yaml.Unmarshal(src.Data, &doc); err != nil {
		return nil, []domain.Finding{errorFinding(domain.FindingMalformedSource, src.Name, "decoding: %v", err)}
	}

	var (
		segments []domain.SegmentSpec
		findings []domain.Finding
		seen     = make(map[string]bool)
	)
	for _, sd := range doc.Segments {
		if seen[sd.ID] {
			findings = append(findings, errorFinding(domain.FindingDuplicateField, src.Name, "segment %s is defined twice", sd.ID))
			continue
		}
		seen[sd.ID] = true

		spec := sd.toSpec()
		findings = append(findings, checkSegment(src.Name, spec)...)
		segments = append(segments, spec)
	}

	if hasErrors(findings) {
		return nil, findings
	}
	return segments, findings
}

func checkSegment(source string, seg domain.SegmentSpec) []domain.Finding {
	var findings []domain.Finding
	add := func(typ string, sev domain.FindingSeverity, format string, args ...interface{}) {
		findings = append(findings, domain.Finding{
			Type:     typ,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
			Source:   source,
		})
	}

	if !seg.Role.Valid() {
		add(domain.FindingSchemaViolation, domain.SeverityError, "segment %s has unknown role %q", seg.ID, seg.Role)
	}

	fieldSeen := make(map[string]bool)
	for i, f := range seg.Fields {
		if fieldSeen[f.ID] {
			add(domain.FindingDuplicateField, domain.SeverityError, "%s is defined twice in segment %s", f.ID, seg.ID)
		}
		fieldSeen[f.ID] = true

		if f.Segment != seg.ID {
			add(domain.FindingFieldOutsideSeg, domain.SeverityError, "%s does not belong to segment %s", f.ID, seg.ID)
		} else if domain.Position(f.ID) != i+1 {
			add(domain.FindingFieldOutsideSeg, domain.SeverityError, "%s is listed at position %d", f.ID, i+1)
		}
		if f.MinLength > f.MaxLength {
			add(domain.FindingInvalidBounds, domain.SeverityError, "%s: min_length %d exceeds max_length %d", f.ID, f.MinLength, f.MaxLength)
		}
		if !f.CharacterSet.Valid() {
			add(domain.FindingUnknownCharset, domain.SeverityError, "%s: unknown character set %q", f.ID, f.CharacterSet)
		}
		if !f.FieldType.Valid() {
			add(domain.FindingUnknownFieldType, domain.SeverityError, "%s: unknown field type %q", f.ID, f.FieldType)
		}
		for _, s := range f.ErrorScenarios {
			if !s.Kind.IsField() {
				add(domain.FindingUnknownErrorKind, domain.SeverityError, "%s: %q is not a field error kind", f.ID, s.Kind)
			}
		}
		for _, v := range f.ValidValues {
			if !f.InBounds(v) {
				add(domain.FindingValueOutOfBounds, domain.SeverityError, "%s: valid value %q is not %s long", f.ID, v, f.Bounds())
			}
		}
		if f.HasDefault && f.Default != "" && !f.InBounds(f.Default) {
			add(domain.FindingValueOutOfBounds, domain.SeverityError, "%s: default %q is not %s long", f.ID, f.Default, f.Bounds())
		}
		if declares(f, domain.KindInvalidValue) && len(f.ValidValues) == 0 && len(f.CommonErrors) == 0 &&
			!f.FieldType.IsCalendar() && f.FieldType != domain.FieldTime {
			add(domain.FindingUnreachableInvalid, domain.SeverityWarning,
				"%s declares invalid_value but has neither valid_values nor common_errors", f.ID)
		}
	}

	if len(seg.ErrorFields()) == 0 {
		add(domain.FindingNoErrorScenarios, domain.SeverityWarning,
			"segment %s has no field with error scenarios; only structural errors can target it", seg.ID)
	}
	return findings
}

func declares(f domain.FieldSpec, kind domain.ErrorKind) bool {
	for _, s := range f.ErrorScenarios {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func errorFinding(typ, source, format string, args ...interface{}) domain.Finding {
	return domain.Finding{
		Type:     typ,
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Source:   source,
	}
}

func hasErrors(findings []domain.Finding) bool {
	for _, f := range findings {
		if f.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}
