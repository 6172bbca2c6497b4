package domain

import "strings"

// Delimiters used when rendering segments.
const (
	FieldDelimiter    = "*"
	SegmentTerminator = "~"
	SegmentSeparator  = "\n"
)

// SegmentRole places a segment within the envelope structure.
type SegmentRole string

const (
	RoleInterchangeHeader  SegmentRole = "interchange_header"
	RoleInterchangeTrailer SegmentRole = "interchange_trailer"
	RoleGroupHeader        SegmentRole = "group_header"
	RoleGroupTrailer       SegmentRole = "group_trailer"
	RoleSetHeader          SegmentRole = "set_header"
	RoleSetTrailer         SegmentRole = "set_trailer"
	RoleBody               SegmentRole = "body"
)

// Valid reports whether r is a known role.
func (r SegmentRole) Valid() bool {
	switch r {
	case RoleInterchangeHeader, RoleInterchangeTrailer, RoleGroupHeader,
		RoleGroupTrailer, RoleSetHeader, RoleSetTrailer, RoleBody:
		return true
	}
	return false
}

// IsEnvelope reports whether the role opens or closes an interchange or
// functional group.
func (r SegmentRole) IsEnvelope() bool {
	switch r {
	case RoleInterchangeHeader, RoleInterchangeTrailer, RoleGroupHeader, RoleGroupTrailer:
		return true
	}
	return false
}

// IsTrailer reports whether the role closes a structure.
func (r SegmentRole) IsTrailer() bool {
	return r == RoleInterchangeTrailer || r == RoleGroupTrailer || r == RoleSetTrailer
}

// SegmentSpec describes one segment type and its ordered fields.
type SegmentSpec struct {
	ID          string
	Description string
	Role        SegmentRole
	Pair        string
	Fields      []FieldSpec
}

// Field returns the field with the given id.
func (s SegmentSpec) Field(id string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldIndex returns the index of the field with the given id, or -1.
func (s SegmentSpec) FieldIndex(id string) int {
	for i, f := range s.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// ErrorFields returns the fields that declare at least one error scenario.
func (s SegmentSpec) ErrorFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range s.Fields {
		if len(f.ErrorScenarios) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// SharedField returns the first field carrying the given shared key.
func (s SegmentSpec) SharedField(key string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.SharedKey == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Segment is one rendered EDI segment.
type Segment struct {
	ID     string
	Fields []string
	// Omitted segments are assembled but left out of the rendered text.
	Omitted bool
	raw     string
}

// NewSegment builds a segment from ordered field values.
func NewSegment(id string, fields []string) Segment {
	return Segment{ID: id, Fields: fields}
}

// WithRaw returns a copy of s rendered as the literal text instead of
// from its fields.
func (s Segment) WithRaw(text string) Segment {
	s.raw = text
	return s
}

// String renders the segment as ID*f1*...*fN~.
func (s Segment) String() string {
	if s.raw != "" {
		return s.raw
	}
	return Render(s.ID, s.Fields)
}

// Render joins a segment id and field values with the field delimiter and
// appends the terminator.
func Render(id string, fields []string) string {
	var b strings.Builder
	b.WriteString(id)
	for _, f := range fields {
		b.WriteString(FieldDelimiter)
		b.WriteString(f)
	}
	b.WriteString(SegmentTerminator)
	return b.String()
}

// Transaction is an ordered sequence of segments forming one interchange.
type Transaction struct {
	Segments []Segment
}

// Rendered returns the segments that appear in the output.
func (t Transaction) Rendered() []Segment {
	out := make([]Segment, 0, len(t.Segments))
	for _, s := range t.Segments {
		if !s.Omitted {
			out = append(out, s)
		}
	}
	return out
}

// String joins the rendered segments with newlines.
func (t Transaction) String() string {
	rendered := t.Rendered()
	lines := make([]string, len(rendered))
	for i, s := range rendered {
		lines[i] = s.String()
	}
	return strings.Join(lines, SegmentSeparator)
}
