package domain

import "encoding/json"

// Target states what part of a transaction a directive implicates.
type Target string

const (
	TargetNone    Target = "NONE"
	TargetSegment Target = "SEGMENT"
	TargetField   Target = "FIELD"
)

// Intent is the first phase of a directive: which segment or field will
// carry the defect. It is one of NoError, SegmentError or FieldError.
type Intent interface {
	Target() Target
	isIntent()
}

// NoError is the intent of a clean transaction.
type NoError struct{}

// Target returns TargetNone.
func (NoError) Target() Target { return TargetNone }
func (NoError) isIntent()      {}

// SegmentError targets one occurrence of a segment for a structural defect.
type SegmentError struct {
	SegmentID  string
	Occurrence int
}

// Target returns TargetSegment.
func (SegmentError) Target() Target { return TargetSegment }
func (SegmentError) isIntent()      {}

// FieldError targets one field within one occurrence of a segment.
type FieldError struct {
	SegmentID  string
	Occurrence int
	FieldID    string
}

// Target returns TargetField.
func (FieldError) Target() Target { return TargetField }
func (FieldError) isIntent()      {}

// Outcome is the second phase: the concrete defect that was produced.
type Outcome struct {
	Kind        ErrorKind
	Value       string
	Explanation string
}

// Directive is the single per-transaction error decision. The intent is
// fixed at construction; the outcome is written at most once.
type Directive struct {
	intent   Intent
	outcome  Outcome
	resolved bool
}

// NewDirective creates a directive with the given intent. A nil intent is
// treated as NoError.
func NewDirective(intent Intent) *Directive {
	if intent == nil {
		intent = NoError{}
	}
	return &Directive{intent: intent}
}

// Intent returns the directive's intent.
func (d *Directive) Intent() Intent { return d.intent }

// Target returns the kind of target the intent names.
func (d *Directive) Target() Target { return d.intent.Target() }

// SegmentID returns the implicated segment, or "" for NoError.
func (d *Directive) SegmentID() string {
	switch in := d.intent.(type) {
	case SegmentError:
		return in.SegmentID
	case FieldError:
		return in.SegmentID
	}
	return ""
}

// FieldID returns the implicated field, or "" unless the target is a field.
func (d *Directive) FieldID() string {
	if in, ok := d.intent.(FieldError); ok {
		return in.FieldID
	}
	return ""
}

// Occurrence returns the implicated segment occurrence.
func (d *Directive) Occurrence() int {
	switch in := d.intent.(type) {
	case SegmentError:
		return in.Occurrence
	case FieldError:
		return in.Occurrence
	}
	return 0
}

// MatchesSegment reports whether the intent is a structural defect on this
// segment occurrence and no outcome has been written yet.
func (d *Directive) MatchesSegment(segmentID string, occurrence int) bool {
	in, ok := d.intent.(SegmentError)
	return ok && !d.resolved && in.SegmentID == segmentID && in.Occurrence == occurrence
}

// MatchesField reports whether the intent names this field of this segment
// occurrence and no outcome has been written yet.
func (d *Directive) MatchesField(segmentID string, occurrence int, fieldID string) bool {
	in, ok := d.intent.(FieldError)
	return ok && !d.resolved && in.SegmentID == segmentID &&
		in.Occurrence == occurrence && in.FieldID == fieldID
}

// Resolve records the outcome. Only the first call has any effect; it
// reports whether this call was the one that wrote.
func (d *Directive) Resolve(o Outcome) bool {
	if d.resolved {
		return false
	}
	d.outcome = o
	d.resolved = true
	return true
}

// Resolved reports whether an outcome has been written.
func (d *Directive) Resolved() bool { return d.resolved }

// Outcome returns the written outcome.
func (d *Directive) Outcome() Outcome { return d.outcome }

// HasError reports whether the transaction carries a materialized defect.
func (d *Directive) HasError() bool {
	return d.intent.Target() != TargetNone && d.resolved && d.outcome.Kind != KindNone
}

type directiveJSON struct {
	Target      Target    `json:"target"`
	SegmentID   string    `json:"segment,omitempty"`
	Occurrence  int       `json:"occurrence,omitempty"`
	FieldID     string    `json:"field,omitempty"`
	Kind        ErrorKind `json:"kind,omitempty"`
	Value       *string   `json:"value,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
}

// MarshalJSON encodes the directive as a flat object.
func (d *Directive) MarshalJSON() ([]byte, error) {
	out := directiveJSON{
		Target:     d.Target(),
		SegmentID:  d.SegmentID(),
		Occurrence: d.Occurrence(),
		FieldID:    d.FieldID(),
	}
	if d.resolved {
		v := d.outcome.Value
		out.Kind = d.outcome.Kind
		out.Value = &v
		out.Explanation = d.outcome.Explanation
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a directive encoded by MarshalJSON.
func (d *Directive) UnmarshalJSON(data []byte) error {
	var in directiveJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Target {
	case TargetSegment:
		d.intent = SegmentError{SegmentID: in.SegmentID, Occurrence: in.Occurrence}
	case TargetField:
		d.intent = FieldError{SegmentID: in.SegmentID, Occurrence: in.Occurrence, FieldID: in.FieldID}
	default:
		d.intent = NoError{}
	}
	d.resolved = false
	d.outcome = Outcome{}
	if in.Kind != "" {
		d.resolved = true
		d.outcome.Kind = in.Kind
		if in.Value != nil {
			d.outcome.Value = *in.Value
		}
		d.outcome.Explanation = in.Explanation
	}
	return nil
}
