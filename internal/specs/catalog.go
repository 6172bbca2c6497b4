package specs

import "github.com/eykd/edi-trainer-go/internal/domain"

// Catalog is an immutable snapshot of every segment and field specification.
type Catalog struct {
	order    []string
	segments map[string]domain.SegmentSpec
	fields   map[string]domain.FieldSpec
}

// NewCatalog builds a catalog from segment specs. A later spec with the
// same id replaces an earlier one but keeps the earlier position.
func NewCatalog(segments []domain.SegmentSpec) *Catalog {
	c := &Catalog{
		segments: make(map[string]domain.SegmentSpec, len(segments)),
		fields:   make(map[string]domain.FieldSpec),
	}
	for _, s := range segments {
		if old, ok := c.segments[s.ID]; ok {
			for _, f := range old.Fields {
				delete(c.fields, f.ID)
			}
		} else {
			c.order = append(c.order, s.ID)
		}
		s.Fields = append([]domain.FieldSpec(nil), s.Fields...)
		c.segments[s.ID] = s
		for _, f := range s.Fields {
			c.fields[f.ID] = f
		}
	}
	return c
}

// Len returns the number of segments.
func (c *Catalog) Len() int { return len(c.order) }

// SegmentIDs returns segment ids in load order.
func (c *Catalog) SegmentIDs() []string {
	return append([]string(nil), c.order...)
}

// Segment returns a copy of the named segment spec.
func (c *Catalog) Segment(id string) (domain.SegmentSpec, bool) {
	s, ok := c.segments[id]
	if !ok {
		return domain.SegmentSpec{}, false
	}
	s.Fields = append([]domain.FieldSpec(nil), s.Fields...)
	return s, true
}

// Field returns the named field spec.
func (c *Catalog) Field(id string) (domain.FieldSpec, bool) {
	f, ok := c.fields[id]
	return f, ok
}

// Fields returns the named segment's fields in order.
func (c *Catalog) Fields(segmentID string) []domain.FieldSpec {
	s, ok := c.segments[segmentID]
	if !ok {
		return nil
	}
	return append([]domain.FieldSpec(nil), s.Fields...)
}

// FieldMap returns the catalog as segment id -> field id -> spec.
func (c *Catalog) FieldMap() map[string]map[string]domain.FieldSpec {
	out := make(map[string]map[string]domain.FieldSpec, len(c.segments))
	for id, s := range c.segments {
		m := make(map[string]domain.FieldSpec, len(s.Fields))
		for _, f := range s.Fields {
			m[f.ID] = f
		}
		out[id] = m
	}
	return out
}

// Partner returns the field in the paired segment that shares key with a
// field of segmentID.
func (c *Catalog) Partner(segmentID, key string) (domain.FieldSpec, bool) {
	s, ok := c.segments[segmentID]
	if !ok || s.Pair == "" {
		return domain.FieldSpec{}, false
	}
	pair, ok := c.segments[s.Pair]
	if !ok {
		return domain.FieldSpec{}, false
	}
	return pair.SharedField(key)
}

// pairFindings reports pair references that cannot be resolved.
func (c *Catalog) pairFindings() []domain.Finding {
	var findings []domain.Finding
	for _, id := range c.order {
		s := c.segments[id]
		if s.Pair == "" {
			continue
		}
		pair, ok := c.segments[s.Pair]
		if !ok {
			findings = append(findings, domain.Finding{
				Type:     domain.FindingUnpairedSegment,
				Severity: domain.SeverityWarning,
				Message:  "segment " + id + " names pair " + s.Pair + ", which is not defined",
			})
			continue
		}
		if pair.Pair != id {
			findings = append(findings, domain.Finding{
				Type:     domain.FindingUnpairedSegment,
				Severity: domain.SeverityWarning,
				Message:  "segment " + id + " pairs with " + s.Pair + ", but " + s.Pair + " does not pair back",
			})
		}
	}
	return findings
}
