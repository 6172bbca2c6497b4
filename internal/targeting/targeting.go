// Package targeting decides whether a transaction carries an error and
// where it lands.
package targeting

import (
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/randx"
)

// Default split between field-level and structural errors.
const (
	DefaultFieldWeight   = 80
	DefaultSegmentWeight = 20
)

// SegmentLookup resolves segment specs by id.
type SegmentLookup interface {
	Segment(id string) (domain.SegmentSpec, bool)
}

// Selector draws error intents from the decision stream.
type Selector struct {
	rng           *randx.Source
	segments      SegmentLookup
	fieldWeight   float64
	segmentWeight float64
}

// Option configures a Selector.
type Option func(*Selector)

// WithTargetWeights sets the relative weights of field and segment targets.
func WithTargetWeights(field, segment float64) Option {
	return func(s *Selector) {
		s.fieldWeight, s.segmentWeight = field, segment
	}
}

// New creates a Selector.
func New(rng *randx.Source, segments SegmentLookup, opts ...Option) *Selector {
	s := &Selector{
		rng:           rng,
		segments:      segments,
		fieldWeight:   DefaultFieldWeight,
		segmentWeight: DefaultSegmentWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide returns a directive for a transaction whose planned segment
// instances are listed in layout order. Exactly one draw is made against
// errorRate; a rate of 0 always yields NoError.
func (s *Selector) Decide(errorRate float64, layout []string) *domain.Directive {
	if errorRate <= 0 || len(layout) == 0 || s.rng.Float64() >= errorRate {
		return domain.NewDirective(domain.NoError{})
	}

	target := randx.Pick(s.rng, []randx.Choice[domain.Target]{
		randx.C(domain.TargetField, s.fieldWeight),
		randx.C(domain.TargetSegment, s.segmentWeight),
	})

	var (
		distinct []string
		counts   = make(map[string]int)
	)
	for _, id := range layout {
		if counts[id] == 0 {
			distinct = append(distinct, id)
		}
		counts[id]++
	}
	segmentID := randx.Uniform(s.rng, distinct)
	occurrence := s.rng.IntN(counts[segmentID])

	if target == domain.TargetField {
		if spec, ok := s.segments.Segment(segmentID); ok {
			if fields := spec.ErrorFields(); len(fields) > 0 {
				f := randx.Uniform(s.rng, fields)
				return domain.NewDirective(domain.FieldError{
					SegmentID:  segmentID,
					Occurrence: occurrence,
					FieldID:    f.ID,
				})
			}
		}
	}
	return domain.NewDirective(domain.SegmentError{SegmentID: segmentID, Occurrence: occurrence})
}
