// Package assembly plans, builds and renders EDI 834 interchanges with at
// most one injected defect.
package assembly

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/eykd/edi-trainer-go/internal/charset"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/errorgen"
	"github.com/eykd/edi-trainer-go/internal/randx"
	"github.com/eykd/edi-trainer-go/internal/structural"
	"github.com/eykd/edi-trainer-go/internal/targeting"
	"github.com/eykd/edi-trainer-go/internal/valuegen"
)

// Stream indexes derived from a transaction seed.
const (
	valueStream    = 0
	decisionStream = 1
)

var (
	// ErrUnknownSegment is returned when a layout names a segment the
	// catalog does not define.
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrInvalidSets is returned for a non-positive set count.
	ErrInvalidSets = errors.New("set count must be at least 1")
)

// Catalog is the read-only view of segment specifications the assembler
// needs.
type Catalog interface {
	Segment(id string) (domain.SegmentSpec, bool)
	Partner(segmentID, key string) (domain.FieldSpec, bool)
}

type options struct {
	now           func() time.Time
	charsets      *charset.Catalog
	fieldWeight   float64
	segmentWeight float64
}

// Option configures an Assembler.
type Option func(*options)

// WithClock sets the time source for generated dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCharsets sets the character-set catalog.
func WithCharsets(c *charset.Catalog) Option {
	return func(o *options) { o.charsets = c }
}

// WithTargetWeights sets the relative weights of field and segment errors.
func WithTargetWeights(field, segment float64) Option {
	return func(o *options) { o.fieldWeight, o.segmentWeight = field, segment }
}

// Assembler builds one transaction from one seed. It is not safe for
// concurrent use; create one per transaction.
type Assembler struct {
	catalog  Catalog
	layout   *randx.Source
	values   *valuegen.Generator
	errors   *errorgen.Generator
	mutator  *structural.Mutator
	selector *targeting.Selector
}

// New creates an Assembler whose value and decision streams both derive
// from seed.
func New(catalog Catalog, seed uint64, opts ...Option) *Assembler {
	o := options{
		now:           time.Now,
		charsets:      charset.Default(),
		fieldWeight:   targeting.DefaultFieldWeight,
		segmentWeight: targeting.DefaultSegmentWeight,
	}
	for _, opt := range opts {
		opt(&o)
	}

	values := randx.New(randx.Mix(seed, valueStream))
	decisions := randx.New(randx.Mix(seed, decisionStream))
	return &Assembler{
		catalog:  catalog,
		layout:   values,
		values:   valuegen.New(values, valuegen.WithClock(o.now), valuegen.WithCharsets(o.charsets)),
		errors:   errorgen.New(decisions, o.charsets),
		mutator:  structural.New(decisions, catalog),
		selector: targeting.New(decisions, catalog, targeting.WithTargetWeights(o.fieldWeight, o.segmentWeight)),
	}
}

// Generate plans a layout, decides the error for this run and assembles
// the interchange.
func (a *Assembler) Generate(errorRate float64, sets int) (domain.Transaction, *domain.Directive, error) {
	if sets < 1 {
		return domain.Transaction{}, nil, ErrInvalidSets
	}
	layout := Plan(a.layout, sets)
	directive := a.selector.Decide(errorRate, layout.SegmentIDs())

	tx, err := a.Assemble(layout, directive)
	if err != nil {
		return domain.Transaction{}, nil, err
	}
	return tx, directive, nil
}

// Assemble builds every instance of layout in order, applying directive.
// Counts are recorded in state before the trailer that declares them is
// built.
func (a *Assembler) Assemble(layout Layout, directive *domain.Directive) (domain.Transaction, error) {
	var (
		segments  []domain.Segment
		state     = NewState()
		pending   = make(map[string]bool)
		setStart  = -1
		setsBuilt = 0
		groups    = 0
	)

	for _, inst := range layout.Instances {
		spec, ok := a.catalog.Segment(inst.SegmentID)
		if !ok {
			return domain.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownSegment, inst.SegmentID)
		}

		switch spec.Role {
		case domain.RoleGroupHeader:
			groups++
		case domain.RoleSetHeader:
			setStart = len(segments)
		case domain.RoleSetTrailer:
			state.Set(domain.SharedSegmentCount, strconv.Itoa(rendered(segments, setStart)+1))
		case domain.RoleGroupTrailer:
			state.Set(domain.SharedSetCount, strconv.Itoa(setsBuilt))
		case domain.RoleInterchangeTrailer:
			state.Set(domain.SharedGroupCount, strconv.Itoa(groups))
		}

		seg, omitPair, err := a.Build(spec, inst, directive, state)
		if err != nil {
			return domain.Transaction{}, err
		}
		if pending[spec.ID] {
			seg.Omitted = true
			delete(pending, spec.ID)
		}
		if omitPair {
			if spec.Role.IsTrailer() {
				omitLast(segments, spec.Pair)
			} else {
				pending[spec.Pair] = true
			}
		}
		segments = append(segments, seg)

		if spec.Role == domain.RoleSetTrailer {
			setsBuilt++
		}
	}
	return domain.Transaction{Segments: segments}, nil
}

// Build renders one segment instance. Every position is rendered. A
// targeted field is replaced by the error generator and a targeted segment
// is handed to the structural mutator; either way the outcome is written
// to directive. The returned flag asks the caller to omit the pair.
func (a *Assembler) Build(spec domain.SegmentSpec, inst Instance, directive *domain.Directive, state *State) (domain.Segment, bool, error) {
	fields := make([]string, len(spec.Fields))
	for i, f := range spec.Fields {
		v, err := a.clean(spec, f, inst, state)
		if err != nil {
			return domain.Segment{}, false, err
		}
		fields[i] = v
	}

	if directive.MatchesSegment(spec.ID, inst.Occurrence) {
		res := a.mutator.Mutate(spec, fields)
		directive.Resolve(res.Outcome)
		return res.Segment, res.OmitPair, nil
	}

	for i, f := range spec.Fields {
		if directive.MatchesField(spec.ID, inst.Occurrence, f.ID) {
			out := a.errors.Generate(f, fields[i])
			fields[i] = out.Value
			directive.Resolve(out)
		}
	}
	return domain.NewSegment(spec.ID, fields), false, nil
}

// clean returns the uncorrupted value of one field. Headers generate
// control numbers and record them; trailers and count fields read them
// back from state.
func (a *Assembler) clean(spec domain.SegmentSpec, f domain.FieldSpec, inst Instance, state *State) (string, error) {
	if v, ok := inst.Values[f.ID]; ok {
		return v, nil
	}

	key := f.SharedKey
	reads := domain.IsCountKey(key) || (domain.IsControlKey(key) && spec.Role.IsTrailer())
	if reads {
		if v, ok := state.Get(key); ok {
			return v, nil
		}
	}

	v, err := a.values.Generate(f, inst.Types[f.ID])
	if err != nil {
		return "", err
	}
	if domain.IsControlKey(key) && !spec.Role.IsTrailer() {
		state.Set(key, v)
	}
	return v, nil
}

// rendered counts the segments from start onward that appear in output.
func rendered(segments []domain.Segment, start int) int {
	if start < 0 {
		return 0
	}
	n := 0
	for _, s := range segments[start:] {
		if !s.Omitted {
			n++
		}
	}
	return n
}

func omitLast(segments []domain.Segment, id string) {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].ID == id && !segments[i].Omitted {
			segments[i].Omitted = true
			return
		}
	}
}
