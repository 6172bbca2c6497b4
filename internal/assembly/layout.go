package assembly

import (
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/randx"
)

// Instance is one planned occurrence of a segment. Values pins field
// values for this occurrence only and Types overrides field types.
type Instance struct {
	SegmentID  string
	Occurrence int
	Values     map[string]string
	Types      map[string]domain.FieldType
}

// Layout is the ordered list of segment instances of one transaction.
type Layout struct {
	Instances []Instance
}

// SegmentIDs returns the segment id of every instance in order.
func (l Layout) SegmentIDs() []string {
	ids := make([]string, len(l.Instances))
	for i, in := range l.Instances {
		ids[i] = in.SegmentID
	}
	return ids
}

// Count returns how many instances of a segment the layout holds.
func (l Layout) Count(segmentID string) int {
	n := 0
	for _, in := range l.Instances {
		if in.SegmentID == segmentID {
			n++
		}
	}
	return n
}

var (
	sponsorCounts  = []randx.Choice[int]{randx.C(2, 70), randx.C(3, 30)}
	refCounts      = []randx.Choice[int]{randx.C(1, 60), randx.C(2, 30), randx.C(3, 10)}
	headerDTPs     = []randx.Choice[int]{randx.C(1, 50), randx.C(2, 30), randx.C(3, 15), randx.C(4, 5)}
	contactCounts  = []randx.Choice[int]{randx.C(0, 60), randx.C(1, 30), randx.C(2, 10)}
	coverageCounts = []randx.Choice[int]{randx.C(1, 60), randx.C(2, 30), randx.C(3, 10)}
	coverageDTPs   = []randx.Choice[int]{randx.C(1, 40), randx.C(2, 40), randx.C(3, 20)}
)

var (
	entityCodes    = []string{"P5", "IN", "BO"}
	referenceCodes = []string{"0F", "1L", "CE"}
	headerDates    = []string{"356", "348", "349", "347"}
	coverageDates  = []string{"348", "349", "303"}
)

// planner builds layouts, numbering occurrences per segment id across
// the whole interchange.
type planner struct {
	rng         *randx.Source
	layout      Layout
	occurrences map[string]int
}

// Plan draws the repetition counts and per-instance purpose codes of an
// interchange holding the given number of transaction sets.
func Plan(rng *randx.Source, sets int) Layout {
	p := &planner{rng: rng, occurrences: make(map[string]int)}

	p.add("ISA", nil, nil)
	p.add("GS", nil, nil)
	for i := 0; i < sets; i++ {
		p.set()
	}
	p.add("GE", nil, nil)
	p.add("IEA", nil, nil)
	return p.layout
}

func (p *planner) set() {
	p.add("ST", nil, nil)
	p.add("BGN", nil, nil)

	for _, code := range p.distinct(entityCodes, randx.Pick(p.rng, sponsorCounts)) {
		var types map[string]domain.FieldType
		if code == "IN" {
			types = map[string]domain.FieldType{"N102": domain.FieldInsuranceProvider}
		}
		p.add("N1", map[string]string{"N101": code}, types)
	}

	p.add("INS", nil, nil)
	for _, code := range p.distinct(referenceCodes, randx.Pick(p.rng, refCounts)) {
		p.add("REF", map[string]string{"REF01": code}, nil)
	}
	for _, code := range p.distinct(headerDates, randx.Pick(p.rng, headerDTPs)) {
		p.add("DTP", map[string]string{"DTP01": code}, nil)
	}

	p.add("NM1", nil, nil)
	for i := randx.Pick(p.rng, contactCounts); i > 0; i-- {
		p.add("PER", nil, nil)
	}
	if p.rng.Bool(0.8) {
		p.add("N3", nil, nil)
	}
	if p.rng.Bool(0.8) {
		p.add("N4", nil, nil)
	}
	if p.rng.Bool(0.7) {
		p.add("DMG", nil, nil)
	}

	for i := randx.Pick(p.rng, coverageCounts); i > 0; i-- {
		p.add("HD", nil, nil)
		n := randx.Pick(p.rng, coverageDTPs)
		for j := 0; j < n; j++ {
			p.add("DTP", map[string]string{"DTP01": coverageDates[j]}, nil)
		}
	}
	if p.rng.Bool(0.2) {
		p.add("COB", nil, nil)
	}
	p.add("SE", nil, nil)
}

// distinct returns n codes drawn without replacement.
func (p *planner) distinct(codes []string, n int) []string {
	shuffled := append([]string(nil), codes...)
	p.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func (p *planner) add(id string, values map[string]string, types map[string]domain.FieldType) {
	p.layout.Instances = append(p.layout.Instances, Instance{
		SegmentID:  id,
		Occurrence: p.occurrences[id],
		Values:     values,
		Types:      types,
	})
	p.occurrences[id]++
}
