package assembly

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/specs"
)

var fixedNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func loadCatalog(t *testing.T) *specs.Catalog {
	t.Helper()
	c, err := specs.NewStore().Load(context.Background())
	require.NoError(t, err)
	return c
}

func generate(t *testing.T, c *specs.Catalog, seed uint64, rate float64, sets int) (domain.Transaction, *domain.Directive) {
	t.Helper()
	tx, d, err := New(c, seed, WithClock(func() time.Time { return fixedNow })).Generate(rate, sets)
	require.NoError(t, err)
	return tx, d
}

type line struct {
	id     string
	fields []string
}

func parse(text string) []line {
	var out []line
	for _, raw := range strings.Split(text, domain.SegmentSeparator) {
		parts := strings.Split(strings.TrimSuffix(raw, domain.SegmentTerminator), domain.FieldDelimiter)
		out = append(out, line{id: parts[0], fields: parts[1:]})
	}
	return out
}

func find(lines []line, id string) []line {
	var out []line
	for _, l := range lines {
		if l.id == id {
			out = append(out, l)
		}
	}
	return out
}

func TestGenerate_CleanTransactionIsWellFormed(t *testing.T) {
	c := loadCatalog(t)
	for seed := uint64(1); seed <= 40; seed++ {
		sets := int(seed%3) + 1
		tx, d := generate(t, c, seed, 0, sets)
		assert.False(t, d.HasError())
		assert.Equal(t, domain.TargetNone, d.Target())

		lines := parse(tx.String())
		for _, l := range lines {
			spec, ok := c.Segment(l.id)
			require.True(t, ok, l.id)
			assert.Len(t, l.fields, len(spec.Fields), "seed %d %s", seed, l.id)
		}

		isa, iea := find(lines, "ISA"), find(lines, "IEA")
		require.Len(t, isa, 1)
		require.Len(t, iea, 1)
		assert.Equal(t, isa[0].fields[12], iea[0].fields[1])
		assert.Equal(t, "1", iea[0].fields[0])

		gs, ge := find(lines, "GS"), find(lines, "GE")
		require.Len(t, gs, 1)
		require.Len(t, ge, 1)
		assert.Equal(t, gs[0].fields[5], ge[0].fields[1])
		assert.Equal(t, strconv.Itoa(sets), ge[0].fields[0])

		sts, ses := find(lines, "ST"), find(lines, "SE")
		require.Len(t, sts, sets)
		require.Len(t, ses, sets)
		for i := range sts {
			assert.Equal(t, sts[i].fields[1], ses[i].fields[1])
		}
	}
}

func TestGenerate_SegmentCountMatchesRenderedSet(t *testing.T) {
	c := loadCatalog(t)
	tx, _ := generate(t, c, 12, 0, 2)

	count := 0
	for _, l := range parse(tx.String()) {
		switch l.id {
		case "ST":
			count = 1
		case "SE":
			count++
			assert.Equal(t, strconv.Itoa(count), l.fields[0])
		default:
			count++
		}
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	c := loadCatalog(t)
	a, _ := generate(t, c, 2024, 0.5, 2)
	b, _ := generate(t, c, 2024, 0.5, 2)
	assert.Equal(t, a.String(), b.String())

	other, _ := generate(t, c, 2025, 0.5, 2)
	assert.NotEqual(t, a.String(), other.String())
}

func TestGenerate_NoDelimitersInsideFields(t *testing.T) {
	c := loadCatalog(t)
	for seed := uint64(1); seed <= 30; seed++ {
		tx, _ := generate(t, c, seed, 0, 1)
		for _, seg := range tx.Rendered() {
			for _, f := range seg.Fields {
				assert.NotContains(t, f, domain.FieldDelimiter)
				assert.NotContains(t, f, domain.SegmentTerminator)
			}
		}
	}
}

func TestGenerate_FullRateAlwaysResolves(t *testing.T) {
	c := loadCatalog(t)
	for seed := uint64(1); seed <= 100; seed++ {
		_, d := generate(t, c, seed, 1, 1)
		require.NotEqual(t, domain.TargetNone, d.Target())
		assert.True(t, d.Resolved(), "seed %d", seed)
		assert.True(t, d.HasError(), "seed %d", seed)
		assert.NotEmpty(t, d.Outcome().Explanation)
		if d.Target() == domain.TargetField {
			assert.True(t, d.Outcome().Kind.IsField())
		} else {
			assert.True(t, d.Outcome().Kind.IsStructural())
		}
	}
}

func TestGenerate_FieldErrorChangesExactlyOneField(t *testing.T) {
	c := loadCatalog(t)
	checked := 0
	for seed := uint64(1); seed <= 200; seed++ {
		faulty, d := generate(t, c, seed, 1, 1)
		if d.Target() != domain.TargetField {
			continue
		}
		baseline, _ := generate(t, c, seed, 0, 1)
		checked++

		got, want := parse(faulty.String()), parse(baseline.String())
		require.Len(t, got, len(want), "seed %d", seed)

		diffs := 0
		for i := range want {
			require.Equal(t, want[i].id, got[i].id)
			require.Len(t, got[i].fields, len(want[i].fields))
			for j := range want[i].fields {
				if got[i].fields[j] != want[i].fields[j] {
					diffs++
					spec, _ := c.Segment(got[i].id)
					assert.Equal(t, d.FieldID(), spec.Fields[j].ID, "seed %d", seed)
					assert.Equal(t, d.Outcome().Value, got[i].fields[j])
				}
			}
		}
		assert.Equal(t, 1, diffs, "seed %d: %s", seed, d.Outcome().Explanation)
	}
	assert.Greater(t, checked, 50)
}

func TestAssemble_MissingEnvelopeOmitsPair(t *testing.T) {
	c := loadCatalog(t)
	envelope := Layout{Instances: []Instance{
		{SegmentID: "ISA"}, {SegmentID: "GS"}, {SegmentID: "GE"}, {SegmentID: "IEA"},
	}}
	pairs := map[string]string{"ISA": "IEA", "IEA": "ISA", "GS": "GE", "GE": "GS"}

	for target, pair := range pairs {
		t.Run(target, func(t *testing.T) {
			hits := 0
			for seed := uint64(0); seed < 150; seed++ {
				d := domain.NewDirective(domain.SegmentError{SegmentID: target})
				tx, err := New(c, seed).Assemble(envelope, d)
				require.NoError(t, err)
				require.Len(t, tx.Segments, 4)
				if d.Outcome().Kind != domain.KindMissingEnvelope {
					continue
				}
				hits++

				for _, seg := range tx.Segments {
					omitted := seg.ID == target || seg.ID == pair
					assert.Equal(t, omitted, seg.Omitted, "seed %d %s", seed, seg.ID)
				}
				for _, seg := range tx.Rendered() {
					assert.NotEqual(t, target, seg.ID)
					assert.NotEqual(t, pair, seg.ID)
				}
			}
			assert.Greater(t, hits, 0)
		})
	}
}

func TestBuild_MissingSegmentKeepsCountConsistent(t *testing.T) {
	c := loadCatalog(t)
	for seed := uint64(0); seed < 60; seed++ {
		a := New(c, seed, WithClock(func() time.Time { return fixedNow }))
		layout := Plan(a.layout, 1)
		d := domain.NewDirective(domain.SegmentError{SegmentID: "BGN"})
		tx, err := a.Assemble(layout, d)
		require.NoError(t, err)
		if d.Outcome().Kind != domain.KindMissingSegment {
			continue
		}

		lines := parse(tx.String())
		assert.Empty(t, find(lines, "BGN"))
		count := 0
		for _, l := range lines {
			if l.id == "ST" {
				count = 0
			}
			count++
			if l.id == "SE" {
				assert.Equal(t, strconv.Itoa(count), l.fields[0])
			}
		}
	}
}

func TestBuild_ControlMismatchOnlyChangesOneSide(t *testing.T) {
	c := loadCatalog(t)
	for seed := uint64(0); seed < 60; seed++ {
		a := New(c, seed, WithClock(func() time.Time { return fixedNow }))
		layout := Plan(a.layout, 1)
		d := domain.NewDirective(domain.SegmentError{SegmentID: "SE"})
		tx, err := a.Assemble(layout, d)
		require.NoError(t, err)
		if d.Outcome().Kind != domain.KindControlNumberMismatch {
			continue
		}

		lines := parse(tx.String())
		st, se := find(lines, "ST")[0], find(lines, "SE")[0]
		assert.NotEqual(t, st.fields[1], se.fields[1])
		assert.Len(t, se.fields[1], len(st.fields[1]))
		assert.Equal(t, d.Outcome().Value, se.fields[1])
	}
}

func TestGenerate_InvalidSets(t *testing.T) {
	_, _, err := New(loadCatalog(t), 1).Generate(0, 0)
	assert.True(t, errors.Is(err, ErrInvalidSets))
}

func TestAssemble_UnknownSegment(t *testing.T) {
	a := New(loadCatalog(t), 1)
	_, err := a.Assemble(Layout{Instances: []Instance{{SegmentID: "XYZ"}}}, domain.NewDirective(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSegment))
	assert.Contains(t, err.Error(), "XYZ")
}

func TestAssemble_ForcedInterchangeDateLengthError(t *testing.T) {
	base := loadCatalog(t)
	var segments []domain.SegmentSpec
	for _, id := range base.SegmentIDs() {
		s, _ := base.Segment(id)
		if id == "ISA" {
			i := s.FieldIndex("ISA09")
			s.Fields[i].ErrorScenarios = []domain.ErrorScenario{{Kind: domain.KindInvalidLength}}
		}
		segments = append(segments, s)
	}
	c := specs.NewCatalog(segments)
	clock := WithClock(func() time.Time { return fixedNow })

	for seed := uint64(1); seed <= 20; seed++ {
		a := New(c, seed, clock)
		d := domain.NewDirective(domain.FieldError{SegmentID: "ISA", FieldID: "ISA09"})
		faulty, err := a.Assemble(Plan(a.layout, 1), d)
		require.NoError(t, err)

		b := New(c, seed, clock)
		baseline, err := b.Assemble(Plan(b.layout, 1), domain.NewDirective(nil))
		require.NoError(t, err)

		require.True(t, d.Resolved())
		assert.Equal(t, domain.KindInvalidLength, d.Outcome().Kind)

		got, want := parse(faulty.String()), parse(baseline.String())
		isa, clean := got[0].fields, want[0].fields
		assert.NotEqual(t, 6, len(isa[8]), "seed %d: ISA09 = %q", seed, isa[8])
		for j := range clean {
			if j != 8 {
				assert.Equal(t, clean[j], isa[j], "seed %d: ISA%02d", seed, j+1)
			}
		}
		assert.Equal(t, want[1:], got[1:], "seed %d", seed)
	}
}
