// Package valuegen synthesizes plausible clean values for fields.
package valuegen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/eykd/edi-trainer-go/internal/charset"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/randstr"
	"github.com/eykd/edi-trainer-go/internal/randx"
	"github.com/eykd/edi-trainer-go/internal/sanitize"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generator produces clean field values from a seeded stream.
type Generator struct {
	rng      *randx.Source
	faker    *gofakeit.Faker
	charsets *charset.Catalog
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source for dates and times.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithCharsets sets the character-set catalog.
func WithCharsets(c *charset.Catalog) Option {
	return func(g *Generator) { g.charsets = c }
}

// New creates a Generator drawing from rng. The faker is seeded from rng
// so the whole output is reproducible from one seed.
func New(rng *randx.Source, opts ...Option) *Generator {
	g := &Generator{
		rng:      rng,
		charsets: charset.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.faker = gofakeit.New(rng.Uint64())
	return g
}

// Generate returns a clean value for f. typ overrides the field's own
// type when non-empty. Defaults are returned verbatim; enumerated fields
// draw from their valid values.
func (g *Generator) Generate(f domain.FieldSpec, typ domain.FieldType) (string, error) {
	if f.HasDefault {
		return f.Default, nil
	}
	if typ == "" {
		typ = f.FieldType
	}
	if len(f.ValidValues) > 0 {
		return randx.Uniform(g.rng, f.ValidValues), nil
	}

	raw, err := g.synthesize(f, typ)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", f.ID, err)
	}
	return g.finish(f, raw)
}

func (g *Generator) synthesize(f domain.FieldSpec, typ domain.FieldType) (string, error) {
	switch typ {
	case domain.FieldDate:
		return formatDate(f, g.now().AddDate(0, 0, g.rng.IntRange(-30, 90))), nil
	case domain.FieldBirthDate:
		years := g.rng.IntRange(18, 80)
		return formatDate(f, g.now().AddDate(-years, 0, -g.rng.IntRange(0, 364))), nil
	case domain.FieldTime:
		return g.clockTime(f), nil
	case domain.FieldCompanyName, domain.FieldInterchangeID:
		return g.faker.Company(), nil
	case domain.FieldInsuranceProvider:
		return randx.Uniform(g.rng, insuranceProviders), nil
	case domain.FieldFirstName:
		return g.faker.FirstName(), nil
	case domain.FieldLastName:
		return g.faker.LastName(), nil
	case domain.FieldMiddleInitial:
		return randstr.FromIndex(g.rng, letters, 1), nil
	case domain.FieldAddress:
		return g.faker.Street(), nil
	case domain.FieldAddressUnit:
		unit := randx.Uniform(g.rng, unitKinds) + " " + strconv.Itoa(g.rng.IntRange(1, 999))
		if g.rng.Bool(0.3) {
			unit += randstr.FromIndex(g.rng, letters, 1)
		}
		return unit, nil
	case domain.FieldCity:
		return g.faker.City(), nil
	case domain.FieldState:
		return g.faker.StateAbr(), nil
	case domain.FieldZip:
		return g.faker.Zip(), nil
	case domain.FieldCounty:
		return randx.Uniform(g.rng, counties), nil
	case domain.FieldPhone:
		return g.faker.Phone(), nil
	case domain.FieldSSN:
		return g.faker.SSN(), nil
	case domain.FieldMemberID:
		n := 9
		if n > f.MaxLength {
			n = f.MaxLength
		}
		return randstr.Generate(g.rng, randstr.Digits, n)
	case domain.FieldPlanID:
		return fmt.Sprintf("PLAN%03d", g.rng.IntRange(1, 999)), nil
	case domain.FieldControlNumber:
		return fmt.Sprintf("%0*d", f.MinLength, g.rng.IntRange(1, 9999)), nil
	case domain.FieldCount:
		return "1", nil
	default:
		// generic, code and identifier fields are random strings over the
		// field's visible characters.
		return randstr.Generate(g.rng, g.charsets.Visible(f.CharacterSet), g.length(f))
	}
}

// finish folds raw into the field's character set and length bounds.
func (g *Generator) finish(f domain.FieldSpec, raw string) (string, error) {
	upper := f.CharacterSet != domain.CharsetExtended
	v := sanitize.Clean(raw, g.charsets.Safe(f.CharacterSet), upper)

	if v == "" && f.MinLength > 0 {
		var err error
		v, err = randstr.Generate(g.rng, g.charsets.Visible(f.CharacterSet), g.length(f))
		if err != nil {
			return "", err
		}
	}

	if f.CharacterSet == domain.CharsetNumeric {
		return sanitize.Fit(v, f.MinLength, f.MaxLength, '0', true), nil
	}
	return sanitize.Fit(v, f.MinLength, f.MaxLength, ' ', false), nil
}

// length picks a plausible length for a free-form value: at least 5 and
// at most 10 characters where the bounds allow.
func (g *Generator) length(f domain.FieldSpec) int {
	lo, hi := f.MinLength, f.MaxLength
	if lo < 5 {
		lo = min(5, hi)
	}
	if hi > 10 {
		hi = max(10, lo)
	}
	return g.rng.IntRange(lo, hi)
}

func (g *Generator) clockTime(f domain.FieldSpec) string {
	h, m := g.rng.IntRange(0, 23), g.rng.IntRange(0, 59)
	if f.MinLength <= 6 && f.MaxLength >= 6 {
		return fmt.Sprintf("%02d%02d%02d", h, m, g.rng.IntRange(0, 59))
	}
	return fmt.Sprintf("%02d%02d", h, m)
}

// formatDate renders t as CCYYMMDD when eight characters fit, otherwise
// as YYMMDD.
func formatDate(f domain.FieldSpec, t time.Time) string {
	if f.MinLength <= 8 && f.MaxLength >= 8 {
		return t.Format("20060102")
	}
	return t.Format("060102")
}
