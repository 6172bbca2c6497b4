// Package errorgen corrupts a single field value according to the
// field-level error taxonomy and explains the result.
package errorgen

import (
	"fmt"
	"strings"

	"github.com/eykd/edi-trainer-go/internal/charset"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/randstr"
	"github.com/eykd/edi-trainer-go/internal/randx"
)

// Exhausted is the value used when no suitable invalid value could be
// synthesized.
const Exhausted = "N/A"

const maxAttempts = 100

// Generator draws error kinds and erroneous values from one stream.
type Generator struct {
	rng      *randx.Source
	charsets *charset.Catalog
}

// New creates a Generator. A nil catalog selects the built-in one.
func New(rng *randx.Source, charsets *charset.Catalog) *Generator {
	if charsets == nil {
		charsets = charset.Default()
	}
	return &Generator{rng: rng, charsets: charsets}
}

// Generate picks one of the field's declared error kinds by weight and
// applies it to valid. A field without scenarios yields a KindNone outcome
// carrying valid unchanged.
func (g *Generator) Generate(f domain.FieldSpec, valid string) domain.Outcome {
	if len(f.ErrorScenarios) == 0 {
		return domain.Outcome{Kind: domain.KindNone, Value: valid}
	}
	return g.Apply(g.pickKind(f), f, valid)
}

func (g *Generator) pickKind(f domain.FieldSpec) domain.ErrorKind {
	choices := make([]randx.Choice[domain.ErrorKind], len(f.ErrorScenarios))
	for i, s := range f.ErrorScenarios {
		w := s.Weight
		if w <= 0 {
			w = s.Kind.DefaultWeight()
		}
		choices[i] = randx.C(s.Kind, w)
	}
	return randx.Pick(g.rng, choices)
}

// Apply produces an outcome of the given kind. Unknown kinds fall back to
// missing_value.
func (g *Generator) Apply(kind domain.ErrorKind, f domain.FieldSpec, valid string) domain.Outcome {
	switch kind {
	case domain.KindBlankValue:
		return g.blank(f)
	case domain.KindMissingValue:
		return missing(f)
	case domain.KindInvalidValue:
		return g.invalidValue(f, valid)
	case domain.KindInvalidCharacter:
		return g.invalidCharacter(f, valid)
	case domain.KindInvalidLength:
		return g.invalidLength(f, valid)
	case domain.KindAllZeros:
		return g.allZeros(f)
	default:
		return missing(f)
	}
}

func (g *Generator) blank(f domain.FieldSpec) domain.Outcome {
	n := g.rng.IntRange(f.MinLength, f.MaxLength)
	return domain.Outcome{
		Kind:        domain.KindBlankValue,
		Value:       strings.Repeat(" ", n),
		Explanation: fmt.Sprintf("%s contains only spaces instead of a value.", f.ID),
	}
}

func missing(f domain.FieldSpec) domain.Outcome {
	return domain.Outcome{
		Kind:        domain.KindMissingValue,
		Value:       "",
		Explanation: fmt.Sprintf("%s is empty, but a value %s long is expected.", f.ID, f.Bounds()),
	}
}

func (g *Generator) invalidValue(f domain.FieldSpec, valid string) domain.Outcome {
	out := domain.Outcome{Kind: domain.KindInvalidValue}

	var candidates []string
	for _, c := range f.CommonErrors {
		if c != valid && !f.IsValidValue(c) {
			candidates = append(candidates, c)
		}
	}

	switch {
	case len(candidates) > 0:
		out.Value = randx.Uniform(g.rng, candidates)
	case f.FieldType.IsCalendar():
		out.Value = g.impossibleDate(f)
	case f.FieldType == domain.FieldTime:
		out.Value = g.impossibleTime(f)
	default:
		out.Value = g.synthesizeInvalid(f, valid)
	}

	switch {
	case out.Value == Exhausted:
		out.Explanation = fmt.Sprintf("%s could not be given a distinct invalid value; %s was used instead.", f.ID, Exhausted)
	case len(f.ValidValues) > 0:
		out.Explanation = fmt.Sprintf("%s contains '%s', which is not one of the valid values: %s.", f.ID, out.Value, f.ValidList())
	case f.FieldType.IsCalendar():
		out.Explanation = fmt.Sprintf("%s contains '%s', which is not a real calendar date.", f.ID, out.Value)
	case f.FieldType == domain.FieldTime:
		out.Explanation = fmt.Sprintf("%s contains '%s', which is not a real time of day.", f.ID, out.Value)
	default:
		out.Explanation = fmt.Sprintf("%s contains '%s', which is not a valid value for this field.", f.ID, out.Value)
	}
	return out
}

// synthesizeInvalid draws values of valid length until one is neither an
// enumerated value nor the clean value.
func (g *Generator) synthesizeInvalid(f domain.FieldSpec, valid string) string {
	alphabet := g.charsets.Visible(f.CharacterSet)
	lo := max(f.MinLength, 1)
	for i := 0; i < maxAttempts; i++ {
		n := g.rng.IntRange(lo, f.MaxLength)
		v := randstr.FromIndex(g.rng, alphabet, n)
		if v != "" && v != valid && !f.IsValidValue(v) {
			return v
		}
	}
	return Exhausted
}

func (g *Generator) impossibleDate(f domain.FieldSpec) string {
	month, day := g.rng.IntRange(1, 12), g.rng.IntRange(1, 28)
	if g.rng.Bool(0.5) {
		month = g.rng.IntRange(13, 99)
	} else {
		day = g.rng.IntRange(32, 99)
	}
	if f.MaxLength >= 8 && f.MinLength <= 8 {
		return fmt.Sprintf("%04d%02d%02d", g.rng.IntRange(1950, 2030), month, day)
	}
	return fmt.Sprintf("%02d%02d%02d", g.rng.IntRange(0, 99), month, day)
}

func (g *Generator) impossibleTime(f domain.FieldSpec) string {
	hour, minute := g.rng.IntRange(0, 23), g.rng.IntRange(0, 59)
	if g.rng.Bool(0.5) {
		hour = g.rng.IntRange(24, 99)
	} else {
		minute = g.rng.IntRange(60, 99)
	}
	if f.MinLength <= 6 && f.MaxLength >= 6 {
		return fmt.Sprintf("%02d%02d%02d", hour, minute, g.rng.IntRange(0, 59))
	}
	return fmt.Sprintf("%02d%02d", hour, minute)
}

// invalidCharacter replaces one to three positions of the valid value with
// characters outside the field's set. The length stays within bounds.
func (g *Generator) invalidCharacter(f domain.FieldSpec, valid string) domain.Outcome {
	pool := g.charsets.Complement(f.CharacterSet)
	if pool == "" {
		return missing(f)
	}

	base := []byte(valid)
	if len(base) == 0 {
		base = []byte(randstr.FromIndex(g.rng, g.charsets.Visible(f.CharacterSet), max(f.MinLength, 1)))
	}

	n := g.rng.IntRange(1, min(3, len(base)))
	positions := make([]int, len(base))
	for i := range positions {
		positions[i] = i
	}
	g.rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })

	injected := make([]byte, 0, n)
	for _, p := range positions[:n] {
		c := pool[g.rng.IntN(len(pool))]
		base[p] = c
		injected = append(injected, c)
	}

	quoted, count := quoteChars(injected)
	return domain.Outcome{
		Kind:  domain.KindInvalidCharacter,
		Value: string(base),
		Explanation: fmt.Sprintf("%s contains %s, which %s not allowed in a %s field.",
			f.ID, quoted, plural(count, "is", "are"), f.CharacterSet),
	}
}

func (g *Generator) invalidLength(f domain.FieldSpec, valid string) domain.Outcome {
	alphabet := g.charsets.Visible(f.CharacterSet)
	if valid == "" || strings.TrimSpace(valid) == "" {
		valid = randstr.FromIndex(g.rng, alphabet, max(f.MinLength, 1))
	}

	var v, how string
	if f.MinLength > 0 && g.rng.Bool(0.5) {
		n := g.rng.IntRange(0, f.MinLength-1)
		v = valid
		if len(v) > n {
			v = v[:n]
		}
		how = "too short"
	} else {
		n := g.rng.IntRange(f.MaxLength+1, f.MaxLength+3)
		v = valid
		if len(v) < n {
			v += randstr.FromIndex(g.rng, alphabet, n-len(v))
		}
		how = "too long"
	}

	return domain.Outcome{
		Kind:  domain.KindInvalidLength,
		Value: v,
		Explanation: fmt.Sprintf("%s is %s: it has %d characters, but it must be %s long.",
			f.ID, how, len(v), f.Bounds()),
	}
}

func (g *Generator) allZeros(f domain.FieldSpec) domain.Outcome {
	n := g.rng.IntRange(max(f.MinLength, 1), max(f.MaxLength, 1))
	return domain.Outcome{
		Kind:        domain.KindAllZeros,
		Value:       strings.Repeat("0", n),
		Explanation: fmt.Sprintf("%s contains only zeros, which is a placeholder rather than a real value.", f.ID),
	}
}

// quoteChars lists the distinct characters as 'a', 'b' and returns how
// many there were.
func quoteChars(chars []byte) (string, int) {
	seen := map[byte]bool{}
	var parts []string
	for _, c := range chars {
		if seen[c] {
			continue
		}
		seen[c] = true
		parts = append(parts, "'"+string(c)+"'")
	}
	return strings.Join(parts, ", "), len(parts)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
