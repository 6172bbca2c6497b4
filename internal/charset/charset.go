// Package charset holds the catalog of named character sets that bound
// field values.
package charset

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

//go:embed charsets.yaml
var builtin []byte

type document struct {
	Delimiters string `yaml:"delimiters"`
	Sets       []struct {
		Name    string `yaml:"name"`
		Extends string `yaml:"extends"`
		Chars   string `yaml:"chars"`
	} `yaml:"sets"`
}

// Catalog resolves character sets and their safe and complement variants.
type Catalog struct {
	delimiters string
	sets       map[domain.CharacterSet]string
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing character sets: %w", err)
	}

	c := &Catalog{delimiters: doc.Delimiters, sets: make(map[domain.CharacterSet]string)}
	for _, s := range doc.Sets {
		name := domain.CharacterSet(s.Name)
		if !name.Valid() {
			return nil, fmt.Errorf("unknown character set %q", s.Name)
		}
		chars := s.Chars
		if s.Extends != "" {
			base, ok := c.sets[domain.CharacterSet(s.Extends)]
			if !ok {
				return nil, fmt.Errorf("character set %q extends undefined set %q", s.Name, s.Extends)
			}
			chars = base + chars
		}
		c.sets[name] = dedupe(chars)
	}

	for _, name := range domain.CharacterSets {
		if _, ok := c.sets[name]; !ok {
			return nil, fmt.Errorf("character set %q is not defined", name)
		}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtin)
		if err != nil {
			panic("charset: built-in catalog is invalid: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Delimiters returns the characters reserved for EDI syntax.
func (c *Catalog) Delimiters() string { return c.delimiters }

// Chars returns every character of the named set.
func (c *Catalog) Chars(set domain.CharacterSet) string {
	return c.sets[set]
}

// Safe returns the named set without delimiter characters.
func (c *Catalog) Safe(set domain.CharacterSet) string {
	return without(c.sets[set], c.delimiters)
}

// Visible returns the safe set without the space character.
func (c *Catalog) Visible(set domain.CharacterSet) string {
	return without(c.Safe(set), " ")
}

// Complement returns the safe extended characters that the named set does
// not allow, excluding space. It is empty for the extended set.
func (c *Catalog) Complement(set domain.CharacterSet) string {
	return without(c.Visible(domain.CharsetExtended), c.sets[set])
}

// Contains reports whether every character of s belongs to the named set.
func (c *Catalog) Contains(set domain.CharacterSet, s string) bool {
	chars := c.sets[set]
	for _, r := range s {
		if !strings.ContainsRune(chars, r) {
			return false
		}
	}
	return true
}

// IsDelimiter reports whether r is reserved for EDI syntax.
func (c *Catalog) IsDelimiter(r rune) bool {
	return strings.ContainsRune(c.delimiters, r)
}

func without(s, drop string) string {
	var b strings.Builder
	for _, r := range s {
		if !strings.ContainsRune(drop, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dedupe(s string) string {
	seen := make(map[rune]bool, len(s))
	var b strings.Builder
	for _, r := range s {
		if seen[r] {
			continue
		}
		seen[r] = true
		b.WriteRune(r)
	}
	return b.String()
}
