// Package specs loads, validates and caches the segment and field
// specifications that drive transaction generation.
package specs

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/logger"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// ErrMalformedSource is wrapped by every ConfigError caused by bad content.
var ErrMalformedSource = errors.New("malformed specification source")

// Source is one specification document.
type Source struct {
	Name string
	Data []byte
}

// SourceReader supplies override documents. Implementations return an
// error wrapping os.ErrNotExist when the location is absent.
type SourceReader interface {
	ReadSources(ctx context.Context) ([]Source, error)
}

// ConfigError reports a specification source that could not be loaded.
type ConfigError struct {
	Source string
	Err    error
}

// Error returns the source and the underlying error.
func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "loading specifications: " + e.Err.Error()
	}
	return "loading specifications: " + e.Source + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// Store loads the catalog once and hands out immutable snapshots.
type Store struct {
	builtin  func() ([]Source, error)
	override SourceReader
	logger   logger.Logger

	mu      sync.Mutex
	current atomic.Pointer[Catalog]
}

// Option configures a Store.
type Option func(*Store)

// WithOverride merges documents from r on top of the built-in ones.
func WithOverride(r SourceReader) Option {
	return func(s *Store) { s.override = r }
}

// WithLogger sets the logger used for soft failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSources replaces the built-in documents.
func WithSources(sources ...Source) Option {
	return func(s *Store) {
		s.builtin = func() ([]Source, error) { return sources, nil }
	}
}

// NewStore creates a Store. Nothing is read until Load is called.
func NewStore(opts ...Option) *Store {
	s := &Store{
		builtin: BuiltinSources,
		logger:  logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuiltinSources returns the documents compiled into the binary, sorted by name.
func BuiltinSources() ([]Source, error) {
	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("reading built-in specifications: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(path.Join("data", name))
		if err != nil {
			return nil, fmt.Errorf("reading built-in specification %s: %w", name, err)
		}
		sources = append(sources, Source{Name: name, Data: data})
	}
	return sources, nil
}

// Load returns the cached catalog, building it on first use.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.current.Load(); c != nil {
		return c, nil
	}

	c, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}

// Reload rebuilds the catalog and replaces the cached snapshot. Snapshots
// returned earlier are unaffected.
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}

// Check decodes every source and reports all findings without caching.
func (s *Store) Check(ctx context.Context) ([]domain.Finding, error) {
	sources, findings, err := s.sources(ctx)
	if err != nil {
		return nil, err
	}

	var segments []domain.SegmentSpec
	for _, src := range sources {
		segs, f := decode(src)
		findings = append(findings, f...)
		segments = append(segments, segs...)
	}
	findings = append(findings, NewCatalog(segments).pairFindings()...)
	return findings, nil
}

func (s *Store) build(ctx context.Context) (*Catalog, error) {
	sources, soft, err := s.sources(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range soft {
		s.logger.Warn(f.Message, map[string]interface{}{"source": f.Source})
	}

	var segments []domain.SegmentSpec
	for _, src := range sources {
		segs, findings := decode(src)
		for _, f := range findings {
			if f.Severity == domain.SeverityError {
				return nil, &ConfigError{Source: src.Name, Err: fmt.Errorf("%w: %s", ErrMalformedSource, f.Message)}
			}
		}
		segments = append(segments, segs...)
	}

	c := NewCatalog(segments)
	for _, f := range c.pairFindings() {
		s.logger.Warn(f.Message, nil)
	}
	s.logger.Debug("specifications loaded", map[string]interface{}{
		"sources":  len(sources),
		"segments": c.Len(),
	})
	return c, nil
}

// sources gathers built-in and override documents. An absent override
// location yields a warning finding instead of an error.
func (s *Store) sources(ctx context.Context) ([]Source, []domain.Finding, error) {
	sources, err := s.builtin()
	if err != nil {
		return nil, nil, &ConfigError{Err: err}
	}
	if s.override == nil {
		return sources, nil, nil
	}

	extra, err := s.override.ReadSources(ctx)
	if errors.Is(err, os.ErrNotExist) {
		return sources, []domain.Finding{{
			Type:     domain.FindingMissingSource,
			Severity: domain.SeverityWarning,
			Message:  "override specification source not found; using built-in specifications",
			Source:   err.Error(),
		}}, nil
	}
	if err != nil {
		return nil, nil, &ConfigError{Err: err}
	}
	return append(append([]Source(nil), sources...), extra...), nil, nil
}
