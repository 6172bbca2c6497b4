// Package trainer provides the application service that generates batches
// of training transactions.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eykd/edi-trainer-go/internal/assembly"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/logger"
	"github.com/eykd/edi-trainer-go/internal/randx"
	"github.com/eykd/edi-trainer-go/internal/specs"
)

// ErrInvalidCount is returned when fewer than one transaction is requested.
var ErrInvalidCount = errors.New("please provide a count of at least 1")

// ErrInvalidErrorRate is returned for an error rate outside [0, 1].
var ErrInvalidErrorRate = errors.New("please provide an error rate between 0.0 and 1.0")

// ErrInvalidSets is returned when fewer than one set per interchange is requested.
var ErrInvalidSets = errors.New("please provide at least 1 transaction set per interchange")

// CatalogLoader abstracts the specification store.
type CatalogLoader interface {
	Load(ctx context.Context) (*specs.Catalog, error)
}

// Recorder abstracts generation metrics.
type Recorder interface {
	Observe(d *domain.Directive, segments int, elapsed time.Duration)
}

// FileWriter abstracts writing the output file.
type FileWriter interface {
	WriteFile(ctx context.Context, path, content string) error
}

// Locker abstracts advisory lock acquisition on the output file.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// Request describes one batch.
type Request struct {
	Count     int
	ErrorRate float64
	Sets      int
	// Seed is the base seed; 0 derives one from the clock.
	Seed    uint64
	Workers int
}

// Validate checks the request ranges.
func (r Request) Validate() error {
	switch {
	case r.Count < 1:
		return ErrInvalidCount
	case r.ErrorRate < 0 || r.ErrorRate > 1:
		return ErrInvalidErrorRate
	case r.Sets < 1:
		return ErrInvalidSets
	}
	return nil
}

// Result is one generated transaction.
type Result struct {
	Index       int
	Seed        uint64
	Transaction domain.Transaction
	Directive   *domain.Directive
}

// Text renders the transaction.
func (r Result) Text() string { return r.Transaction.String() }

// Batch is the outcome of one Generate call, in request order.
type Batch struct {
	RunID   string
	Seed    uint64
	Results []Result
}

// Errors returns how many results carry a defect.
func (b *Batch) Errors() int {
	n := 0
	for _, r := range b.Results {
		if r.Directive.HasError() {
			n++
		}
	}
	return n
}

type noopRecorder struct{}

func (noopRecorder) Observe(*domain.Directive, int, time.Duration) {}

// Service generates batches of transactions.
type Service struct {
	catalog  CatalogLoader
	logger   logger.Logger
	recorder Recorder
	writer   FileWriter
	locks    func(path string) Locker
	now      func() time.Time
	runID    func() string
	assembly []assembly.Option
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Service) { s.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithWriter sets the output writer and the lock factory used to guard it.
func WithWriter(w FileWriter, locks func(path string) Locker) Option {
	return func(s *Service) { s.writer, s.locks = w, locks }
}

// WithClock sets the time source used for seeds and generated dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRunID sets the run id generator.
func WithRunID(f func() string) Option { return func(s *Service) { s.runID = f } }

// WithTargetWeights sets the relative weights of field and segment errors.
func WithTargetWeights(field, segment float64) Option {
	return func(s *Service) {
		s.assembly = append(s.assembly, assembly.WithTargetWeights(field, segment))
	}
}

// NewService creates a Service.
func NewService(catalog CatalogLoader, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		logger:   logger.NewNoOpLogger(),
		recorder: noopRecorder{},
		now:      time.Now,
		runID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces req.Count transactions on a bounded worker pool. Each
// transaction derives its own seed from the base seed and its index, so
// results do not depend on the number of workers.
func (s *Service) Generate(ctx context.Context, req Request) (*Batch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	base := req.Seed
	if base == 0 {
		base = uint64(s.now().UnixNano())
	}
	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	batch := &Batch{RunID: s.runID(), Seed: base, Results: make([]Result, req.Count)}
	log := s.logger.With(map[string]interface{}{"run_id": batch.RunID})
	log.Info("generating transactions", map[string]interface{}{
		"count":      req.Count,
		"error_rate": req.ErrorRate,
		"sets":       req.Sets,
		"seed":       base,
		"workers":    workers,
	})

	opts := append([]assembly.Option{assembly.WithClock(s.now)}, s.assembly...)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < req.Count; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := randx.Mix(base, uint64(i))
			start := time.Now()

			tx, d, err := assembly.New(cat, seed, opts...).Generate(req.ErrorRate, req.Sets)
			if err != nil {
				return fmt.Errorf("generating transaction %d: %w", i+1, err)
			}
			batch.Results[i] = Result{Index: i, Seed: seed, Transaction: tx, Directive: d}

			segments := len(tx.Rendered())
			s.recorder.Observe(d, segments, time.Since(start))
			log.Debug("transaction generated", map[string]interface{}{
				"index":    i + 1,
				"target":   string(d.Target()),
				"kind":     d.Outcome().Kind.String(),
				"segments": segments,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("transactions generated", map[string]interface{}{
		"count":  len(batch.Results),
		"errors": batch.Errors(),
	})
	return batch, nil
}

// WriteOutput writes content to path while holding the path's lock.
func (s *Service) WriteOutput(ctx context.Context, path, content string) error {
	if s.writer == nil {
		return errors.New("no output writer configured")
	}
	if s.locks != nil {
		l := s.locks(path)
		if err := l.TryLock(ctx); err != nil {
			return err
		}
		defer l.Unlock()
	}
	if err := s.writer.WriteFile(ctx, path, content); err != nil {
		return err
	}
	s.logger.Info("output written", map[string]interface{}{"path": path})
	return nil
}
