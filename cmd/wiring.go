package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/edi-trainer-go/internal/config"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/fs"
	"github.com/eykd/edi-trainer-go/internal/lock"
	"github.com/eykd/edi-trainer-go/internal/logger"
	"github.com/eykd/edi-trainer-go/internal/metrics"
	"github.com/eykd/edi-trainer-go/internal/specs"
	"github.com/eykd/edi-trainer-go/internal/trainer"
)

// Generator abstracts the trainer service used by the generate command.
type Generator interface {
	Generate(ctx context.Context, req trainer.Request) (*trainer.Batch, error)
	WriteOutput(ctx context.Context, path, content string) error
}

// SpecsRunner abstracts the specification store used by the specs commands.
type SpecsRunner interface {
	Load(ctx context.Context) (*specs.Catalog, error)
	Check(ctx context.Context) ([]domain.Finding, error)
}

// MetricsWriter exports collected metrics after a run.
type MetricsWriter interface {
	WriteFile(path string) error
}

// Runtime bundles the collaborators built from the effective configuration.
type Runtime struct {
	Generator Generator
	Specs     SpecsRunner
	Metrics   MetricsWriter
	Logger    logger.Logger
}

// Factory builds a Runtime. Logs go to stderr.
type Factory func(cfg *config.Config, stderr io.Writer) (*Runtime, error)

// DefaultFactory wires the production stack.
func DefaultFactory(cfg *config.Config, stderr io.Writer) (*Runtime, error) {
	level := cfg.Log.Level
	if GetVerbose() {
		level = "debug"
	}
	log := logger.NewWriter(level, cfg.Log.Format, stderr)
	if cfg.Source != "" {
		log.Debug("configuration loaded", map[string]interface{}{"path": cfg.Source})
	}

	storeOpts := []specs.Option{specs.WithLogger(log)}
	if cfg.Specs.Dir != "" {
		storeOpts = append(storeOpts, specs.WithOverride(&fs.OSSpecReader{Path: cfg.Specs.Dir}))
	}
	store := specs.NewStore(storeOpts...)

	recorder := metrics.New()
	svc := trainer.NewService(store,
		trainer.WithLogger(log),
		trainer.WithRecorder(recorder),
		trainer.WithWriter(fs.OSWriter{}, func(path string) trainer.Locker { return lock.ForOutput(path) }),
		trainer.WithTargetWeights(cfg.Generate.FieldWeight, cfg.Generate.SegmentWeight),
	)

	return &Runtime{
		Generator: svc,
		Specs:     store,
		Metrics:   recorder,
		Logger:    log,
	}, nil
}

// BuildCommandTree creates the root command with all subcommands wired to
// factory. A nil factory uses DefaultFactory.
func BuildCommandTree(factory Factory) *cobra.Command {
	if factory == nil {
		factory = DefaultFactory
	}

	root := NewRootCmd()
	gen := NewGenerateCmd(factory)

	// The root command generates when no subcommand is given.
	root.Args = cobra.NoArgs
	root.RunE = gen.RunE
	root.Flags().AddFlagSet(gen.Flags())

	root.AddCommand(gen)
	root.AddCommand(NewSpecsCmd(factory))
	return root
}

// loadConfig reads the config file named by --config and applies --specs-dir.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &ContextError{Op: "load config", Path: configPath, Err: err}
	}
	if cmd.Flags().Changed("specs-dir") {
		cfg.Specs.Dir = specsDir
	}
	return cfg, nil
}
