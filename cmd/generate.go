package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/eykd/edi-trainer-go/internal/config"
	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/reveal"
	"github.com/eykd/edi-trainer-go/internal/trainer"
)

// generateOptions holds the generate command's flag values.
type generateOptions struct {
	count        int
	errorRate    float64
	output       string
	displayError bool
	annotate     bool
	sets         int
	seed         uint64
	jsonOutput   bool
	workers      int
	metricsFile  string
}

// generateJSONResponse is the JSON output structure for the generate command.
type generateJSONResponse struct {
	RunID        string            `json:"run_id"`
	Seed         uint64            `json:"seed"`
	Transactions []transactionJSON `json:"transactions"`
	Summary      struct {
		Count  int `json:"count"`
		Errors int `json:"errors"`
	} `json:"summary"`
}

type transactionJSON struct {
	Index     int               `json:"index"`
	Seed      uint64            `json:"seed"`
	Segments  []string          `json:"segments"`
	Directive *domain.Directive `json:"directive"`
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(factory Factory) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate EDI 834 transactions",
		Example: `  editrainer generate -e 1.0
  editrainer -c 10 -e 0.3 -o batch.edi
  editrainer generate --json --seed 42`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyGenerateFlags(cmd, opts, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			rt, err := factory(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Logger.Sync()

			return runGenerate(cmd, rt, opts, cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.count, "count", "c", 1, "Number of transactions to generate")
	f.Float64VarP(&opts.errorRate, "error-rate", "e", 0, "Probability of injecting an error into a transaction (0.0-1.0)")
	f.StringVarP(&opts.output, "output", "o", "", "Write transactions to a file instead of stdout")
	f.BoolVarP(&opts.displayError, "display-error", "d", false, "Print the error report immediately instead of revealing hints")
	f.BoolVarP(&opts.annotate, "annotate", "a", false, "Wrap each transaction in comment lines")
	f.IntVar(&opts.sets, "sets", 1, "Transaction sets per interchange")
	f.Uint64Var(&opts.seed, "seed", 0, "Base random seed (0 derives one from the clock)")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output transactions and error directives as JSON")
	f.IntVar(&opts.workers, "workers", 1, "Number of transactions generated concurrently")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}

// applyGenerateFlags overrides cfg with every flag set on the command line.
func applyGenerateFlags(cmd *cobra.Command, opts *generateOptions, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("count") {
		cfg.Generate.Count = opts.count
	}
	if f.Changed("error-rate") {
		cfg.Generate.ErrorRate = opts.errorRate
	}
	if f.Changed("sets") {
		cfg.Generate.Sets = opts.sets
	}
	if f.Changed("seed") {
		cfg.Generate.Seed = opts.seed
	}
	if f.Changed("workers") {
		cfg.Generate.Workers = opts.workers
	}
	if f.Changed("metrics-file") {
		cfg.Metrics.File = opts.metricsFile
	}
}

func runGenerate(cmd *cobra.Command, rt *Runtime, opts *generateOptions, cfg *config.Config) error {
	ctx := cmd.Context()
	g := cfg.Generate

	start := time.Now()
	batch, err := rt.Generator.Generate(ctx, trainer.Request{
		Count:     g.Count,
		ErrorRate: g.ErrorRate,
		Sets:      g.Sets,
		Seed:      g.Seed,
		Workers:   g.Workers,
	})
	if err != nil {
		return err
	}
	rt.Logger.Debug("batch complete", map[string]interface{}{
		"run_id":  batch.RunID,
		"elapsed": time.Since(start).String(),
	})

	if err := writeBatch(cmd, rt, opts, batch); err != nil {
		return err
	}

	if cfg.Metrics.File != "" && rt.Metrics != nil {
		if err := rt.Metrics.WriteFile(cfg.Metrics.File); err != nil {
			return &ContextError{Op: "write metrics", Path: cfg.Metrics.File, Err: err}
		}
	}
	return nil
}

func writeBatch(cmd *cobra.Command, rt *Runtime, opts *generateOptions, batch *trainer.Batch) error {
	out := cmd.OutOrStdout()

	if opts.jsonOutput {
		resp := newGenerateJSON(batch)
		if opts.output == "" {
			writeJSON(out, resp)
			return nil
		}
		content, err := marshalJSON(resp)
		if err != nil {
			return err
		}
		return writeOutputFile(cmd, rt, opts.output, content, len(batch.Results))
	}

	if opts.output != "" {
		if err := writeOutputFile(cmd, rt, opts.output, trainer.Render(batch, opts.annotate)+"\n", len(batch.Results)); err != nil {
			return err
		}
		if opts.displayError {
			return writeReports(out, batch)
		}
		return nil
	}

	session := reveal.NewSession(cmd.InOrStdin(), out)
	for i, r := range batch.Results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		text := r.Text()
		if opts.annotate {
			text = trainer.Annotate(text, i+1, len(batch.Results))
		}
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}

		if opts.displayError {
			fmt.Fprintf(out, "\n%s", reveal.Report(r.Directive))
			continue
		}
		if err := session.Reveal(r.Directive); err != nil {
			return err
		}
	}
	return nil
}

func writeOutputFile(cmd *cobra.Command, rt *Runtime, path, content string, count int) error {
	if err := rt.Generator.WriteOutput(cmd.Context(), path, content); err != nil {
		return &ContextError{Op: "write output", Path: path, Err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d ISA/IEA pairs to %s\n", count, path)
	return nil
}

func writeReports(w io.Writer, batch *trainer.Batch) error {
	for i, r := range batch.Results {
		if len(batch.Results) > 1 {
			fmt.Fprintf(w, "\n# Transaction %d/%d", i+1, len(batch.Results))
		}
		if _, err := fmt.Fprintf(w, "\n%s", reveal.Report(r.Directive)); err != nil {
			return err
		}
	}
	return nil
}

func newGenerateJSON(batch *trainer.Batch) generateJSONResponse {
	resp := generateJSONResponse{
		RunID:        batch.RunID,
		Seed:         batch.Seed,
		Transactions: make([]transactionJSON, len(batch.Results)),
	}
	for i, r := range batch.Results {
		rendered := r.Transaction.Rendered()
		segments := make([]string, len(rendered))
		for j, s := range rendered {
			segments[j] = s.String()
		}
		resp.Transactions[i] = transactionJSON{
			Index:     r.Index + 1,
			Seed:      r.Seed,
			Segments:  segments,
			Directive: r.Directive,
		}
	}
	resp.Summary.Count = len(batch.Results)
	resp.Summary.Errors = batch.Errors()
	return resp
}
