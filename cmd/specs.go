package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/edi-trainer-go/internal/domain"
	"github.com/eykd/edi-trainer-go/internal/specs"
)

// FindingsDetectedError is returned when specs check detects findings.
type FindingsDetectedError struct {
	Errors   int
	Warnings int
}

// Error implements the error interface.
func (e *FindingsDetectedError) Error() string {
	return fmt.Sprintf("check found %d errors, %d warnings", e.Errors, e.Warnings)
}

// ExitCode returns the exit code for findings (always 2).
func (e *FindingsDetectedError) ExitCode() int {
	return 2
}

// CheckFinding is the JSON shape of one finding.
type CheckFinding struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
}

type checkJSONResponse struct {
	Findings []CheckFinding `json:"findings"`
	Summary  struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
}

type fieldJSON struct {
	ID             string   `json:"id"`
	Description    string   `json:"description,omitempty"`
	CharacterSet   string   `json:"character_set"`
	MinLength      int      `json:"min_length"`
	MaxLength      int      `json:"max_length"`
	FieldType      string   `json:"field_type"`
	SharedKey      string   `json:"shared_key,omitempty"`
	ValidValues    []string `json:"valid_values,omitempty"`
	ErrorScenarios []string `json:"error_scenarios,omitempty"`
}

type segmentJSON struct {
	ID          string      `json:"id"`
	Description string      `json:"description,omitempty"`
	Role        string      `json:"role"`
	Pair        string      `json:"pair,omitempty"`
	Fields      []fieldJSON `json:"fields"`
}

type specsListJSONResponse struct {
	Segments []segmentJSON `json:"segments"`
}

// NewSpecsCmd creates the specs command group.
func NewSpecsCmd(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Inspect the segment and field specifications",
	}
	cmd.AddCommand(newSpecsListCmd(factory))
	cmd.AddCommand(newSpecsCheckCmd(factory))
	return cmd
}

func newSpecsListCmd(factory Factory) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List segments and fields of the loaded specifications",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFor(cmd, factory)
			if err != nil {
				return err
			}
			defer rt.Logger.Sync()

			catalog, err := rt.Specs.Load(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				writeJSON(cmd.OutOrStdout(), specsListJSON(catalog))
				return nil
			}
			formatSpecsHuman(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

func newSpecsCheckCmd(factory Factory) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Validate the specification documents",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFor(cmd, factory)
			if err != nil {
				return err
			}
			defer rt.Logger.Sync()

			findings, err := rt.Specs.Check(cmd.Context())
			if err != nil {
				return err
			}
			converted := make([]CheckFinding, len(findings))
			for i, f := range findings {
				converted[i] = convertFinding(f)
			}
			errCount, warnCount := countBySeverity(converted)

			if jsonOutput {
				formatCheckJSON(cmd.OutOrStdout(), converted, errCount, warnCount)
			} else {
				formatCheckHuman(cmd.OutOrStdout(), converted, errCount, warnCount)
			}
			if len(converted) > 0 {
				return &FindingsDetectedError{Errors: errCount, Warnings: warnCount}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

func runtimeFor(cmd *cobra.Command, factory Factory) (*Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return factory(cfg, cmd.ErrOrStderr())
}

func convertFinding(f domain.Finding) CheckFinding {
	return CheckFinding{
		Type:     f.Type,
		Severity: string(f.Severity),
		Message:  f.Message,
		Source:   f.Source,
	}
}

// countBySeverity counts errors and warnings in a slice of findings.
func countBySeverity(findings []CheckFinding) (errCount, warnCount int) {
	for _, f := range findings {
		if f.Severity == string(domain.SeverityError) {
			errCount++
		} else {
			warnCount++
		}
	}
	return
}

// formatCheckJSON writes findings as JSON to w.
func formatCheckJSON(w io.Writer, findings []CheckFinding, errCount, warnCount int) {
	if findings == nil {
		findings = []CheckFinding{}
	}
	out := checkJSONResponse{Findings: findings}
	out.Summary.Errors = errCount
	out.Summary.Warnings = warnCount
	writeJSON(w, out)
}

// formatCheckHuman writes findings as human-readable text to w.
func formatCheckHuman(w io.Writer, findings []CheckFinding, errCount, warnCount int) {
	for _, f := range findings {
		source := f.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", source, f.Severity, f.Type, f.Message)
	}
	if errCount > 0 || warnCount > 0 {
		fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errCount, warnCount)
	}
}

func specsListJSON(c *specs.Catalog) specsListJSONResponse {
	var resp specsListJSONResponse
	for _, id := range c.SegmentIDs() {
		seg, _ := c.Segment(id)
		s := segmentJSON{
			ID:          seg.ID,
			Description: seg.Description,
			Role:        string(seg.Role),
			Pair:        seg.Pair,
			Fields:      make([]fieldJSON, len(seg.Fields)),
		}
		for i, f := range seg.Fields {
			s.Fields[i] = fieldJSON{
				ID:             f.ID,
				Description:    f.Description,
				CharacterSet:   string(f.CharacterSet),
				MinLength:      f.MinLength,
				MaxLength:      f.MaxLength,
				FieldType:      string(f.FieldType),
				SharedKey:      f.SharedKey,
				ValidValues:    f.ValidValues,
				ErrorScenarios: scenarioNames(f.ErrorScenarios),
			}
		}
		resp.Segments = append(resp.Segments, s)
	}
	return resp
}

func scenarioNames(scenarios []domain.ErrorScenario) []string {
	names := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		names = append(names, string(s.Kind))
	}
	return names
}

// formatSpecsHuman prints one line per segment followed by its fields.
func formatSpecsHuman(w io.Writer, c *specs.Catalog) {
	for _, id := range c.SegmentIDs() {
		seg, _ := c.Segment(id)
		fmt.Fprintf(w, "%-4s %s (%s, %d fields)\n", seg.ID, seg.Description, seg.Role, len(seg.Fields))
		for _, f := range seg.Fields {
			line := fmt.Sprintf("  %-6s %-12s %-8s %s", f.ID, f.CharacterSet, f.Bounds(), f.FieldType)
			if names := scenarioNames(f.ErrorScenarios); len(names) > 0 {
				line += " [" + strings.Join(names, ", ") + "]"
			}
			fmt.Fprintln(w, line)
		}
	}
}
