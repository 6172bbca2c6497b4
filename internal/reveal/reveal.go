// Package reveal turns a resolved directive into progressive hints, an
// error report and the interactive prompt loop around them.
package reveal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

// Prompt is printed before every hint is revealed.
const Prompt = "Press <ENTER> for hints or A + <ENTER> for answer..."

// NoErrors is printed after the prompt for a clean transaction.
const NoErrors = "No errors found. This is a valid EDI 834 transaction"

const reportHeader = "--- ERROR REPORT ---"

// Title renders an identifier such as "invalid_value" as "Invalid Value".
func Title(s string) string {
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Hints returns the hints for d in reveal order, ending with the
// solution. A clean directive has no hints.
func Hints(d *domain.Directive) []string {
	if !d.HasError() {
		return nil
	}
	out := d.Outcome()

	var hints []string
	switch d.Target() {
	case domain.TargetSegment:
		hints = append(hints, "FIRST HINT:\nSegment with error: "+d.SegmentID())
	case domain.TargetField:
		hints = append(hints, "FIRST HINT:\nField with error: "+d.FieldID())
	}
	hints = append(hints, "SECOND HINT:\nError type: "+Title(out.Kind.String()))
	if out.Value != "" {
		hints = append(hints, fmt.Sprintf("THIRD HINT:\nErroneous value: '%s'", out.Value))
	}
	if out.Explanation != "" {
		hints = append(hints, "SOLUTION:\n"+out.Explanation)
	}
	return hints
}

// Report renders the immediate error report.
func Report(d *domain.Directive) string {
	var b strings.Builder
	b.WriteString(reportHeader)
	b.WriteString("\n")
	if !d.HasError() {
		b.WriteString("No errors found\n")
		return b.String()
	}

	out := d.Outcome()
	entries := [][2]string{
		{"error_target", string(d.Target())},
		{"error_segment", d.SegmentID()},
		{"error_field", d.FieldID()},
		{"error_type", out.Kind.String()},
		{"error_value", out.Value},
		{"error_explanation", out.Explanation},
	}
	for _, e := range entries {
		if e[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", Title(e[0]), e[1])
	}
	return b.String()
}

// Session reveals hints for a sequence of transactions read from one input
// stream.
type Session struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewSession creates a Session reading answers from in.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{scanner: bufio.NewScanner(in), out: out}
}

// Run drives the interactive reveal for one directive.
func Run(in io.Reader, out io.Writer, d *domain.Directive) error {
	return NewSession(in, out).Reveal(d)
}

// Reveal prompts for d. An empty line shows the next hint; any other input,
// whitespace included, shows every remaining hint. End of input is treated the same as a
// non-empty answer.
func (s *Session) Reveal(d *domain.Directive) error {
	hints := Hints(d)

	if len(hints) == 0 {
		if _, err := fmt.Fprintf(s.out, "\n%s\n", Prompt); err != nil {
			return err
		}
		s.scanner.Scan()
		_, err := fmt.Fprintln(s.out, NoErrors)
		return err
	}

	for i := 0; i < len(hints); {
		if _, err := fmt.Fprintf(s.out, "\n%s\n", Prompt); err != nil {
			return err
		}
		if !s.scanner.Scan() || s.scanner.Text() != "" {
			for ; i < len(hints); i++ {
				if _, err := fmt.Fprintln(s.out, hints[i]); err != nil {
					return err
				}
			}
			break
		}
		if _, err := fmt.Fprintln(s.out, hints[i]); err != nil {
			return err
		}
		i++
	}
	return s.scanner.Err()
}
