package reveal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

func fieldDirective(value string) *domain.Directive {
	d := domain.NewDirective(domain.FieldError{SegmentID: "NM1", FieldID: "NM109"})
	d.Resolve(domain.Outcome{
		Kind:        domain.KindInvalidValue,
		Value:       value,
		Explanation: "NM109 contains 'X', which is not valid.",
	})
	return d
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Invalid Value", Title("invalid_value"))
	assert.Equal(t, "Control Number Mismatch", Title("control_number_mismatch"))
	assert.Equal(t, "Error Explanation", Title("error_explanation"))
}

func TestHints_Field(t *testing.T) {
	hints := Hints(fieldDirective("X"))
	require.Len(t, hints, 4)
	assert.Equal(t, "FIRST HINT:\nField with error: NM109", hints[0])
	assert.Equal(t, "SECOND HINT:\nError type: Invalid Value", hints[1])
	assert.Equal(t, "THIRD HINT:\nErroneous value: 'X'", hints[2])
	assert.Equal(t, "SOLUTION:\nNM109 contains 'X', which is not valid.", hints[3])
}

func TestHints_OmitsEmptyValue(t *testing.T) {
	hints := Hints(fieldDirective(""))
	require.Len(t, hints, 3)
	for _, h := range hints {
		assert.NotContains(t, h, "THIRD HINT")
	}
}

func TestHints_Segment(t *testing.T) {
	d := domain.NewDirective(domain.SegmentError{SegmentID: "SE"})
	d.Resolve(domain.Outcome{Kind: domain.KindIncorrectCount, Value: "9", Explanation: "SE01 declares 9 segments."})
	hints := Hints(d)
	require.NotEmpty(t, hints)
	assert.Equal(t, "FIRST HINT:\nSegment with error: SE", hints[0])
	assert.Equal(t, "SECOND HINT:\nError type: Incorrect Count", hints[1])
}

func TestHints_NoError(t *testing.T) {
	assert.Empty(t, Hints(domain.NewDirective(nil)))
}

func TestReport(t *testing.T) {
	r := Report(fieldDirective("X"))
	assert.True(t, strings.HasPrefix(r, "--- ERROR REPORT ---\n"))
	assert.Contains(t, r, "Error Target: FIELD\n")
	assert.Contains(t, r, "Error Segment: NM1\n")
	assert.Contains(t, r, "Error Field: NM109\n")
	assert.Contains(t, r, "Error Type: invalid_value\n")
	assert.Contains(t, r, "Error Value: X\n")

	clean := Report(domain.NewDirective(nil))
	assert.Equal(t, "--- ERROR REPORT ---\nNo errors found\n", clean)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		prompts int
		want    []string
	}{
		{"one hint at a time", "\n\n\n\n", 4, []string{"FIRST HINT", "SECOND HINT", "THIRD HINT", "SOLUTION"}},
		{"answer right away", "A\n", 1, []string{"FIRST HINT", "SOLUTION"}},
		{"answer after a hint", "\nA\n", 2, []string{"FIRST HINT", "SOLUTION"}},
		{"space is an answer", " \n", 1, []string{"FIRST HINT", "SOLUTION"}},
		{"end of input", "", 1, []string{"FIRST HINT", "SOLUTION"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Run(strings.NewReader(tt.input), &out, fieldDirective("X")))

			got := out.String()
			assert.Equal(t, tt.prompts, strings.Count(got, Prompt))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			assert.True(t, strings.Index(got, "FIRST HINT") < strings.Index(got, "SOLUTION"))
		})
	}
}

func TestRun_NoError(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(strings.NewReader("\n"), &out, domain.NewDirective(nil)))
	assert.Equal(t, "\n"+Prompt+"\n"+NoErrors+"\n", out.String())
}

func TestSession_SharesInputAcrossTransactions(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(strings.NewReader("\nA\n\n"), &out)

	require.NoError(t, s.Reveal(fieldDirective("X")))
	first := out.String()
	assert.Contains(t, first, "FIRST HINT:")
	assert.Contains(t, first, "SOLUTION:")
	assert.Equal(t, 2, strings.Count(first, Prompt))

	out.Reset()
	require.NoError(t, s.Reveal(domain.NewDirective(nil)))
	assert.Contains(t, out.String(), NoErrors)
}
