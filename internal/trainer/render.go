package trainer

import (
	"fmt"
	"strings"
)

// Render joins the batch's transactions with blank lines. Annotated output
// wraps each transaction in comment lines.
func Render(b *Batch, annotate bool) string {
	parts := make([]string, len(b.Results))
	for i, r := range b.Results {
		parts[i] = r.Text()
		if annotate {
			parts[i] = Annotate(parts[i], i+1, len(b.Results))
		}
	}
	return strings.Join(parts, "\n\n")
}

// Annotate wraps the i-th of n transactions in comment lines.
func Annotate(text string, i, n int) string {
	return fmt.Sprintf("# Transaction %d/%d\n%s\n# End Transaction", i, n, text)
}
