package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Diff     string   // go-cmp diff, when one applies
	Script   []string // Script searched, for contains assertions
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Diff != "" {
		fmt.Fprintf(&buf, "\nDiff (-want +got):\n%s", e.Diff)
	}
	if len(e.Script) > 0 {
		fmt.Fprintf(&buf, "\nScript:\n")
		for i, s := range e.Script {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, s)
		}
	}
	return buf.String()
}
