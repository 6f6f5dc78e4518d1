package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// Problem is one structural defect found during loading. All problems are
// collected in a single pass so the author sees everything at once instead
// of fixing them one failure at a time.
type Problem struct {
	// Entry is the name of the offending entry, or "(entry N)" when the
	// entry has no usable name, or "" for document-level problems.
	Entry string

	// Field is the manifest field the problem refers to.
	Field string

	// Reason is a human-readable description of what is wrong.
	Reason string
}

func (p Problem) String() string {
	switch {
	case p.Entry == "":
		return fmt.Sprintf("%s: %s", p.Field, p.Reason)
	case p.Field == "":
		return fmt.Sprintf("%s: %s", p.Entry, p.Reason)
	default:
		return fmt.Sprintf("%s [%s]: %s", p.Entry, p.Field, p.Reason)
	}
}

// StructuralError reports every structural defect found in a manifest.
// The caller must not proceed to graph resolution while any are present.
type StructuralError struct {
	Problems []Problem
}

// Error implements the error interface, listing each problem on its own line.
func (e *StructuralError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest has %d structural problem(s):\n", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

// Unwrap lets errors.Is(err, pgxm.ErrStructural) classify this error.
func (e *StructuralError) Unwrap() error {
	return pgxm.ErrStructural
}

// sortProblems orders problems by entry then field so error output is
// stable regardless of discovery order.
func sortProblems(problems []Problem) {
	sort.Slice(problems, func(i, j int) bool {
		if problems[i].Entry != problems[j].Entry {
			return problems[i].Entry < problems[j].Entry
		}
		if problems[i].Field != problems[j].Field {
			return problems[i].Field < problems[j].Field
		}
		return problems[i].Reason < problems[j].Reason
	})
}
