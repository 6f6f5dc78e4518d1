package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// CycleError reports every dependency cycle found in the manifest. Each
// cycle lists all of its member names so the error is actionable without
// manual graph inspection.
type CycleError struct {
	Cycles [][]string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest contains %d dependency cycle(s):\n", len(e.Cycles))
	for i, cycle := range e.Cycles {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, strings.Join(cycle, " -> "))
	}
	b.WriteString("break each cycle by removing one of its dependsOn edges")
	return b.String()
}

// Unwrap lets errors.Is(err, pgxm.ErrCycle) classify this error.
func (e *CycleError) Unwrap() error {
	return pgxm.ErrCycle
}

// Members returns the sorted, de-duplicated names of every entry that sits
// on any cycle.
func (e *CycleError) Members() []string {
	set := make(map[string]bool)
	for _, cycle := range e.Cycles {
		for _, name := range cycle {
			set[name] = true
		}
	}
	members := make([]string, 0, len(set))
	for name := range set {
		members = append(members, name)
	}
	sort.Strings(members)
	return members
}

type color int

const (
	white color = iota // unvisited
	grey               // on the current DFS stack
	black              // fully explored
)

// findCycles walks the full graph, disabled entries included, and collects
// every distinct cycle via DFS back-edge tracking. Nodes are visited in
// ascending name order so the report is deterministic.
func findCycles(cat *catalog.Catalog) [][]string {
	colors := make(map[string]color, len(cat.Entries))
	var stack []string
	var cycles [][]string
	seen := make(map[string]bool) // canonical cycle keys, to de-duplicate

	var visit func(name string)
	visit = func(name string) {
		colors[name] = grey
		stack = append(stack, name)

		entry := cat.Get(name)
		deps := append([]string(nil), entry.DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if cat.Get(dep) == nil {
				continue // dangling references are the loader's problem
			}
			switch colors[dep] {
			case white:
				visit(dep)
			case grey:
				// Back edge: the cycle is the stack segment from dep to name.
				start := 0
				for i, n := range stack {
					if n == dep {
						start = i
						break
					}
				}
				cycle := append([]string(nil), stack[start:]...)
				key := canonicalKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, rotateToMin(cycle))
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[name] = black
	}

	for _, name := range cat.Names() {
		if colors[name] == white {
			visit(name)
		}
	}
	return cycles
}

// rotateToMin rotates a cycle so it starts at its lexicographically
// smallest member, keeping reports stable across traversal orders.
func rotateToMin(cycle []string) []string {
	minIdx := 0
	for i, name := range cycle {
		if name < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return rotated
}

func canonicalKey(cycle []string) string {
	return strings.Join(rotateToMin(cycle), "\x00")
}
