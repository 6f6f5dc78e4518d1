// Package graph turns declared depends-on edges into a deterministic,
// cycle-free creation order.
//
// The resolver is deliberately order-insensitive: the ready set of Kahn's
// algorithm is drained in ascending name order, never insertion order, so
// shuffling the manifest's entry array can never change the output. This is
// what lets the consistency verifier treat a byte difference as real drift.
package graph

import (
	"sort"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// Resolve computes the creation order for a structurally valid catalog.
//
// Every entry, enabled or not, participates in cycle detection: disabled
// entries remain buildable and testable, so a cycle through them is still a
// manifest defect. The returned order, however, contains only entries that
// are enabled and whose entire dependency chain is enabled; anything
// reachable only through a disabled edge is excluded (the constraint
// validator separately reports enabled entries that depend on disabled
// ones).
//
// For every edge "e depends on d", d precedes e in the result. Ties are
// broken by ascending name. Runs in O(V+E).
func Resolve(cat *catalog.Catalog) ([]string, error) {
	if cycles := findCycles(cat); len(cycles) > 0 {
		return nil, &CycleError{Cycles: cycles}
	}

	creatable := creatableSet(cat)

	// Kahn's algorithm over the creatable subgraph. The ready set is kept
	// sorted and drained from the front so the order is a pure function of
	// the graph, not of manifest entry order.
	indegree := make(map[string]int, len(creatable))
	dependents := make(map[string][]string, len(creatable))
	for name := range creatable {
		entry := cat.Get(name)
		count := 0
		for _, dep := range entry.DependsOn {
			if creatable[dep] {
				count++
				dependents[dep] = append(dependents[dep], name)
			}
		}
		indegree[name] = count
	}

	ready := make([]string, 0, len(creatable))
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(creatable))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		unlocked := make([]string, 0, len(dependents[name]))
		for _, dep := range dependents[name] {
			indegree[dep]--
			if indegree[dep] == 0 {
				unlocked = append(unlocked, dep)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	return order, nil
}

// creatableSet returns the names of entries that are enabled and whose
// entire transitive dependency chain is enabled.
func creatableSet(cat *catalog.Catalog) map[string]bool {
	memo := make(map[string]bool, len(cat.Entries))

	var visit func(name string) bool
	visit = func(name string) bool {
		if v, ok := memo[name]; ok {
			return v
		}
		entry := cat.Get(name)
		if entry == nil || !entry.Enabled {
			memo[name] = false
			return false
		}
		// Mark before recursing; cycles were already rejected above, so
		// this only guards against pathological re-entry.
		memo[name] = true
		for _, dep := range entry.DependsOn {
			if !visit(dep) {
				memo[name] = false
				return false
			}
		}
		return memo[name]
	}

	result := make(map[string]bool, len(cat.Entries))
	for _, name := range cat.Names() {
		if visit(name) {
			result[name] = true
		}
	}
	return result
}
