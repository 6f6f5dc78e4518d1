package graph

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

func entry(name string, enabled bool, deps ...string) catalog.Entry {
	e := catalog.Entry{
		Name:      name,
		Kind:      catalog.KindExtension,
		Enabled:   enabled,
		DependsOn: deps,
	}
	if !enabled {
		e.DisabledReason = "excluded in test"
	}
	return e
}

func buildCatalog(entries ...catalog.Entry) *catalog.Catalog {
	cat := &catalog.Catalog{Entries: entries}
	cat.MarkProtected(nil) // forces the name index to build
	return cat
}

func TestResolve_SimpleChain(t *testing.T) {
	cat := buildCatalog(
		entry("c", true, "b"),
		entry("b", true, "a"),
		entry("a", true),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestResolve_TiesBrokenByName(t *testing.T) {
	// z, m, and a are all roots; the order must be alphabetical regardless
	// of their position in the entry array.
	cat := buildCatalog(
		entry("z", true),
		entry("m", true),
		entry("a", true),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "m", "z"}, order)
}

func TestResolve_OrderIndependence(t *testing.T) {
	entries := []catalog.Entry{
		entry("postgis", true, "pg_trgm"),
		entry("pg_trgm", true),
		entry("pgrouting", true, "postgis"),
		entry("pg_stat_statements", true),
		entry("hstore", true),
	}

	baseline, err := Resolve(buildCatalog(entries...))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]catalog.Entry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		order, err := Resolve(buildCatalog(shuffled...))
		require.NoError(t, err)
		assert.Equal(t, baseline, order, "shuffled input changed the creation order")
	}
}

func TestResolve_TopologicalValidity(t *testing.T) {
	cat := buildCatalog(
		entry("d", true, "b", "c"),
		entry("c", true, "a"),
		entry("b", true, "a"),
		entry("a", true),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	for _, e := range cat.Entries {
		for _, dep := range e.DependsOn {
			assert.Less(t, pos[dep], pos[e.Name],
				"%s must precede %s", dep, e.Name)
		}
	}
}

func TestResolve_ExcludesDisabledEntries(t *testing.T) {
	cat := buildCatalog(
		entry("a", true),
		entry("b", true, "a"),
		entry("c", false),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestResolve_ExcludesChainsThroughDisabledEdges(t *testing.T) {
	// b is enabled but depends on disabled a; neither may appear, and c,
	// depending on b, is excluded transitively.
	cat := buildCatalog(
		entry("a", false),
		entry("b", true, "a"),
		entry("c", true, "b"),
		entry("d", true),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, order)
}

func TestResolve_TwoNodeCycle(t *testing.T) {
	cat := buildCatalog(
		entry("a", true, "b"),
		entry("b", true, "a"),
	)

	order, err := Resolve(cat)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, pgxm.ErrCycle))

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "b"}, cycleErr.Members())
	assert.Contains(t, err.Error(), "a -> b")
}

func TestResolve_SelfDependency(t *testing.T) {
	cat := buildCatalog(entry("a", true, "a"))

	_, err := Resolve(cat)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a"}, cycleErr.Members())
}

func TestResolve_ReportsEveryCycle(t *testing.T) {
	cat := buildCatalog(
		entry("a", true, "b"),
		entry("b", true, "a"),
		entry("x", true, "y"),
		entry("y", true, "z"),
		entry("z", true, "x"),
		entry("ok", true),
	)

	_, err := Resolve(cat)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Len(t, cycleErr.Cycles, 2)
	assert.Equal(t, []string{"a", "b", "x", "y", "z"}, cycleErr.Members())
}

func TestResolve_CycleThroughDisabledEntryStillFails(t *testing.T) {
	// Disabled entries stay buildable, so their edges still count for
	// cycle detection.
	cat := buildCatalog(
		entry("a", false, "b"),
		entry("b", false, "a"),
	)

	_, err := Resolve(cat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrCycle))
}

func TestResolve_DiamondIsDeterministic(t *testing.T) {
	cat := buildCatalog(
		entry("top", true, "left", "right"),
		entry("left", true, "base"),
		entry("right", true, "base"),
		entry("base", true),
	)

	order, err := Resolve(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "left", "right", "top"}, order)
}
