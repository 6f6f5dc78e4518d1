package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/constraint"
	"github.com/vvka-141/pgxm/internal/generate"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

const testManifest = `
generatedAt: 2026-08-24T10:00:00Z
entries:
  - name: pg_stat_statements
    kind: builtin
    category: stats
    version: "1.10"
    runtime:
      sharedPreload: true
      defaultEnable: true
  - name: pg_trgm
    kind: builtin
    category: search
    version: "1.6"
  - name: postgis
    kind: extension
    category: gis
    version: "3.4.2"
    dependsOn: [pg_trgm]
  - name: timescaledb
    kind: extension
    category: timeseries
    version: "2.15.0"
    enabled: false
    disabledReason: "license review pending"
`

func testOptions() Options {
	opts := Options{
		Params:      generate.DefaultParams(),
		Constraints: constraint.DefaultConfig(),
	}
	opts.Params.ToolVersion = "test"
	opts.Params.DistroVersion = "16.4-test"
	return opts
}

func TestAnalyze_CleanManifest(t *testing.T) {
	result, err := Analyze([]byte(testManifest), constraint.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"pg_stat_statements", "pg_trgm", "postgis"}, result.Order)
	assert.True(t, result.Report.OK())
	assert.True(t, result.Catalog.Get("pg_stat_statements").Protected)
}

func TestAnalyze_StructuralErrorStopsEarly(t *testing.T) {
	result, err := Analyze([]byte("entries:\n  - category: x\n"), constraint.DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, pgxm.ErrStructural))
}

func TestAnalyze_CycleError(t *testing.T) {
	manifest := `
entries:
  - name: a
    kind: extension
    dependsOn: [b]
  - name: b
    kind: extension
    dependsOn: [a]
`
	_, err := Analyze([]byte(manifest), constraint.Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrCycle))
	assert.Contains(t, err.Error(), "a -> b")
}

func TestAnalyze_ConstraintErrorKeepsReport(t *testing.T) {
	manifest := `
entries:
  - name: a
    kind: extension
    enabled: false
    disabledReason: parked
  - name: b
    kind: extension
    dependsOn: [a]
`
	result, err := Analyze([]byte(manifest), constraint.Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrConstraint))
	require.NotNil(t, result, "the report survives for error rendering")
	assert.Len(t, result.Report.Errors, 1)
}

func TestRun_ProducesAllArtifacts(t *testing.T) {
	result, err := Run(context.Background(), []byte(testManifest), testOptions())
	require.NoError(t, err)

	assert.Len(t, result.Artifacts, len(generate.All()))
	for _, g := range generate.All() {
		assert.Contains(t, result.Artifacts, g.Filename())
		assert.NotEmpty(t, result.Artifacts[g.Filename()])
	}

	script := string(result.Artifacts["bootstrap.sql"])
	assert.Contains(t, script, `CREATE EXTENSION IF NOT EXISTS "postgis";`)
}

func TestRun_FillsManifestChecksum(t *testing.T) {
	result, err := Run(context.Background(), []byte(testManifest), testOptions())
	require.NoError(t, err)

	meta := string(result.Artifacts["manifest-meta.json"])
	assert.Contains(t, meta, `"manifestChecksum"`)
	assert.NotContains(t, meta, `"manifestChecksum": ""`)
}

func TestCompile_WritesAndPromotes(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(testManifest), 0644))
	outDir := filepath.Join(dir, "generated")

	result, err := Compile(context.Background(), manifestPath, outDir, testOptions())
	require.NoError(t, err)
	require.NotNil(t, result.Artifacts)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(generate.All()))

	// No scratch residue next to the output directory.
	parent, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range parent {
		assert.False(t, strings.HasPrefix(e.Name(), ".pgxm-scratch-"),
			"scratch directory %s left behind", e.Name())
	}
}

func TestCompile_FailedRunLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	outDir := filepath.Join(dir, "generated")

	// First, a clean compile to populate the output directory.
	require.NoError(t, os.WriteFile(manifestPath, []byte(testManifest), 0644))
	_, err := Compile(context.Background(), manifestPath, outDir, testOptions())
	require.NoError(t, err)
	before, err := os.ReadFile(filepath.Join(outDir, "bootstrap.sql"))
	require.NoError(t, err)

	// Now break the manifest: protected entry disabled.
	broken := strings.Replace(testManifest,
		"      defaultEnable: true",
		"      defaultEnable: true\n    enabled: false\n    disabledReason: experiment", 1)
	require.NoError(t, os.WriteFile(manifestPath, []byte(broken), 0644))

	_, err = Compile(context.Background(), manifestPath, outDir, testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrConstraint))

	after, err := os.ReadFile(filepath.Join(outDir, "bootstrap.sql"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed runs must never partially publish")
}

func TestCompile_ManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Compile(context.Background(), filepath.Join(dir, "nope.yaml"), dir, testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrManifestNotFound))
}

// failingGenerator is a scheduler test double.
type failingGenerator struct{ generate.BuildArgs }

func (failingGenerator) Name() string     { return "boom" }
func (failingGenerator) Filename() string { return "boom.txt" }
func (failingGenerator) Generate(*catalog.Catalog, []string, generate.Params) ([]byte, error) {
	return nil, errors.New("render exploded")
}

func TestRunPhase_FailureDiscardsPhaseOutput(t *testing.T) {
	cat := &catalog.Catalog{Entries: []catalog.Entry{
		{Name: "a", Kind: catalog.KindExtension, Enabled: true, Version: "1.0"},
	}}

	gens := []generate.Generator{generate.BuildArgs{}, failingGenerator{}}
	rendered, err := runPhase(context.Background(), gens, cat, nil, generate.DefaultParams(), nullLogger{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrGeneration))
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, rendered, "partial phase output must be discarded")
}

func TestRunPhase_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cat := &catalog.Catalog{Entries: []catalog.Entry{
		{Name: "a", Kind: catalog.KindExtension, Enabled: true},
	}}
	_, err := runPhase(ctx, []generate.Generator{generate.BuildArgs{}}, cat, nil, generate.DefaultParams(), nullLogger{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, pgxm.ErrGeneration),
		"an interrupted run must not classify as a generation failure")
	assert.Equal(t, pgxm.ExitGeneralError, pgxm.ExitCodeForError(err))
}

func TestRun_CanceledContextKeepsClassification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []byte(testManifest), testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, pgxm.ErrGeneration))
}
