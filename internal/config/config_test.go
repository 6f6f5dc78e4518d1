package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgxm/pkg/pgxm"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `manifest: extensions/manifest.yaml
output: out
distro_version: "16.4"

category_order:
  - core
  - gis

constraints:
  protected:
    - pg_stat_statements
  conflicts:
    - [pg_stat_monitor, pg_stat_statements]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "extensions/manifest.yaml", cfg.Manifest)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "16.4", cfg.DistroVersion)
	assert.Equal(t, []string{"core", "gis"}, cfg.CategoryOrder)
	assert.Equal(t, []string{"pg_stat_statements"}, cfg.Constraints.Protected)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.Path())

	rules, err := cfg.ConstraintRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"pg_stat_statements"}, rules.Protected)
	assert.Equal(t, [][2]string{{"pg_stat_monitor", "pg_stat_statements"}}, rules.Conflicts)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	content := `distro_version: "17.0"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "17.0", cfg.DistroVersion)
	assert.Equal(t, filepath.Join(dir, pgxm.ManifestFileName), cfg.ManifestPath(dir))
	assert.Equal(t, filepath.Join(dir, pgxm.DefaultOutputDir), cfg.OutputDir(dir))
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoadOrDefault_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, filepath.Join(dir, pgxm.ManifestFileName), cfg.ManifestPath(dir))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("manifset: x\n"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Manifest)
}

func TestConstraintRules_Defaults(t *testing.T) {
	cfg := &ProjectConfig{}
	rules, err := cfg.ConstraintRules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules.Protected, "nil section keeps distribution defaults")
	assert.NotEmpty(t, rules.Conflicts)
}

func TestConstraintRules_ExplicitEmptyDisables(t *testing.T) {
	cfg := &ProjectConfig{Constraints: ConstraintConfig{
		Protected: []string{},
		Conflicts: [][]string{},
	}}
	rules, err := cfg.ConstraintRules()
	require.NoError(t, err)
	assert.Empty(t, rules.Protected)
	assert.Empty(t, rules.Conflicts)
}

func TestConstraintRules_BadConflictRow(t *testing.T) {
	cfg := &ProjectConfig{Constraints: ConstraintConfig{
		Conflicts: [][]string{{"a", "b", "c"}},
	}}
	_, err := cfg.ConstraintRules()
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgxm.ErrInvalidConfig))
}
