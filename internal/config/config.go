package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgxm/internal/constraint"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConstraintConfig is the rule table section of the project config.
// Omitted lists fall back to the built-in distribution defaults; an
// explicitly empty list disables the rule.
type ConstraintConfig struct {
	Protected []string   `yaml:"protected"`
	Conflicts [][]string `yaml:"conflicts"`
}

// ProjectConfig carries per-project settings for the compiler. All fields
// are optional; zero values mean the built-in defaults.
type ProjectConfig struct {
	Manifest      string           `yaml:"manifest"`
	Output        string           `yaml:"output"`
	DistroVersion string           `yaml:"distro_version"`
	CategoryOrder []string         `yaml:"category_order"`
	Constraints   ConstraintConfig `yaml:"constraints"`

	// set when the config was read from a file rather than defaulted
	loadedFrom string
}

const ConfigFileName = "pgxm.yaml"

// Load reads ConfigFileName from sourcePath. Unknown keys are rejected so
// a typo in the config never silently changes behavior.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.loadedFrom = configPath
	return &cfg, nil
}

// LoadOrDefault reads the project config, substituting built-in defaults
// when no config file exists.
func LoadOrDefault(sourcePath string) (*ProjectConfig, error) {
	cfg, err := Load(sourcePath)
	if errors.Is(err, ErrConfigNotFound) {
		return &ProjectConfig{}, nil
	}
	return cfg, err
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *ProjectConfig) Path() string {
	return c.loadedFrom
}

// ManifestPath resolves the manifest location relative to sourcePath.
func (c *ProjectConfig) ManifestPath(sourcePath string) string {
	name := c.Manifest
	if name == "" {
		name = pgxm.ManifestFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(sourcePath, name)
}

// OutputDir resolves the artifact directory relative to sourcePath.
func (c *ProjectConfig) OutputDir(sourcePath string) string {
	name := c.Output
	if name == "" {
		name = pgxm.DefaultOutputDir
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(sourcePath, name)
}

// ConstraintRules converts the config section into the validator's rule
// tables. A nil section keeps the distribution defaults; conflict rows
// must name exactly two entries.
func (c *ProjectConfig) ConstraintRules() (constraint.Config, error) {
	rules := constraint.DefaultConfig()
	if c.Constraints.Protected != nil {
		rules.Protected = c.Constraints.Protected
	}
	if c.Constraints.Conflicts != nil {
		rules.Conflicts = nil
		for i, row := range c.Constraints.Conflicts {
			if len(row) != 2 {
				return constraint.Config{}, fmt.Errorf(
					"%w: constraints.conflicts[%d] must name exactly two entries, got %d",
					pgxm.ErrInvalidConfig, i, len(row))
			}
			rules.Conflicts = append(rules.Conflicts, [2]string{row[0], row[1]})
		}
	}
	return rules, nil
}
