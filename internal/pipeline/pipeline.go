// Package pipeline orchestrates a full compiler run: load, resolve,
// validate, generate, and atomically publish artifacts.
//
// Generation is organized as a small task graph distinct from the extension
// dependency graph: generators that need only the catalog form one phase,
// generators that also consume the creation order form the next. All
// generators within a phase run concurrently; phases run strictly in
// sequence. Isolation is by construction: generators are pure functions
// over the same read-only catalog, so no locking is needed.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/checksum"
	"github.com/vvka-141/pgxm/internal/constraint"
	"github.com/vvka-141/pgxm/internal/generate"
	"github.com/vvka-141/pgxm/internal/graph"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// Options configures a compiler run.
type Options struct {
	// Params are the fixed generation parameters.
	Params generate.Params

	// Constraints are the injectable rule tables for the validator.
	Constraints constraint.Config

	// Logger receives progress output. Defaults to a silent logger.
	Logger pgxm.Logger
}

// Result is the outcome of a successful analysis or compile run.
type Result struct {
	Catalog *catalog.Catalog
	Order   []string
	Report  *constraint.Report

	// Artifacts maps artifact filename to rendered content. Empty for
	// validate-only runs.
	Artifacts map[string][]byte
}

// GenerationError reports a generator that failed to render or an artifact
// that failed to write.
type GenerationError struct {
	Artifact string
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Artifact, e.Err)
}

// Unwrap lets errors.Is match both pgxm.ErrGeneration and the cause.
func (e *GenerationError) Unwrap() []error {
	return []error{pgxm.ErrGeneration, e.Err}
}

// Analyze runs stages one through three: load, resolve, validate. No
// artifacts are rendered and nothing is written. The returned catalog has
// its protected flags applied.
func Analyze(data []byte, cfg constraint.Config) (*Result, error) {
	cat, err := catalog.Load(data)
	if err != nil {
		return nil, err
	}
	cat.MarkProtected(cfg.Protected)

	order, err := graph.Resolve(cat)
	if err != nil {
		return nil, err
	}

	report := constraint.Validate(cat, order, cfg)
	result := &Result{Catalog: cat, Order: order, Report: report}
	if err := report.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Run performs a full in-memory compile: Analyze plus concurrent artifact
// generation. Nothing touches the filesystem.
func Run(ctx context.Context, data []byte, opts Options) (*Result, error) {
	logger := ensureLogger(opts.Logger)

	params := opts.Params
	if params.ManifestChecksum == "" {
		params.ManifestChecksum = checksum.Manifest(data)
	}

	result, err := Analyze(data, opts.Constraints)
	if err != nil {
		return result, err
	}
	for _, w := range result.Report.Warnings {
		logger.Warn("%s: %s", w.Rule, w.Message)
	}
	logger.Verbose("resolved creation order of %d entries", len(result.Order))

	artifacts := make(map[string][]byte, len(generate.All()))
	for _, phase := range phases() {
		rendered, err := runPhase(ctx, phase, result.Catalog, result.Order, params, logger)
		if err != nil {
			return result, err
		}
		for name, content := range rendered {
			artifacts[name] = content
		}
	}

	result.Artifacts = artifacts
	return result, nil
}

// Compile runs the full pipeline against a manifest file and publishes
// artifacts to outputDir. Artifacts are rendered into a private scratch
// directory and promoted into place only after the entire run has
// succeeded; a failed run leaves the output directory untouched.
func Compile(ctx context.Context, manifestPath, outputDir string, opts Options) (*Result, error) {
	logger := ensureLogger(opts.Logger)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pgxm.ErrManifestNotFound, manifestPath)
		}
		return nil, err
	}

	result, err := Run(ctx, data, opts)
	if err != nil {
		return result, err
	}

	if err := publish(result.Artifacts, outputDir, logger); err != nil {
		return result, err
	}
	logger.Info("wrote %d artifacts to %s", len(result.Artifacts), outputDir)
	return result, nil
}

// publish writes artifacts to a scratch directory next to the output
// directory, then promotes each file with a rename. The scratch sibling
// keeps renames on one filesystem.
func publish(artifacts map[string][]byte, outputDir string, logger pgxm.Logger) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return &GenerationError{Artifact: outputDir, Err: err}
	}

	scratch := filepath.Join(filepath.Dir(outputDir),
		fmt.Sprintf(".pgxm-scratch-%s", uuid.New().String()[:8]))
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return &GenerationError{Artifact: scratch, Err: err}
	}
	defer os.RemoveAll(scratch)

	for name, content := range artifacts {
		if err := os.WriteFile(filepath.Join(scratch, name), content, 0644); err != nil {
			return &GenerationError{Artifact: name, Err: err}
		}
	}

	// Every artifact rendered and written; promote.
	for name := range artifacts {
		from := filepath.Join(scratch, name)
		to := filepath.Join(outputDir, name)
		if err := os.Rename(from, to); err != nil {
			return &GenerationError{Artifact: name, Err: err}
		}
		logger.Verbose("promoted %s", to)
	}
	return nil
}

func ensureLogger(logger pgxm.Logger) pgxm.Logger {
	if logger == nil {
		return nullLogger{}
	}
	return logger
}

type nullLogger struct{}

func (nullLogger) Verbose(string, ...interface{}) {}
func (nullLogger) Info(string, ...interface{})    {}
func (nullLogger) Warn(string, ...interface{})    {}
func (nullLogger) Error(string, ...interface{})   {}
