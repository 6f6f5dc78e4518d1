// Package verify implements the consistency verifier: it regenerates every
// artifact from the current manifest into an isolated in-memory set and
// structurally diffs the result against the committed files. Drift is never
// auto-fixed; it is a signal that the committed artifacts are stale and
// must be regenerated and committed by a human.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/pgxm/internal/checksum"
	"github.com/vvka-141/pgxm/internal/generate"
	"github.com/vvka-141/pgxm/internal/pipeline"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// State tracks the verifier's progress through its single forward pass.
// There are no retries: Drifted is terminal and requires human action.
type State int

const (
	StateIdle State = iota
	StateRegenerating
	StateComparing
	StateClean
	StateDrifted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRegenerating:
		return "regenerating"
	case StateComparing:
		return "comparing"
	case StateClean:
		return "clean"
	case StateDrifted:
		return "drifted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Drift describes one mismatched artifact.
type Drift struct {
	// Artifact is the artifact filename.
	Artifact string `json:"artifact"`

	// Missing is true when the committed file does not exist at all.
	Missing bool `json:"missing,omitempty"`

	// Diff is a unified diff from the committed content to the freshly
	// generated content, with timestamp fields already neutralized.
	Diff string `json:"diff,omitempty"`

	// Entries names the catalog entries whose lines drifted, when the
	// artifact carries a line map (the bootstrap script).
	Entries []string `json:"entries,omitempty"`
}

// DriftError reports every drifted artifact with its diff and the
// remediation path.
type DriftError struct {
	Drifts []Drift
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d artifact(s) drifted from the manifest:\n", len(e.Drifts))
	for _, d := range e.Drifts {
		if d.Missing {
			fmt.Fprintf(&b, "\n--- %s: committed file is missing\n", d.Artifact)
			continue
		}
		fmt.Fprintf(&b, "\n--- %s", d.Artifact)
		if len(d.Entries) > 0 {
			fmt.Fprintf(&b, " (entries: %s)", strings.Join(d.Entries, ", "))
		}
		b.WriteString("\n")
		b.WriteString(truncate(d.Diff, pgxm.MaxErrorPreviewLength))
	}
	b.WriteString("\ncommitted artifacts are stale, not the compiler: run `pgxm compile` and commit the result")
	return b.String()
}

// Unwrap lets errors.Is(err, pgxm.ErrDrift) classify this error.
func (e *DriftError) Unwrap() error {
	return pgxm.ErrDrift
}

// Verifier wraps a full compiler run and compares its output against the
// committed artifact directory. Not safe for concurrent Verify calls on
// the same instance.
type Verifier struct {
	opts  pipeline.Options
	state State
}

// New creates a Verifier.
func New(opts pipeline.Options) *Verifier {
	return &Verifier{opts: opts, state: StateIdle}
}

// State returns the verifier's current state.
func (v *Verifier) State() State {
	return v.state
}

// Verify regenerates artifacts from manifestPath and compares them with
// the files in outputDir. Committed files are never written, moved, or
// deleted. Returns nil when clean, a *DriftError when drifted, or the
// underlying compile error when the manifest itself does not compile.
func (v *Verifier) Verify(ctx context.Context, manifestPath, outputDir string) error {
	v.state = StateRegenerating

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		v.state = StateIdle
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", pgxm.ErrManifestNotFound, manifestPath)
		}
		return err
	}

	// Fix the checksum up front so the attribution map rebuilt below is
	// rendered with exactly the parameters the pipeline used.
	opts := v.opts
	if opts.Params.ManifestChecksum == "" {
		opts.Params.ManifestChecksum = checksum.Manifest(data)
	}

	result, err := pipeline.Run(ctx, data, opts)
	if err != nil {
		v.state = StateIdle
		return err
	}

	v.state = StateComparing
	var drifts []Drift

	filenames := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	for _, name := range filenames {
		fresh := result.Artifacts[name]
		committed, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				drifts = append(drifts, Drift{Artifact: name, Missing: true})
				continue
			}
			v.state = StateIdle
			return err
		}

		drift, drifted, err := compareArtifact(name, committed, fresh)
		if err != nil {
			v.state = StateIdle
			return err
		}
		if !drifted {
			continue
		}

		if name == (generate.Bootstrap{}).Filename() {
			_, lineMap, mapErr := generate.BootstrapWithMap(result.Catalog, result.Order, opts.Params)
			if mapErr == nil {
				drift.Entries = lineMap.EntriesForLines(addedLines(drift.Diff))
			}
		}
		drifts = append(drifts, drift)
	}

	if len(drifts) > 0 {
		v.state = StateDrifted
		return &DriftError{Drifts: drifts}
	}
	v.state = StateClean
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (diff truncated)\n"
}
