package pgxm

import (
	"errors"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := compiler.Compile(ctx, opts)
//	if errors.Is(err, pgxm.ErrDrift) {
//	    // Committed artifacts are stale; regenerate and commit.
//	}
var (
	// ErrStructural indicates the manifest failed schema validation
	// (missing fields, duplicate names, dangling references).
	ErrStructural = errors.New("manifest failed structural validation")

	// ErrCycle indicates the declared dependency relation contains a cycle.
	ErrCycle = errors.New("dependency cycle detected")

	// ErrConstraint indicates a cross-entry constraint was violated
	// (disablement safety, protected-set enforcement).
	ErrConstraint = errors.New("constraint violation")

	// ErrGeneration indicates an artifact could not be generated or written.
	ErrGeneration = errors.New("artifact generation failed")

	// ErrDrift indicates a committed artifact no longer matches what the
	// manifest produces. Not a compiler bug: the fix is to regenerate.
	ErrDrift = errors.New("artifact drift detected")

	// ErrManifestNotFound indicates the manifest file was not found.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrInvalidConfig indicates the project configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrStructural):
		return ExitStructuralError
	case errors.Is(err, ErrCycle):
		return ExitCycleError
	case errors.Is(err, ErrConstraint):
		return ExitConstraintError
	case errors.Is(err, ErrGeneration):
		return ExitGenerationError
	case errors.Is(err, ErrDrift):
		return ExitDriftError
	case errors.Is(err, ErrManifestNotFound):
		return ExitStructuralError
	case errors.Is(err, ErrInvalidConfig):
		return ExitStructuralError
	}

	return ExitGeneralError
}
