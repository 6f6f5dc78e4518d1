package pgxm

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Compilation/verification completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitStructuralError = 10 // Manifest failed schema validation
	ExitCycleError      = 11 // Dependency cycle in the manifest
	ExitConstraintError = 12 // Cross-entry constraint violation
	ExitGenerationError = 13 // Artifact generation or write failed
	ExitDriftError      = 14 // Committed artifacts drifted from the manifest
)

const (
	// ManifestFileName is the default manifest file name inside a project directory.
	ManifestFileName = "manifest.yaml"

	// DefaultOutputDir is the default directory, relative to the project root,
	// where generated artifacts are written.
	DefaultOutputDir = "generated"

	// ProtectedOverrideEnv is the environment variable the generated runtime
	// configuration honors to allow starting with a protected entry disabled.
	// The constraint validator references it in its error guidance; the
	// compiler itself never reads it.
	ProtectedOverrideEnv = "PGXM_ALLOW_DISABLED_PROTECTED"

	// MaxErrorPreviewLength is the maximum number of characters shown when
	// previewing drifted artifact content in error messages. This prevents
	// overwhelming the console with large diffs.
	MaxErrorPreviewLength = 2000
)
