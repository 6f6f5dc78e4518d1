package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgxm/internal/constraint"
	"github.com/vvka-141/pgxm/internal/pipeline"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project_path]",
	Short: "Validate the manifest without writing anything",
	Long: `Validate runs the load, resolve, and constraint stages against the
manifest and reports every finding. No artifacts are generated and
nothing is written to disk.

Useful as a fast pre-commit check:
  pgxm validate || exit 1

Examples:
  pgxm validate                  # Validate the manifest in .
  pgxm validate ./distro --json  # Findings as JSON on stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

type validateFlagValues struct {
	manifest string
	json     bool
}

var validateFlags validateFlagValues

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.manifest, "manifest", "m", "",
		"Manifest file to validate (overrides pgxm.yaml)")
	validateCmd.Flags().BoolVar(&validateFlags.json, "json", false,
		"Print findings as JSON to stdout")
	_ = validateCmd.RegisterFlagCompletionFunc("manifest", completeYAMLFiles)
}

// validateSummary is the --json payload of a validate run.
type validateSummary struct {
	Manifest      string                 `json:"manifest"`
	Valid         bool                   `json:"valid"`
	CreationOrder []string               `json:"creationOrder,omitempty"`
	Errors        []constraint.Violation `json:"errors,omitempty"`
	Warnings      []constraint.Violation `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	pc, err := loadProject(cmd, args, validateFlags.manifest, "")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(pc.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", pgxm.ErrManifestNotFound, pc.ManifestPath)
		}
		return err
	}

	result, err := pipeline.Analyze(data, pc.Options.Constraints)
	if result != nil {
		printReport(result.Report)
	}

	if validateFlags.json {
		summary := validateSummary{Manifest: pc.ManifestPath, Valid: err == nil}
		if result != nil {
			summary.CreationOrder = result.Order
			if result.Report != nil {
				summary.Errors = result.Report.Errors
				summary.Warnings = result.Report.Warnings
			}
		}
		if jsonErr := printJSON(summary); jsonErr != nil {
			return jsonErr
		}
	}

	if err != nil {
		printFailure("manifest is invalid: %v", err)
		return err
	}

	printSuccess("manifest is valid: %s", summaryLine(
		len(result.Catalog.Entries), len(result.Catalog.EnabledNames()), len(result.Order)))
	return nil
}
