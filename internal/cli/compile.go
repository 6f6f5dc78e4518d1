package cli

import (
	"context"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgxm/internal/pipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [project_path]",
	Short: "Compile the manifest into build artifacts",
	Long: `Compile loads the extension manifest, resolves the dependency graph,
validates cross-entry constraints, and regenerates every artifact into
the output directory.

The run is all-or-nothing: artifacts are rendered into a scratch
directory and promoted only after the whole set succeeded. A failed run
leaves previously committed artifacts untouched.

Arguments:
  project_path    Directory containing the manifest (default: current directory)

Examples:
  pgxm compile                   # Compile the manifest in .
  pgxm compile ./distro          # Compile a specific project
  pgxm compile --manifest m.yaml # Explicit manifest location
  pgxm compile --json            # Machine-readable summary on stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

type compileFlagValues struct {
	manifest string
	output   string
	json     bool
}

var compileFlags compileFlagValues

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileFlags.manifest, "manifest", "m", "",
		"Manifest file to compile (overrides pgxm.yaml)")
	compileCmd.Flags().StringVarP(&compileFlags.output, "output", "o", "",
		"Artifact output directory (overrides pgxm.yaml)")
	compileCmd.Flags().BoolVar(&compileFlags.json, "json", false,
		"Print a machine-readable run summary to stdout")
	_ = compileCmd.RegisterFlagCompletionFunc("manifest", completeYAMLFiles)
}

// compileSummary is the --json payload of a compile run.
type compileSummary struct {
	Manifest      string   `json:"manifest"`
	OutputDir     string   `json:"outputDir"`
	EntriesTotal  int      `json:"entriesTotal"`
	CreationOrder []string `json:"creationOrder"`
	Artifacts     []string `json:"artifacts"`
	Warnings      int      `json:"warnings"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	pc, err := loadProject(cmd, args, compileFlags.manifest, compileFlags.output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Compile(ctx, pc.ManifestPath, pc.OutputDir, pc.Options)
	if result != nil {
		printReport(result.Report)
	}
	if err != nil {
		printFailure("compile failed: %v", err)
		return err
	}

	printSuccess("compiled %s", summaryLine(
		len(result.Catalog.Entries), len(result.Catalog.EnabledNames()), len(result.Order)))
	printSuccess("wrote %d artifacts to %s", len(result.Artifacts), pc.OutputDir)

	if compileFlags.json {
		artifacts := make([]string, 0, len(result.Artifacts))
		for name := range result.Artifacts {
			artifacts = append(artifacts, name)
		}
		sort.Strings(artifacts)
		return printJSON(compileSummary{
			Manifest:      pc.ManifestPath,
			OutputDir:     pc.OutputDir,
			EntriesTotal:  len(result.Catalog.Entries),
			CreationOrder: result.Order,
			Artifacts:     artifacts,
			Warnings:      len(result.Report.Warnings),
		})
	}
	return nil
}
