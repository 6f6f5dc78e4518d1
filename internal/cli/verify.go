package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgxm/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [project_path]",
	Short: "Check committed artifacts against the manifest",
	Long: `Verify regenerates every artifact from the current manifest in memory
and compares the result against the committed files in the output
directory. Timestamps are excluded from the comparison; any other
difference is drift.

Verify never modifies committed files. Drift means the committed
artifacts are stale: run 'pgxm compile' and commit the result.

Intended for CI gates:
  pgxm verify || exit 1

Examples:
  pgxm verify                    # Verify the project in .
  pgxm verify ./distro --json    # Drift report as JSON on stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

type verifyFlagValues struct {
	manifest string
	output   string
	json     bool
}

var verifyFlags verifyFlagValues

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyFlags.manifest, "manifest", "m", "",
		"Manifest file to verify against (overrides pgxm.yaml)")
	verifyCmd.Flags().StringVarP(&verifyFlags.output, "output", "o", "",
		"Committed artifact directory (overrides pgxm.yaml)")
	verifyCmd.Flags().BoolVar(&verifyFlags.json, "json", false,
		"Print the drift report as JSON to stdout")
}

// verifySummary is the --json payload of a verify run.
type verifySummary struct {
	Manifest string         `json:"manifest"`
	State    string         `json:"state"`
	Drifts   []verify.Drift `json:"drifts,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	pc, err := loadProject(cmd, args, verifyFlags.manifest, verifyFlags.output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier := verify.New(pc.Options)
	err = verifier.Verify(ctx, pc.ManifestPath, pc.OutputDir)

	var driftErr *verify.DriftError
	switch {
	case err == nil:
		printSuccess("artifacts in %s match the manifest", pc.OutputDir)
		if verifyFlags.json {
			return printJSON(verifySummary{Manifest: pc.ManifestPath, State: verifier.State().String()})
		}
		return nil

	case errors.As(err, &driftErr):
		printFailure("%d artifact(s) drifted; run 'pgxm compile' and commit the result", len(driftErr.Drifts))
		if verifyFlags.json {
			if jsonErr := printJSON(verifySummary{
				Manifest: pc.ManifestPath,
				State:    verifier.State().String(),
				Drifts:   driftErr.Drifts,
			}); jsonErr != nil {
				return jsonErr
			}
		}
		return err

	default:
		printFailure("verify failed: %v", err)
		return err
	}
}
