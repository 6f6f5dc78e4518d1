package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgxm",
	Short: "Extension manifest compiler for PostgreSQL distribution images",
	Long: asciiLogo + `

pgxm compiles a declarative extension manifest into every file the image
build needs: build arguments, the first-start SQL script, documentation,
and machine-readable metadata. The manifest is the single source of
truth; generated artifacts are committed next to it and never edited by
hand.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Manifest failed structural validation
  11 - Dependency cycle in the manifest
  12 - Cross-entry constraint violation
  13 - Artifact generation or write failed
  14 - Committed artifacts drifted from the manifest`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgxm")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
