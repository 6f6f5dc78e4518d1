package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/pipeline"
	"github.com/vvka-141/pgxm/internal/tui"
	"github.com/vvka-141/pgxm/internal/tui/wizards"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

var addCmd = &cobra.Command{
	Use:   "add [project_path]",
	Short: "Add an entry to the manifest",
	Long: `Add appends a new entry to the manifest. At an interactive terminal a
wizard collects the fields; in scripts the same fields are passed as
flags, with --name and --kind required.

The merged manifest is validated before anything is written. An entry
that would break the dependency graph or a constraint rule is rejected
and the manifest stays untouched.

Examples:
  pgxm add                                   # Interactive wizard
  pgxm add --name pgvector --kind extension --version 0.8.0
  pgxm add --name pg_cron --kind extension --shared-preload`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

type addFlagValues struct {
	name          string
	kind          string
	category      string
	version       string
	description   string
	depends       []string
	sharedPreload bool
	defaultEnable bool
	preloadOnly   bool
}

var addFlags addFlagValues

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addFlags.name, "name", "", "Entry name (required in non-interactive mode)")
	addCmd.Flags().StringVar(&addFlags.kind, "kind", "", "Entry kind: extension, builtin, or tool")
	addCmd.Flags().StringVar(&addFlags.category, "category", "", "Documentation category")
	addCmd.Flags().StringVar(&addFlags.version, "version", "", "Pinned upstream version")
	addCmd.Flags().StringVar(&addFlags.description, "description", "", "One-line summary")
	addCmd.Flags().StringSliceVar(&addFlags.depends, "depends", nil, "Entries that must exist before this one")
	addCmd.Flags().BoolVar(&addFlags.sharedPreload, "shared-preload", false, "List in shared_preload_libraries")
	addCmd.Flags().BoolVar(&addFlags.defaultEnable, "default-enable", false, "Create in the default database at first start")
	addCmd.Flags().BoolVar(&addFlags.preloadOnly, "preload-only", false, "Preload library with no extension object")
	_ = addCmd.RegisterFlagCompletionFunc("kind", completeEntryKinds)
}

func runAdd(cmd *cobra.Command, args []string) error {
	pc, err := loadProject(cmd, args, "", "")
	if err != nil {
		return err
	}

	var entry catalog.Entry
	if tui.IsInteractive() && !cmd.Flags().Changed("name") {
		result, err := wizards.RunAddWizard()
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Fprintln(os.Stderr, "add cancelled")
			return nil
		}
		entry = result.Entry
		if !tui.PromptContinue(fmt.Sprintf("Add '%s' to %s?", entry.Name, pc.ManifestPath)) {
			fmt.Fprintln(os.Stderr, "add cancelled")
			return nil
		}
	} else {
		entry, err = entryFromFlags(addFlags)
		if err != nil {
			return err
		}
	}

	if err := appendEntry(pc, entry); err != nil {
		return err
	}

	printSuccess("added '%s' to %s", entry.Name, pc.ManifestPath)
	fmt.Fprintln(os.Stderr, "Run 'pgxm compile' to regenerate artifacts.")
	return nil
}

// entryFromFlags builds the new entry in non-interactive mode.
func entryFromFlags(f addFlagValues) (catalog.Entry, error) {
	if err := wizards.ValidateEntryName(f.name); err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: --name: %v", pgxm.ErrInvalidConfig, err)
	}
	kind := catalog.Kind(f.kind)
	if !kind.IsValid() {
		return catalog.Entry{}, fmt.Errorf("%w: --kind must be one of %s",
			pgxm.ErrInvalidConfig, strings.Join(entryKinds, ", "))
	}

	return catalog.Entry{
		Name:        strings.TrimSpace(f.name),
		Kind:        kind,
		Category:    f.category,
		Version:     f.version,
		Description: f.description,
		Enabled:     true,
		DependsOn:   f.depends,
		Runtime: catalog.RuntimeFlags{
			SharedPreload: f.sharedPreload,
			DefaultEnable: f.defaultEnable,
			PreloadOnly:   f.preloadOnly,
		},
	}, nil
}

// appendEntry validates the merged manifest in memory, then appends the
// rendered entry block to the file. The original text, comments included,
// is preserved byte for byte.
func appendEntry(pc *projectContext, entry catalog.Entry) error {
	data, err := os.ReadFile(pc.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", pgxm.ErrManifestNotFound, pc.ManifestPath)
		}
		return err
	}

	block, err := renderEntryBlock(entry)
	if err != nil {
		return err
	}

	merged := data
	if len(merged) > 0 && merged[len(merged)-1] != '\n' {
		merged = append(merged, '\n')
	}
	merged = append(merged, block...)

	if _, err := pipeline.Analyze(merged, pc.Options.Constraints); err != nil {
		return fmt.Errorf("entry '%s' would make the manifest invalid: %w", entry.Name, err)
	}

	info, err := os.Stat(pc.ManifestPath)
	if err != nil {
		return err
	}
	return os.WriteFile(pc.ManifestPath, merged, info.Mode().Perm())
}

// renderEntryBlock marshals the entry as a single list item indented to
// sit under the top-level entries key.
func renderEntryBlock(entry catalog.Entry) ([]byte, error) {
	raw, err := yaml.Marshal([]catalog.Entry{entry})
	if err != nil {
		return nil, fmt.Errorf("failed to render entry: %w", err)
	}

	var block strings.Builder
	block.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
		block.WriteString("  ")
		block.WriteString(line)
		block.WriteString("\n")
	}
	return []byte(block.String()), nil
}
