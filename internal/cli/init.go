package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgxm/internal/logging"
	"github.com/vvka-141/pgxm/internal/pipeline"
	"github.com/vvka-141/pgxm/internal/scaffold"
	"github.com/vvka-141/pgxm/internal/tui"
	"github.com/vvka-141/pgxm/internal/tui/wizards"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new manifest project",
	Long: `Initialize a pgxm project into the specified directory.

The init command creates:
- manifest.yaml with a starter set of entries
- pgxm.yaml project configuration
- README with the compile/verify workflow

Target directory must be empty or non-existent. When run at an
interactive terminal without --template, a wizard walks through the
choices.

Examples:
  pgxm init .                    # Initialize in current directory
  pgxm init ./distro             # Initialize in ./distro
  pgxm init . -t minimal         # Skip the wizard, use a template

Use 'pgxm init --list' to see available templates.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runInit,
	ValidArgsFunction: completeDirectories,
}

var (
	initTemplate string
	initList     bool
	initCompile  bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "default", "Template to use (default, minimal)")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")
	initCmd.Flags().BoolVar(&initCompile, "compile", false, "Run a first compile after creating the project")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Handle --list flag
	if initList {
		return runTemplateList()
	}

	// Require target path if not listing
	if len(args) == 0 {
		return fmt.Errorf("target path required\n\nUsage: pgxm init <target_path> [flags]\n\nExamples:\n  pgxm init .        # Current directory\n  pgxm init ./distro # Subdirectory\n\nUse 'pgxm init --list' to see available templates")
	}

	targetPath := args[0]
	template := initTemplate
	compileAfter := initCompile

	// Fail before the wizard when the target cannot be initialized.
	exists, nonEmpty, err := wizards.DirectoryExists(targetPath)
	if err != nil {
		return err
	}
	if exists && nonEmpty {
		return fmt.Errorf("directory '%s' is not empty; pgxm init requires an empty or new directory", targetPath)
	}

	// Offer the wizard when a human is at the terminal and no template
	// was pinned on the command line.
	if tui.IsInteractive() && !cmd.Flags().Changed("template") {
		result, err := wizards.RunInitWizard(targetPath)
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Fprintln(os.Stderr, "init cancelled")
			return nil
		}
		template = result.Template
		compileAfter = result.CompileAfter
	}

	// Determine project name from target path
	projectName := filepath.Base(targetPath)
	if projectName == "." || projectName == ".." {
		cwd, err := os.Getwd()
		if err == nil {
			projectName = filepath.Base(cwd)
		} else {
			projectName = "project"
		}
	}
	verbose := getVerboseFlag(cmd)

	// Validate template
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	validTemplate := false
	for _, t := range templates {
		if t == template {
			validTemplate = true
			break
		}
	}

	if !validTemplate {
		return fmt.Errorf("invalid template '%s'. Available templates: %v\n\nUse 'pgxm init --list' for detailed descriptions", template, templates)
	}

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))
	if err := scaffolder.CreateProject(projectName, template, targetPath); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if compileAfter {
		pc, err := loadProject(cmd, []string{targetPath}, "", "")
		if err != nil {
			return err
		}
		progress := tui.NewProgressDisplay()
		progress.Start("Compiling artifacts")
		result, err := pipeline.Compile(cmd.Context(), pc.ManifestPath, pc.OutputDir, pc.Options)
		if err != nil {
			progress.Error("compile failed")
			return fmt.Errorf("project created, but the first compile failed: %w", err)
		}
		progress.Success(fmt.Sprintf("wrote %d artifacts to %s", len(result.Artifacts), pc.OutputDir))
	}

	// Tree display is best-effort; creation already succeeded.
	tree, err := scaffold.BuildFileTree(targetPath)
	if err != nil {
		tree = ""
	}
	wizards.ShowInitComplete(targetPath, template, tree)

	return nil
}

func runTemplateList() error {
	for _, t := range wizards.DefaultTemplates() {
		fmt.Printf("%-10s %s\n", t.Name, t.Description)
	}
	return nil
}
