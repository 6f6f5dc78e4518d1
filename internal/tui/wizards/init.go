package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TemplateInfo holds template metadata for display.
type TemplateInfo struct {
	Name        string
	Description string
}

// DefaultTemplates returns the available template information.
func DefaultTemplates() []TemplateInfo {
	return []TemplateInfo{
		{Name: "default", Description: "Curated starter manifest with common extensions"},
		{Name: "minimal", Description: "Bare manifest with a single statistics module"},
	}
}

// InitResult holds the result of the init wizard.
type InitResult struct {
	Cancelled    bool
	TargetDir    string
	Template     string
	CompileAfter bool
}

// InitWizard guides users through manifest project initialization.
type InitWizard struct {
	step initStep

	// Template selection
	templates   []TemplateInfo
	templateIdx int

	// Target directory
	targetDir string

	// Compile choice
	compileAfter bool

	// Result
	result InitResult

	// Dimensions
	width  int
	height int

	// Styles and keys
	styles wizardStyles
	keys   wizardKeys
}

type initStep int

const (
	initStepTemplate initStep = iota
	initStepCompileChoice
	initStepComplete
)

// NewInitWizard creates a new init wizard.
func NewInitWizard(targetDir string, templates []TemplateInfo) InitWizard {
	if targetDir == "" {
		targetDir = "."
	}
	return InitWizard{
		step:         initStepTemplate,
		targetDir:    targetDir,
		templates:    templates,
		compileAfter: true,
		width:        80,
		height:       24,
		styles:       defaultWizardStyles(),
		keys:         defaultWizardKeys(),
	}
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if key.Matches(msg, w.keys.Quit) {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepTemplate:
			return w.updateTemplate(msg)
		case initStepCompileChoice:
			return w.updateCompileChoice(msg)
		case initStepComplete:
			return w.updateComplete(msg)
		}
	}

	return w, nil
}

func (w InitWizard) updateTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.templateIdx > 0 {
			w.templateIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.templateIdx < len(w.templates)-1 {
			w.templateIdx++
		}
	case key.Matches(msg, w.keys.Select):
		w.result.Template = w.templates[w.templateIdx].Name
		w.step = initStepCompileChoice
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w InitWizard) updateCompileChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		w.compileAfter = !w.compileAfter
	case key.Matches(msg, w.keys.Select):
		w.result.CompileAfter = w.compileAfter
		w.result.TargetDir = w.targetDir
		w.step = initStepComplete
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = initStepTemplate
	}
	return w, nil
}

func (w InitWizard) updateComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, w.keys.Select) {
		return w, tea.Quit
	}
	return w, nil
}

// View implements tea.Model.
func (w InitWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("pgxm init - Project Setup"))
	b.WriteString("\n")

	switch w.step {
	case initStepTemplate:
		b.WriteString(w.viewTemplate())
	case initStepCompileChoice:
		b.WriteString(w.viewCompileChoice())
	case initStepComplete:
		b.WriteString(w.viewComplete())
	}

	return b.String()
}

func (w InitWizard) viewTemplate() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Select a template"))
	b.WriteString("\n\n")

	for i, t := range w.templates {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if i == w.templateIdx {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + t.Name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(t.Description))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • q quit"))

	return b.String()
}

func (w InitWizard) viewCompileChoice() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Compile artifacts right away?"))
	b.WriteString("\n\n")

	options := []struct {
		selected bool
		name     string
		desc     string
	}{
		{!w.compileAfter, "No, just create the manifest", "Run pgxm compile yourself when ready"},
		{w.compileAfter, "Yes, run pgxm compile (recommended)", "Creates the generated/ directory immediately"},
	}

	for _, opt := range options {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if opt.selected {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + opt.name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(opt.desc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ toggle • enter select • esc back"))

	return b.String()
}

func (w InitWizard) viewComplete() string {
	var b strings.Builder

	b.WriteString(w.styles.Success.Render("✓ Ready to create project"))
	b.WriteString("\n\n")

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString(fmt.Sprintf("Directory: %s\n", absPath))
	b.WriteString(fmt.Sprintf("Template:  %s\n", w.result.Template))

	if w.result.CompileAfter {
		b.WriteString("\nArtifacts will be compiled after creation.\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter create project • esc cancel"))

	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard executes the init wizard.
func RunInitWizard(targetDir string) (InitResult, error) {
	templates := DefaultTemplates()
	if len(templates) == 0 {
		return InitResult{Cancelled: true}, fmt.Errorf("no templates available")
	}

	wizard := NewInitWizard(targetDir, templates)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}

	return model.(InitWizard).Result(), nil
}

// ShowInitComplete displays the completion message after project creation.
// The tree argument is a pre-rendered file listing; empty skips it.
func ShowInitComplete(targetDir, template, tree string) {
	absPath, _ := filepath.Abs(targetDir)

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "✓ Project created from template '%s'\n", template)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s/\n", absPath)
	if tree != "" {
		fmt.Fprint(os.Stderr, tree)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Next steps:")
	if targetDir != "." {
		fmt.Fprintf(os.Stderr, "  1. cd %s\n", targetDir)
		fmt.Fprintln(os.Stderr, "  2. Edit manifest.yaml")
		fmt.Fprintln(os.Stderr, "  3. Run: pgxm compile")
	} else {
		fmt.Fprintln(os.Stderr, "  1. Edit manifest.yaml")
		fmt.Fprintln(os.Stderr, "  2. Run: pgxm compile")
	}
	fmt.Fprintln(os.Stderr)
}

// DirectoryExists checks if a directory exists and is not empty.
func DirectoryExists(path string) (bool, bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if !info.IsDir() {
		return false, false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return true, false, err
	}

	return true, len(entries) > 0, nil
}
