package wizards

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/tui/components"
)

// EntryResult holds the result of the add-entry wizard.
type EntryResult struct {
	Cancelled bool
	Entry     catalog.Entry
}

var entryNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_.-]*$`)

// ValidateEntryName checks a manifest entry name: lowercase, starting
// with a letter, limited to the characters PostgreSQL extension names use.
func ValidateEntryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !entryNamePattern.MatchString(name) {
		return fmt.Errorf("use lowercase letters, digits, '_', '-', '.'")
	}
	return nil
}

// ParseDependsOn splits a comma-separated dependency list.
func ParseDependsOn(raw string) []string {
	var deps []string
	for _, part := range strings.Split(raw, ",") {
		if dep := strings.TrimSpace(part); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// RunAddWizard collects a new manifest entry interactively. The flow runs
// as three short programs: kind selection, field entry, runtime flags.
func RunAddWizard() (EntryResult, error) {
	kind, cancelled, err := selectKind()
	if err != nil || cancelled {
		return EntryResult{Cancelled: true}, err
	}

	entry, cancelled, err := collectFields(kind)
	if err != nil || cancelled {
		return EntryResult{Cancelled: true}, err
	}

	// Tools have no runtime behavior inside the server.
	if kind != catalog.KindTool {
		flags, cancelled, err := collectRuntimeFlags()
		if err != nil || cancelled {
			return EntryResult{Cancelled: true}, err
		}
		entry.Runtime = flags
	}

	return EntryResult{Entry: entry}, nil
}

func selectKind() (catalog.Kind, bool, error) {
	selector := components.NewSelector("Entry kind", []components.Option{
		{Label: "extension", Value: string(catalog.KindExtension), Description: "Installed from packages, created with CREATE EXTENSION"},
		{Label: "builtin", Value: string(catalog.KindBuiltin), Description: "Ships with PostgreSQL (contrib or core)"},
		{Label: "tool", Value: string(catalog.KindTool), Description: "Host-level binary, no CREATE EXTENSION step"},
	})

	model, err := tea.NewProgram(selector).Run()
	if err != nil {
		return "", true, err
	}
	result := model.(components.Selector)
	if result.Cancelled() || !result.Submitted() {
		return "", true, nil
	}
	return catalog.Kind(result.Value()), false, nil
}

func collectFields(kind catalog.Kind) (catalog.Entry, bool, error) {
	form := components.NewForm("New manifest entry",
		components.NewTextField("Name", "pg_trgm").
			WithRequired(true).
			WithValidator(ValidateEntryName),
		components.NewTextField("Category", "search"),
		components.NewTextField("Version", "1.6"),
		components.NewTextField("Description", "Trigram matching for fuzzy text search"),
		components.NewTextField("Depends on (comma separated)", "pg_trgm, postgis"),
	)

	model, err := tea.NewProgram(form).Run()
	if err != nil {
		return catalog.Entry{}, true, err
	}
	result := model.(components.Form)
	if result.Cancelled() || !result.Submitted() {
		return catalog.Entry{}, true, nil
	}

	return catalog.Entry{
		Name:        strings.TrimSpace(result.FieldValue(0)),
		Kind:        kind,
		Category:    strings.TrimSpace(result.FieldValue(1)),
		Version:     strings.TrimSpace(result.FieldValue(2)),
		Description: strings.TrimSpace(result.FieldValue(3)),
		DependsOn:   ParseDependsOn(result.FieldValue(4)),
		Enabled:     true,
	}, false, nil
}

func collectRuntimeFlags() (catalog.RuntimeFlags, bool, error) {
	model, err := tea.NewProgram(newFlagsModel()).Run()
	if err != nil {
		return catalog.RuntimeFlags{}, true, err
	}
	result := model.(flagsModel)
	if result.cancelled {
		return catalog.RuntimeFlags{}, true, nil
	}
	return result.Flags(), false, nil
}

// flagsModel is a toggle list for the three runtime flags.
type flagsModel struct {
	cursor    int
	flags     [3]bool
	cancelled bool
	styles    wizardStyles
	keys      wizardKeys
}

var flagLabels = [3]struct {
	name string
	desc string
}{
	{"sharedPreload", "Add to shared_preload_libraries at image build"},
	{"defaultEnable", "Activate in every database without opt-in"},
	{"preloadOnly", "No CREATE EXTENSION step, preload is the whole install"},
}

func newFlagsModel() flagsModel {
	return flagsModel{
		styles: defaultWizardStyles(),
		keys:   defaultWizardKeys(),
	}
}

// Flags converts the toggle state into catalog runtime flags.
func (m flagsModel) Flags() catalog.RuntimeFlags {
	return catalog.RuntimeFlags{
		SharedPreload: m.flags[0],
		DefaultEnable: m.flags[1],
		PreloadOnly:   m.flags[2],
	}
}

// Init implements tea.Model.
func (m flagsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m flagsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit), key.Matches(keyMsg, m.keys.Back):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.flags)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.flags[m.cursor] = !m.flags[m.cursor]
	case key.Matches(keyMsg, m.keys.Select):
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m flagsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Runtime flags"))
	b.WriteString("\n\n")

	for i, label := range flagLabels {
		style := m.styles.Unselected
		if i == m.cursor {
			style = m.styles.Selected
		}
		mark := "○"
		if m.flags[i] {
			mark = "●"
		}
		b.WriteString(style.Render(mark + " " + label.name))
		b.WriteString("\n")
		b.WriteString(m.styles.Description.Render(label.desc))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("\n↑/↓ navigate • space toggle • enter done • esc cancel"))

	return b.String()
}
