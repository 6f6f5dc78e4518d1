// Package wizards contains the interactive flows behind `pgxm init` and
// `pgxm add`. Every wizard degrades gracefully: callers must check
// tui.IsInteractive before running one.
package wizards

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/pgxm/internal/tui"
)

type wizardStyles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Box         lipgloss.Style
	Label       lipgloss.Style
	FocusedBox  lipgloss.Style
}

type wizardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Tab    key.Binding
	Toggle key.Binding
}

func defaultWizardStyles() wizardStyles {
	return wizardStyles{
		Title:       tui.TitleStyle,
		Subtitle:    tui.SubtitleStyle,
		Selected:    tui.SelectedStyle,
		Unselected:  tui.UnselectedStyle,
		Description: tui.DescriptionStyle,
		Help:        tui.HelpStyle,
		Success:     tui.SuccessStyle,
		Error:       tui.ErrorStyle,
		Box:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(tui.ColorMuted).Padding(0, 1),
		Label:       tui.InputLabelStyle,
		FocusedBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(tui.ColorPrimary).Padding(0, 1),
	}
}

func defaultWizardKeys() wizardKeys {
	km := tui.DefaultKeyMap()
	return wizardKeys{
		Up:     km.Up,
		Down:   km.Down,
		Select: km.Select,
		Back:   km.Back,
		Quit:   km.Quit,
		Tab:    km.Tab,
		Toggle: key.NewBinding(key.WithKeys(" ", "space")),
	}
}
