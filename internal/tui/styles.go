package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every pgxm component. Kept to five colors so output
// stays readable on both light and dark terminals.
var (
	ColorPrimary   = lipgloss.Color("39")  // blue, focus and selection
	ColorSecondary = lipgloss.Color("245") // gray, labels and idle items
	ColorSuccess   = lipgloss.Color("34")
	ColorError     = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("240") // help text, descriptions
)

// Shared styles built on the palette.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			MarginBottom(1)

	InputLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			MarginRight(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginLeft(4)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)
)

// Status and selection symbols.
const (
	SymbolSelected   = "●"
	SymbolUnselected = "○"
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolBusy       = "◐"
)
