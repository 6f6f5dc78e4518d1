package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func testOptions() []Option {
	return []Option{
		{Label: "extension", Value: "extension", Description: "third-party"},
		{Label: "builtin", Value: "builtin", Description: "ships with the server"},
		{Label: "tool", Value: "tool"},
	}
}

func TestSelector_SelectsUnderCursor(t *testing.T) {
	var m tea.Model = NewSelector("Entry kind", testOptions())

	m, _ = m.Update(press("down"))
	m, _ = m.Update(press("enter"))

	s := m.(Selector)
	if !s.Submitted() {
		t.Fatal("expected selector to be submitted")
	}
	if s.Value() != "builtin" {
		t.Errorf("expected 'builtin', got %q", s.Value())
	}
}

func TestSelector_CursorStaysInBounds(t *testing.T) {
	var m tea.Model = NewSelector("Entry kind", testOptions())

	for i := 0; i < 10; i++ {
		m, _ = m.Update(press("down"))
	}
	m, _ = m.Update(press("enter"))

	if got := m.(Selector).Value(); got != "tool" {
		t.Errorf("expected cursor clamped to last option, got %q", got)
	}
}

func TestSelector_Cancel(t *testing.T) {
	var m tea.Model = NewSelector("Entry kind", testOptions())

	m, _ = m.Update(press("q"))

	s := m.(Selector)
	if !s.Cancelled() {
		t.Fatal("expected selector to be cancelled")
	}
	if s.Selected() != -1 {
		t.Errorf("expected no selection, got %d", s.Selected())
	}
}

func TestSelector_ViewShowsOptions(t *testing.T) {
	s := NewSelector("Entry kind", testOptions())
	view := s.View()

	for _, opt := range testOptions() {
		if !strings.Contains(view, opt.Label) {
			t.Errorf("expected view to contain %q", opt.Label)
		}
	}
	if !strings.Contains(view, "ships with the server") {
		t.Error("expected view to contain option descriptions")
	}
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestForm_CollectsValues(t *testing.T) {
	var m tea.Model = NewForm("New entry",
		NewTextField("Name", "pg_trgm").WithRequired(true),
		NewTextField("Version", ""),
	)
	_ = m.Init()

	m = typeText(m, "pgvector")
	m, _ = m.Update(press("tab"))
	m = typeText(m, "0.8.0")
	m, _ = m.Update(press("enter"))

	f := m.(Form)
	if !f.Submitted() {
		t.Fatal("expected form to be submitted")
	}
	if f.FieldValue(0) != "pgvector" {
		t.Errorf("expected 'pgvector', got %q", f.FieldValue(0))
	}
	if f.FieldValue(1) != "0.8.0" {
		t.Errorf("expected '0.8.0', got %q", f.FieldValue(1))
	}
}

func TestForm_RequiredFieldBlocksSubmit(t *testing.T) {
	var m tea.Model = NewForm("New entry",
		NewTextField("Name", "").WithRequired(true),
		NewTextField("Version", ""),
	)
	_ = m.Init()

	m, _ = m.Update(press("tab"))
	m, _ = m.Update(press("enter"))

	if m.(Form).Submitted() {
		t.Error("expected empty required field to block submission")
	}
}

func TestForm_Cancel(t *testing.T) {
	var m tea.Model = NewForm("New entry", NewTextField("Name", ""))
	_ = m.Init()

	m, _ = m.Update(press("esc"))

	if !m.(Form).Cancelled() {
		t.Error("expected form to be cancelled")
	}
}

func TestTextField_ValidatorRuns(t *testing.T) {
	tf := NewTextField("Name", "").WithValidator(func(v string) error {
		if strings.ToLower(v) != v {
			return fmt.Errorf("lowercase only")
		}
		return nil
	})
	tf.SetValue("PGVector")

	if err := tf.Validate(); err == nil {
		t.Error("expected validator error for uppercase value")
	}
	tf.SetValue("pgvector")
	if err := tf.Validate(); err != nil {
		t.Errorf("expected valid value, got: %v", err)
	}
}

func TestTextField_RequiredValidation(t *testing.T) {
	tf := NewTextField("Name", "").WithRequired(true)

	if err := tf.Validate(); err == nil {
		t.Error("expected error for empty required field")
	}
	tf.SetValue("x")
	if err := tf.Validate(); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}
