package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteTemplateNames(t *testing.T) {
	matches, directive := completeTemplateNames(initCmd, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("Expected NoFileComp directive, got %v", directive)
	}
	if len(matches) < 2 {
		t.Errorf("Expected at least two templates, got %v", matches)
	}
}

func TestCompleteTemplateNames_Prefix(t *testing.T) {
	matches, _ := completeTemplateNames(initCmd, nil, "min")
	if len(matches) != 1 || matches[0] != "minimal" {
		t.Errorf("Expected [minimal], got %v", matches)
	}
}

func TestCompleteTemplateNames_AfterArgs(t *testing.T) {
	matches, directive := completeTemplateNames(initCmd, []string{"x"}, "")
	if matches != nil || directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("Expected no completions after positional args, got %v", matches)
	}
}

func TestCompleteYAMLFiles(t *testing.T) {
	exts, directive := completeYAMLFiles(compileCmd, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("Expected FilterFileExt directive, got %v", directive)
	}
	if len(exts) != 2 {
		t.Errorf("Expected yaml and yml extensions, got %v", exts)
	}
}

func TestCompleteEntryKinds(t *testing.T) {
	matches, _ := completeEntryKinds(addCmd, nil, "")
	if len(matches) != 3 {
		t.Errorf("Expected three kinds, got %v", matches)
	}
	matches, _ = completeEntryKinds(addCmd, nil, "too")
	if len(matches) != 1 || matches[0] != "tool" {
		t.Errorf("Expected [tool], got %v", matches)
	}
}

func TestCompleteDirectories(t *testing.T) {
	_, directive := completeDirectories(initCmd, nil, "")
	if directive != cobra.ShellCompDirectiveFilterDirs {
		t.Errorf("Expected FilterDirs directive, got %v", directive)
	}
}
