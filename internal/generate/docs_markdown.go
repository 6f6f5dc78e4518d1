package generate

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// DocsMarkdown renders the human documentation: one section per category,
// disabled entries annotated with their reason.
type DocsMarkdown struct{}

func (DocsMarkdown) Name() string     { return "docs-markdown" }
func (DocsMarkdown) Filename() string { return "extensions.md" }
func (DocsMarkdown) NeedsOrder() bool { return false }

func (g DocsMarkdown) Generate(cat *catalog.Catalog, _ []string, p Params) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Extension Catalog\n\n")
	fmt.Fprintf(&b, "> %s %s by pgxm %s. Do not edit; regenerate with `pgxm compile`.\n\n",
		TimestampMarker, p.timestamp(), p.ToolVersion)

	enabled := len(cat.EnabledNames())
	fmt.Fprintf(&b, "%d entries, %d enabled.\n", len(cat.Entries), enabled)

	for _, group := range groupByCategory(cat, p) {
		fmt.Fprintf(&b, "\n## %s\n\n", group.name)
		b.WriteString("| Name | Kind | Version | Flags | Description |\n")
		b.WriteString("|------|------|---------|-------|-------------|\n")
		for _, entry := range group.entries {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				entry.Name,
				entry.Kind,
				orDash(entry.Version),
				orDash(flagList(entry)),
				orDash(describe(entry)),
			)
		}
	}

	if disabled := disabledEntries(cat); len(disabled) > 0 {
		b.WriteString("\n## Disabled entries\n\n")
		for _, entry := range disabled {
			fmt.Fprintf(&b, "- **%s**: %s\n", entry.Name, entry.DisabledReason)
		}
	}

	return []byte(b.String()), nil
}

func flagList(entry *catalog.Entry) string {
	var flags []string
	if entry.Runtime.SharedPreload {
		flags = append(flags, "preload")
	}
	if entry.Runtime.DefaultEnable {
		flags = append(flags, "default")
	}
	if entry.Runtime.PreloadOnly {
		flags = append(flags, "preload-only")
	}
	if entry.Protected {
		flags = append(flags, "protected")
	}
	return strings.Join(flags, ", ")
}

func describe(entry *catalog.Entry) string {
	if entry.Enabled {
		return entry.Description
	}
	if entry.Description == "" {
		return fmt.Sprintf("*disabled: %s*", entry.DisabledReason)
	}
	return fmt.Sprintf("%s *(disabled: %s)*", entry.Description, entry.DisabledReason)
}

func disabledEntries(cat *catalog.Catalog) []*catalog.Entry {
	var disabled []*catalog.Entry
	for _, name := range cat.Names() {
		if entry := cat.Get(name); !entry.Enabled {
			disabled = append(disabled, entry)
		}
	}
	return disabled
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
