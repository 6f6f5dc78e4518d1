package generate

import (
	"encoding/json"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// DocsJSON renders the machine-readable documentation blob consumed by the
// documentation-consistency checker.
type DocsJSON struct{}

func (DocsJSON) Name() string     { return "docs-json" }
func (DocsJSON) Filename() string { return "extensions.json" }
func (DocsJSON) NeedsOrder() bool { return false }

type docsEntry struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Version        string   `json:"version,omitempty"`
	Description    string   `json:"description,omitempty"`
	Enabled        bool     `json:"enabled"`
	DisabledReason string   `json:"disabledReason,omitempty"`
	DependsOn      []string `json:"dependsOn,omitempty"`
	SharedPreload  bool     `json:"sharedPreload,omitempty"`
	DefaultEnable  bool     `json:"defaultEnable,omitempty"`
	PreloadOnly    bool     `json:"preloadOnly,omitempty"`
	Protected      bool     `json:"protected,omitempty"`
}

type docsCategory struct {
	Name    string      `json:"name"`
	Entries []docsEntry `json:"entries"`
}

type docsDocument struct {
	GeneratedAt string         `json:"generatedAt"`
	ToolVersion string         `json:"toolVersion"`
	Categories  []docsCategory `json:"categories"`
}

func (g DocsJSON) Generate(cat *catalog.Catalog, _ []string, p Params) ([]byte, error) {
	doc := docsDocument{
		GeneratedAt: p.timestamp(),
		ToolVersion: p.ToolVersion,
	}

	for _, group := range groupByCategory(cat, p) {
		category := docsCategory{Name: group.name}
		for _, entry := range group.entries {
			category.Entries = append(category.Entries, docsEntry{
				Name:           entry.Name,
				Kind:           string(entry.Kind),
				Version:        entry.Version,
				Description:    entry.Description,
				Enabled:        entry.Enabled,
				DisabledReason: entry.DisabledReason,
				DependsOn:      sortedDeps(entry),
				SharedPreload:  entry.Runtime.SharedPreload,
				DefaultEnable:  entry.Runtime.DefaultEnable,
				PreloadOnly:    entry.Runtime.PreloadOnly,
				Protected:      entry.Protected,
			})
		}
		doc.Categories = append(doc.Categories, category)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
