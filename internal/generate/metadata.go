package generate

import (
	"encoding/json"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// Metadata renders the structured summary consumed by release and
// documentation tooling: counts by kind and state, preload and
// auto-created groupings, and the creation order. Field shapes stay stable
// across regenerations as long as the manifest schema is unchanged.
type Metadata struct{}

func (Metadata) Name() string     { return "metadata" }
func (Metadata) Filename() string { return "manifest-meta.json" }
func (Metadata) NeedsOrder() bool { return true }

type metaCounts struct {
	Total         int            `json:"total"`
	Enabled       int            `json:"enabled"`
	Disabled      int            `json:"disabled"`
	ByKind        map[string]int `json:"byKind"`
	SharedPreload int            `json:"sharedPreload"`
	DefaultEnable int            `json:"defaultEnable"`
}

type metaDisabled struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type metaDocument struct {
	GeneratedAt      string         `json:"generatedAt"`
	ToolVersion      string         `json:"toolVersion"`
	ManifestChecksum string         `json:"manifestChecksum,omitempty"`
	Counts           metaCounts     `json:"counts"`
	CreationOrder    []string       `json:"creationOrder"`
	SharedPreload    []string       `json:"sharedPreload"`
	DefaultEnable    []string       `json:"defaultEnable"`
	Protected        []string       `json:"protected"`
	Disabled         []metaDisabled `json:"disabled"`
}

func (g Metadata) Generate(cat *catalog.Catalog, order []string, p Params) ([]byte, error) {
	doc := metaDocument{
		GeneratedAt:      p.timestamp(),
		ToolVersion:      p.ToolVersion,
		ManifestChecksum: p.ManifestChecksum,
		CreationOrder:    append([]string{}, order...),
		SharedPreload:    []string{},
		DefaultEnable:    []string{},
		Protected:        []string{},
		Disabled:         []metaDisabled{},
		Counts: metaCounts{
			Total:  len(cat.Entries),
			ByKind: make(map[string]int),
		},
	}

	for _, name := range cat.Names() {
		entry := cat.Get(name)
		doc.Counts.ByKind[string(entry.Kind)]++
		if entry.Enabled {
			doc.Counts.Enabled++
		} else {
			doc.Counts.Disabled++
			doc.Disabled = append(doc.Disabled, metaDisabled{
				Name:   entry.Name,
				Reason: entry.DisabledReason,
			})
		}
		if entry.Enabled && entry.Runtime.SharedPreload {
			doc.Counts.SharedPreload++
			doc.SharedPreload = append(doc.SharedPreload, entry.Name)
		}
		if entry.Enabled && entry.Runtime.DefaultEnable {
			doc.Counts.DefaultEnable++
			doc.DefaultEnable = append(doc.DefaultEnable, entry.Name)
		}
		if entry.Protected {
			doc.Protected = append(doc.Protected, entry.Name)
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
