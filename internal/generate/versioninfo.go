package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// VersionText renders the plain-text half of the version-info pair embedded
// in the built image.
type VersionText struct{}

func (VersionText) Name() string     { return "version-text" }
func (VersionText) Filename() string { return "version.txt" }
func (VersionText) NeedsOrder() bool { return false }

func (g VersionText) Generate(cat *catalog.Catalog, _ []string, p Params) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "PostgreSQL distribution %s\n", p.DistroVersion)
	fmt.Fprintf(&b, "%s %s by pgxm %s\n", TimestampMarker, p.timestamp(), p.ToolVersion)
	if p.ManifestChecksum != "" {
		fmt.Fprintf(&b, "Manifest checksum: %s\n", p.ManifestChecksum)
	}
	fmt.Fprintf(&b, "Entries: %d enabled, %d total\n", len(cat.EnabledNames()), len(cat.Entries))
	return []byte(b.String()), nil
}

// VersionJSON renders the machine-readable half of the version-info pair.
type VersionJSON struct{}

func (VersionJSON) Name() string     { return "version-json" }
func (VersionJSON) Filename() string { return "version.json" }
func (VersionJSON) NeedsOrder() bool { return false }

type versionDocument struct {
	DistroVersion    string `json:"distroVersion"`
	ToolVersion      string `json:"toolVersion"`
	GeneratedAt      string `json:"generatedAt"`
	ManifestChecksum string `json:"manifestChecksum,omitempty"`
	EntriesTotal     int    `json:"entriesTotal"`
	EntriesEnabled   int    `json:"entriesEnabled"`
}

func (g VersionJSON) Generate(cat *catalog.Catalog, _ []string, p Params) ([]byte, error) {
	doc := versionDocument{
		DistroVersion:    p.DistroVersion,
		ToolVersion:      p.ToolVersion,
		GeneratedAt:      p.timestamp(),
		ManifestChecksum: p.ManifestChecksum,
		EntriesTotal:     len(cat.Entries),
		EntriesEnabled:   len(cat.EnabledNames()),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
