package generate

import (
	"sort"
	"time"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// TimestampMarker labels the single mutable line each text artifact embeds.
// The consistency verifier strips lines carrying this marker before
// comparison; structured artifacts carry the same value in their
// "generatedAt" field instead.
const TimestampMarker = "Generated at:"

// Params are the fixed generation parameters. Every artifact is a pure
// function of (catalog, creation order, params); GeneratedAt is the one
// value excluded from equality comparisons.
type Params struct {
	// GeneratedAt is the generation timestamp, rendered in UTC RFC 3339.
	GeneratedAt time.Time

	// ToolVersion is the compiler version stamped into artifacts.
	ToolVersion string

	// DistroVersion is the version of the distribution being assembled.
	DistroVersion string

	// ManifestChecksum is the normalized fingerprint of the source
	// manifest, recorded in the metadata and version artifacts.
	ManifestChecksum string

	// CategoryOrder is the explicit display order for documentation
	// categories. Categories not listed follow in ascending name order.
	// Passed as a parameter so output ordering is a declared input, not
	// incidental array-position behavior.
	CategoryOrder []string

	// ProtectedOverrideEnv is the environment variable name referenced in
	// generated startup guidance.
	ProtectedOverrideEnv string
}

// DefaultParams returns generation parameters with the distribution's
// standard category order and override variable.
func DefaultParams() Params {
	return Params{
		GeneratedAt:          time.Now(),
		ToolVersion:          "dev",
		DistroVersion:        "dev",
		CategoryOrder:        DefaultCategoryOrder(),
		ProtectedOverrideEnv: pgxm.ProtectedOverrideEnv,
	}
}

// DefaultCategoryOrder returns the standard documentation category order.
func DefaultCategoryOrder() []string {
	return []string{
		"core",
		"stats",
		"security",
		"search",
		"gis",
		"timeseries",
		"language",
		"connectivity",
		"backup",
		"misc",
	}
}

func (p Params) timestamp() string {
	return p.GeneratedAt.UTC().Format(time.RFC3339)
}

// categoryGroup is one documentation category with its member entries
// sorted by name.
type categoryGroup struct {
	name    string
	entries []*catalog.Entry
}

// groupByCategory splits the catalog into categories ordered by the
// explicit table in params, with unlisted categories appended in ascending
// name order. Entries within a category are sorted by name. Entries with
// no category fall into "misc".
func groupByCategory(cat *catalog.Catalog, p Params) []categoryGroup {
	buckets := make(map[string][]*catalog.Entry)
	for _, name := range cat.Names() {
		entry := cat.Get(name)
		category := entry.Category
		if category == "" {
			category = "misc"
		}
		buckets[category] = append(buckets[category], entry)
	}

	listed := make(map[string]bool, len(p.CategoryOrder))
	var ordered []string
	for _, category := range p.CategoryOrder {
		listed[category] = true
		if _, ok := buckets[category]; ok {
			ordered = append(ordered, category)
		}
	}
	var rest []string
	for category := range buckets {
		if !listed[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	groups := make([]categoryGroup, 0, len(ordered))
	for _, category := range ordered {
		groups = append(groups, categoryGroup{name: category, entries: buckets[category]})
	}
	return groups
}

// sortedDeps returns a sorted copy of an entry's dependency list, so no
// artifact ever reflects raw manifest ordering.
func sortedDeps(entry *catalog.Entry) []string {
	deps := append([]string(nil), entry.DependsOn...)
	sort.Strings(deps)
	return deps
}
