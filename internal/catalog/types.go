// Package catalog defines the extension manifest data model and its loader.
//
// The catalog is the single source of truth for the distribution: every
// generated artifact (build arguments, bootstrap SQL, documentation,
// metadata) is a pure function of the catalog. Nothing downstream is ever
// edited by hand.
package catalog

import (
	"sort"
)

// Kind classifies how an entry materializes in the target system.
type Kind string

const (
	// KindBuiltin is a contrib module shipped with the PostgreSQL server.
	// Needs a creation step at first start.
	KindBuiltin Kind = "builtin"

	// KindExtension is a third-party extension compiled into the image.
	// Needs a creation step at first start.
	KindExtension Kind = "extension"

	// KindTool is a companion binary or script. Tracked and versioned, but
	// never created inside a database.
	KindTool Kind = "tool"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindBuiltin, KindExtension, KindTool:
		return true
	}
	return false
}

// NeedsCreation reports whether entries of this kind require a
// CREATE EXTENSION step in the bootstrap script.
func (k Kind) NeedsCreation() bool {
	return k == KindBuiltin || k == KindExtension
}

// RuntimeFlags are orthogonal attributes consumed by different generators.
type RuntimeFlags struct {
	// SharedPreload marks modules that must be listed in
	// shared_preload_libraries before the server starts.
	SharedPreload bool `yaml:"sharedPreload"`

	// DefaultEnable marks entries created in the default database at first
	// start, as opposed to being merely available via CREATE EXTENSION.
	DefaultEnable bool `yaml:"defaultEnable"`

	// PreloadOnly marks modules that exist only as preload libraries and
	// have no extension object to create (e.g. auto_explain).
	PreloadOnly bool `yaml:"preloadOnly"`
}

// Entry describes one extension, builtin module, or companion tool.
type Entry struct {
	// Name is the unique identifier. Immutable once published: build args,
	// docs anchors, and the bootstrap script all key off it.
	Name string `yaml:"name"`

	// Kind is one of builtin, extension, or tool.
	Kind Kind `yaml:"kind"`

	// Category is a grouping tag used only by the documentation generators.
	Category string `yaml:"category"`

	// Version is the pinned upstream version, flattened into build args.
	Version string `yaml:"version"`

	// Description is a one-line summary for documentation output.
	Description string `yaml:"description,omitempty"`

	// Enabled controls whether the entry participates in runtime artifacts.
	// Disabled entries remain in the catalog and are still graph-validated,
	// since they stay buildable and testable even when excluded.
	Enabled bool `yaml:"enabled"`

	// DependsOn lists names of entries that must exist before this one.
	DependsOn []string `yaml:"dependsOn,omitempty"`

	// Runtime carries the runtime flags consumed by generators.
	Runtime RuntimeFlags `yaml:"runtime"`

	// DisabledReason explains why an entry is disabled. Required whenever
	// Enabled is false; surfaced verbatim in documentation.
	DisabledReason string `yaml:"disabledReason,omitempty"`

	// Protected is derived, never authored: true for entries whose
	// disablement would break the runtime auto-configuration. Set by
	// MarkProtected from the injectable protected set.
	Protected bool `yaml:"-"`
}

// Catalog is the full ordered collection of entries plus its generation
// timestamp. GeneratedAt is free-form and excluded from all equality
// comparisons.
type Catalog struct {
	GeneratedAt string  `yaml:"generatedAt,omitempty"`
	Entries     []Entry `yaml:"entries"`

	byName map[string]*Entry
}

// Get returns the entry with the given name, or nil if absent.
func (c *Catalog) Get(name string) *Entry {
	if c.byName == nil {
		c.reindex()
	}
	return c.byName[name]
}

// Names returns all entry names in ascending order. The raw entry order in
// the manifest is never significant; every consumer iterates in a canonical
// order so that reordering the source array cannot change any output.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Entries))
	for i := range c.Entries {
		names = append(names, c.Entries[i].Name)
	}
	sort.Strings(names)
	return names
}

// EnabledNames returns the names of all enabled entries in ascending order.
func (c *Catalog) EnabledNames() []string {
	names := make([]string, 0, len(c.Entries))
	for i := range c.Entries {
		if c.Entries[i].Enabled {
			names = append(names, c.Entries[i].Name)
		}
	}
	sort.Strings(names)
	return names
}

// MarkProtected flags every entry whose name appears in the protected set.
// The set is injected configuration, not a language-level constant, so the
// validator can be exercised against arbitrary sets in tests.
func (c *Catalog) MarkProtected(protected []string) {
	set := make(map[string]bool, len(protected))
	for _, name := range protected {
		set[name] = true
	}
	for i := range c.Entries {
		c.Entries[i].Protected = set[c.Entries[i].Name]
	}
	c.reindex()
}

func (c *Catalog) reindex() {
	c.byName = make(map[string]*Entry, len(c.Entries))
	for i := range c.Entries {
		c.byName[c.Entries[i].Name] = &c.Entries[i]
	}
}
