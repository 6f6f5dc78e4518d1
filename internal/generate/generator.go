// Package generate derives concrete artifacts from a validated catalog.
//
// Each generator is a pure, independently invokable transformation: it
// reads the catalog (and, where load order matters, the creation order) and
// returns bytes. Generators never read each other's output, which is what
// allows the pipeline to run them concurrently within a phase. Every
// artifact embeds exactly one mutable field, the generation timestamp,
// clearly delimited so the consistency verifier can strip it.
package generate

import (
	"github.com/vvka-141/pgxm/internal/catalog"
)

// Generator produces one named artifact.
type Generator interface {
	// Name is the stable artifact identifier used in logs and reports.
	Name() string

	// Filename is the artifact's file name inside the output directory.
	Filename() string

	// NeedsOrder reports whether the generator consumes the creation
	// order in addition to the catalog. The pipeline groups generators
	// into phases by this input set.
	NeedsOrder() bool

	// Generate renders the artifact. Pure: same inputs, same bytes.
	Generate(cat *catalog.Catalog, order []string, p Params) ([]byte, error)
}

// All returns every generator in a fixed, deterministic sequence.
func All() []Generator {
	return []Generator{
		BuildArgs{},
		DocsJSON{},
		DocsMarkdown{},
		VersionText{},
		VersionJSON{},
		Bootstrap{},
		Metadata{},
	}
}

// Structured reports whether an artifact file is compared as a parsed tree
// (JSON) rather than line-by-line text.
func Structured(filename string) bool {
	n := len(filename)
	return n > 5 && filename[n-5:] == ".json"
}
