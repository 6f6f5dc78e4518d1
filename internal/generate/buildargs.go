package generate

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
)

// BuildArgs renders the flattened key/value list the Docker build wrapper
// consumes: one VERSION variable per enabled entry.
type BuildArgs struct{}

func (BuildArgs) Name() string     { return "build-args" }
func (BuildArgs) Filename() string { return "build.args" }
func (BuildArgs) NeedsOrder() bool { return false }

func (g BuildArgs) Generate(cat *catalog.Catalog, _ []string, p Params) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s -- compiled from the extension manifest, do not edit\n", g.Filename())
	fmt.Fprintf(&b, "# %s %s by pgxm %s\n", TimestampMarker, p.timestamp(), p.ToolVersion)
	b.WriteString("\n")

	for _, name := range cat.EnabledNames() {
		entry := cat.Get(name)
		if entry.Version == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", buildArgKey(name), entry.Version)
	}

	return []byte(b.String()), nil
}

// buildArgKey converts an entry name into a build-argument variable name:
// uppercased, with every non-alphanumeric run collapsed to an underscore,
// suffixed with _VERSION.
func buildArgKey(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_") + "_VERSION"
}
