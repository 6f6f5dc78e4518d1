package generate

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/sourcemap"
)

// Bootstrap renders the SQL script executed at container first start. It
// creates every enabled extension in dependency-safe order; the order is
// the resolver's CreationOrder, never manifest position.
type Bootstrap struct{}

func (Bootstrap) Name() string     { return "sql-script" }
func (Bootstrap) Filename() string { return "bootstrap.sql" }
func (Bootstrap) NeedsOrder() bool { return true }

func (g Bootstrap) Generate(cat *catalog.Catalog, order []string, p Params) ([]byte, error) {
	script, _, err := BootstrapWithMap(cat, order, p)
	return script, err
}

// BootstrapWithMap renders the script together with a line map attributing
// each line to the catalog entry that produced it. The verifier uses the
// map to name entries in drift reports.
func BootstrapWithMap(cat *catalog.Catalog, order []string, p Params) ([]byte, *sourcemap.SourceMap, error) {
	w := newScriptWriter()

	w.comment("", "%s -- compiled from the extension manifest, do not edit", Bootstrap{}.Filename())
	w.comment("", "%s %s by pgxm %s", TimestampMarker, p.timestamp(), p.ToolVersion)
	w.comment("", "")
	w.comment("", "Creates every enabled extension in dependency-safe order.")

	if preload := preloadNames(cat); len(preload) > 0 {
		w.comment("", "The server must already carry these in shared_preload_libraries:")
		w.comment("", "  %s", strings.Join(preload, ", "))
	}
	w.comment("", "Protected modules can be skipped at startup via %s=<name>;", p.ProtectedOverrideEnv)
	w.comment("", "this script itself never reads the environment.")
	w.blank()
	w.line("", "directive", `\set ON_ERROR_STOP on`)
	w.blank()

	for _, name := range order {
		entry := cat.Get(name)
		if entry == nil {
			return nil, nil, fmt.Errorf("creation order references unknown entry %q", name)
		}
		switch {
		case entry.Kind == catalog.KindTool:
			// Tools have no creation step.
		case entry.Runtime.PreloadOnly:
			w.comment(name, "%s %s: preload-only module, nothing to create", entry.Name, entry.Version)
			w.blank()
		default:
			w.comment(name, "%s %s (%s)", entry.Name, entry.Version, displayCategory(entry))
			if len(entry.DependsOn) > 0 {
				w.comment(name, "requires: %s", strings.Join(sortedDeps(entry), ", "))
			}
			w.line(name, "create extension", `CREATE EXTENSION IF NOT EXISTS "%s";`, entry.Name)
			w.blank()
		}
	}

	return w.bytes(), w.sourceMap, nil
}

// preloadNames returns the sorted names of enabled entries that must be in
// shared_preload_libraries.
func preloadNames(cat *catalog.Catalog) []string {
	var names []string
	for _, name := range cat.EnabledNames() {
		if cat.Get(name).Runtime.SharedPreload {
			names = append(names, name)
		}
	}
	return names
}

func displayCategory(entry *catalog.Entry) string {
	if entry.Category == "" {
		return "misc"
	}
	return entry.Category
}

// scriptWriter accumulates script lines while recording a line map.
type scriptWriter struct {
	lines     []string
	sourceMap *sourcemap.SourceMap
}

func newScriptWriter() *scriptWriter {
	return &scriptWriter{sourceMap: sourcemap.New()}
}

func (w *scriptWriter) line(entry, note, format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
	n := len(w.lines)
	w.sourceMap.Add(n, n, entry, note)
}

func (w *scriptWriter) comment(entry, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if text == "" {
		w.line(entry, "comment", "--")
		return
	}
	w.line(entry, "comment", "-- %s", text)
}

func (w *scriptWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *scriptWriter) bytes() []byte {
	return []byte(strings.Join(w.lines, "\n") + "\n")
}
