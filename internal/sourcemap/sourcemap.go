// Package sourcemap attributes artifact lines back to catalog entries.
//
// The bootstrap generator records which entry produced each line of the
// script. When the consistency verifier finds drift, it resolves the
// mismatched line numbers through the map so the report names the entries
// involved instead of bare line numbers.
package sourcemap

import "sort"

// Span maps a range of artifact lines to the catalog entry that emitted
// them. Lines are 1-based and inclusive on both ends.
type Span struct {
	StartLine int    // First artifact line
	EndLine   int    // Last artifact line
	Entry     string // Catalog entry name, "" for preamble/framing lines
	Note      string // Human-readable description of what the span holds
}

// SourceMap tracks how artifact lines map back to catalog entries.
type SourceMap struct {
	spans []Span
}

// New creates an empty SourceMap.
func New() *SourceMap {
	return &SourceMap{}
}

// Add records a span. Spans are expected to be appended in ascending line
// order as the generator emits them.
func (m *SourceMap) Add(startLine, endLine int, entry, note string) {
	m.spans = append(m.spans, Span{
		StartLine: startLine,
		EndLine:   endLine,
		Entry:     entry,
		Note:      note,
	})
}

// Resolve returns the span covering the given line, if any.
func (m *SourceMap) Resolve(line int) (Span, bool) {
	for _, s := range m.spans {
		if line >= s.StartLine && line <= s.EndLine {
			return s, true
		}
	}
	return Span{}, false
}

// EntriesForLines resolves a set of line numbers to the sorted, unique
// entry names they belong to. Lines covered only by framing spans resolve
// to nothing.
func (m *SourceMap) EntriesForLines(lines []int) []string {
	set := make(map[string]bool)
	for _, line := range lines {
		if s, ok := m.Resolve(line); ok && s.Entry != "" {
			set[s.Entry] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recorded spans.
func (m *SourceMap) Len() int {
	return len(m.spans)
}
