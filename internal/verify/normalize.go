package verify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vvka-141/pgxm/internal/checksum"
	"github.com/vvka-141/pgxm/internal/generate"
)

// timestampSentinel replaces the one mutable field on both sides of every
// comparison, so regeneration time can never register as drift.
const timestampSentinel = "<timestamp>"

// compareArtifact normalizes both sides and reports whether they differ.
// Structured artifacts are parsed and compared as trees with the
// generatedAt field replaced by a sentinel; text artifacts have their
// timestamp-bearing lines replaced in place, keeping line numbers aligned
// with generator line maps.
func compareArtifact(name string, committed, fresh []byte) (Drift, bool, error) {
	var left, right string
	if generate.Structured(name) {
		var err error
		left, err = canonicalJSON(committed)
		if err != nil {
			// A committed artifact that no longer parses is itself drift.
			left = fmt.Sprintf("(unparseable committed artifact: %v)\n%s", err, committed)
		}
		right, err = canonicalJSON(fresh)
		if err != nil {
			return Drift{}, false, fmt.Errorf("generated %s is not valid JSON: %w", name, err)
		}
	} else {
		left = neutralizeTimestamps(string(committed))
		right = neutralizeTimestamps(string(fresh))
	}

	// Cheap equality check before building a diff.
	if checksum.Raw([]byte(left)) == checksum.Raw([]byte(right)) {
		return Drift{}, false, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: "committed/" + name,
		ToFile:   "generated/" + name,
		Context:  3,
	})
	if err != nil {
		return Drift{}, false, err
	}
	return Drift{Artifact: name, Diff: diff}, true, nil
}

// neutralizeTimestamps replaces every line carrying the timestamp marker
// with a sentinel line. The replacement keeps the line count intact so
// diff line numbers still match the generator's line map.
func neutralizeTimestamps(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Contains(line, generate.TimestampMarker) {
			lines[i] = timestampSentinel
		}
	}
	return strings.Join(lines, "\n")
}

// canonicalJSON parses content, replaces every generatedAt field with the
// sentinel, and re-marshals with stable formatting and key order.
func canonicalJSON(content []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return "", err
	}
	tree = maskGeneratedAt(tree)
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func maskGeneratedAt(node interface{}) interface{} {
	switch n := node.(type) {
	case map[string]interface{}:
		for key, value := range n {
			if key == "generatedAt" {
				n[key] = timestampSentinel
				continue
			}
			n[key] = maskGeneratedAt(value)
		}
		return n
	case []interface{}:
		for i, value := range n {
			n[i] = maskGeneratedAt(value)
		}
		return n
	default:
		return node
	}
}

// addedLines extracts the fresh-side line numbers of "+" lines from a
// unified diff, for attribution through a generator line map.
func addedLines(diff string) []int {
	var lines []int
	freshLine := 0
	for _, raw := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(raw, "@@"):
			freshLine = hunkFreshStart(raw)
		case strings.HasPrefix(raw, "+++"), strings.HasPrefix(raw, "---"):
			// file headers
		case strings.HasPrefix(raw, "+"):
			lines = append(lines, freshLine)
			freshLine++
		case strings.HasPrefix(raw, "-"):
			// committed-side only; fresh line number unchanged
		case freshLine > 0:
			freshLine++
		}
	}
	return lines
}

// hunkFreshStart parses the fresh-side start line out of a hunk header of
// the form "@@ -l,s +l,s @@".
func hunkFreshStart(header string) int {
	for _, field := range strings.Fields(header) {
		if !strings.HasPrefix(field, "+") {
			continue
		}
		numeric := strings.TrimPrefix(field, "+")
		if idx := strings.IndexByte(numeric, ','); idx >= 0 {
			numeric = numeric[:idx]
		}
		if n, err := strconv.Atoi(numeric); err == nil {
			return n
		}
	}
	return 0
}
