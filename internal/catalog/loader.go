package catalog

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// rawEntry mirrors Entry with a pointer-typed Enabled so that an absent
// field can be distinguished from an explicit false. Enabled defaults to
// true.
type rawEntry struct {
	Name           string       `yaml:"name"`
	Kind           string       `yaml:"kind"`
	Category       string       `yaml:"category"`
	Version        string       `yaml:"version"`
	Description    string       `yaml:"description"`
	Enabled        *bool        `yaml:"enabled"`
	DependsOn      []string     `yaml:"dependsOn"`
	Runtime        RuntimeFlags `yaml:"runtime"`
	DisabledReason string       `yaml:"disabledReason"`
}

type rawCatalog struct {
	GeneratedAt string     `yaml:"generatedAt"`
	Entries     []rawEntry `yaml:"entries"`
}

// Load parses and structurally validates a serialized manifest.
//
// The decode is strict: unknown fields are rejected rather than silently
// ignored, so a typo in the manifest cannot quietly drop an attribute.
// All structural problems are collected and returned together in a single
// *StructuralError; the caller must not proceed to graph resolution while
// any are present.
//
// Load is a pure function of its input and has no side effects.
func Load(data []byte) (*Catalog, error) {
	var raw rawCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, &StructuralError{Problems: decodeProblems(err)}
	}

	var problems []Problem
	if len(raw.Entries) == 0 {
		problems = append(problems, Problem{
			Field:  "entries",
			Reason: "manifest declares no entries",
		})
		sortProblems(problems)
		return nil, &StructuralError{Problems: problems}
	}

	cat := &Catalog{
		GeneratedAt: raw.GeneratedAt,
		Entries:     make([]Entry, 0, len(raw.Entries)),
	}

	seen := make(map[string]bool, len(raw.Entries))
	for i, re := range raw.Entries {
		label := re.Name
		if label == "" {
			label = fmt.Sprintf("(entry %d)", i+1)
		}

		if re.Name == "" {
			problems = append(problems, Problem{
				Entry: label, Field: "name",
				Reason: "name is required",
			})
		} else if seen[re.Name] {
			problems = append(problems, Problem{
				Entry: label, Field: "name",
				Reason: "duplicate name; entry names must be unique",
			})
		}
		seen[re.Name] = true

		kind := Kind(re.Kind)
		switch {
		case re.Kind == "":
			problems = append(problems, Problem{
				Entry: label, Field: "kind",
				Reason: "kind is required (builtin, extension, or tool)",
			})
		case !kind.IsValid():
			problems = append(problems, Problem{
				Entry: label, Field: "kind",
				Reason: fmt.Sprintf("unknown kind %q (expected builtin, extension, or tool)", re.Kind),
			})
		}

		enabled := true
		if re.Enabled != nil {
			enabled = *re.Enabled
		}
		if !enabled && re.DisabledReason == "" {
			problems = append(problems, Problem{
				Entry: label, Field: "disabledReason",
				Reason: "disabledReason is required when enabled is false",
			})
		}
		if enabled && re.DisabledReason != "" {
			problems = append(problems, Problem{
				Entry: label, Field: "disabledReason",
				Reason: "disabledReason is only meaningful when enabled is false",
			})
		}

		depSeen := make(map[string]bool, len(re.DependsOn))
		for _, dep := range re.DependsOn {
			if dep == "" {
				problems = append(problems, Problem{
					Entry: label, Field: "dependsOn",
					Reason: "dependency name cannot be empty",
				})
				continue
			}
			if depSeen[dep] {
				problems = append(problems, Problem{
					Entry: label, Field: "dependsOn",
					Reason: fmt.Sprintf("duplicate dependency %q", dep),
				})
			}
			depSeen[dep] = true
		}

		cat.Entries = append(cat.Entries, Entry{
			Name:           re.Name,
			Kind:           kind,
			Category:       re.Category,
			Version:        re.Version,
			Description:    re.Description,
			Enabled:        enabled,
			DependsOn:      re.DependsOn,
			Runtime:        re.Runtime,
			DisabledReason: re.DisabledReason,
		})
	}

	// Dangling references are checked for every entry, enabled or not:
	// disabled entries remain buildable and testable, so their declared
	// dependencies must still resolve.
	for _, e := range cat.Entries {
		reported := make(map[string]bool, len(e.DependsOn))
		for _, dep := range e.DependsOn {
			if dep == "" || reported[dep] {
				continue
			}
			reported[dep] = true
			if !seen[dep] {
				problems = append(problems, Problem{
					Entry: e.Name, Field: "dependsOn",
					Reason: fmt.Sprintf("depends on %q, which is not declared in the manifest", dep),
				})
			}
		}
	}

	if len(problems) > 0 {
		sortProblems(problems)
		return nil, &StructuralError{Problems: problems}
	}

	cat.reindex()
	return cat, nil
}

// decodeProblems converts a yaml decode error into document-level problems.
// yaml.TypeError carries one message per offending node, so strict-decode
// violations still surface individually.
func decodeProblems(err error) []Problem {
	if typeErr, ok := err.(*yaml.TypeError); ok {
		problems := make([]Problem, 0, len(typeErr.Errors))
		for _, msg := range typeErr.Errors {
			problems = append(problems, Problem{Field: "document", Reason: msg})
		}
		return problems
	}
	return []Problem{{Field: "document", Reason: err.Error()}}
}
