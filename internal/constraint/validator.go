// Package constraint enforces the invariants that span multiple catalog
// entries and that no single generated artifact encodes on its own:
// disablement safety, the protected core set, and soft conflict pairs.
package constraint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// Config carries the injectable rule tables. Both the protected set and the
// conflict pairs are configuration values, not language-level constants, so
// the validator can be tested against arbitrary tables.
type Config struct {
	// Protected names entries that may never be disabled: the runtime
	// auto-configuration bakes them into its preload defaults.
	Protected []string

	// Conflicts lists pairs that are mutually exclusive by convention.
	// Both being enabled produces a warning, never an error; the runtime
	// tolerates coexistence.
	Conflicts [][2]string
}

// DefaultConfig returns the rule tables shipped with the distribution.
func DefaultConfig() Config {
	return Config{
		Protected: []string{
			"auto_explain",
			"pg_stat_statements",
			"pgaudit",
		},
		Conflicts: [][2]string{
			{"pg_stat_monitor", "pg_stat_statements"},
		},
	}
}

// Violation is one constraint finding. Entries lists every entry involved,
// sorted, so messages are deterministic.
type Violation struct {
	Rule    string   `json:"rule"`
	Entries []string `json:"entries"`
	Message string   `json:"message"`
}

// Report collects all findings of a validation run. Rules never
// short-circuit: a single run reports everything that needs fixing.
type Report struct {
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
}

// OK reports whether generation may proceed. Warnings never block.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err returns a *ConstraintError when the report contains errors, nil
// otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ConstraintError{Report: *r}
}

// ConstraintError is the fatal form of a report with errors.
type ConstraintError struct {
	Report Report
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d constraint violation(s):\n", len(e.Report.Errors))
	for i, v := range e.Report.Errors {
		fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, v.Rule, v.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Unwrap lets errors.Is(err, pgxm.ErrConstraint) classify this error.
func (e *ConstraintError) Unwrap() error {
	return pgxm.ErrConstraint
}

// Rule names as they appear in reports and JSON output.
const (
	RuleDisablementSafety = "disablement-safety"
	RuleProtectedSet      = "protected-set"
	RuleSoftConflict      = "soft-conflict"
)

// Validate checks every cross-entry rule against a structurally valid
// catalog. The creation order is accepted for future rules that depend on
// position; the current rules are position-independent.
func Validate(cat *catalog.Catalog, order []string, cfg Config) *Report {
	_ = order
	report := &Report{}

	checkDisablementSafety(cat, report)
	checkProtectedSet(cat, cfg, report)
	checkSoftConflicts(cat, cfg, report)

	sortViolations(report.Errors)
	sortViolations(report.Warnings)
	return report
}

// checkDisablementSafety rejects any disabled entry that an enabled entry
// still depends on. The violation names the disabled entry and every
// enabled dependent.
func checkDisablementSafety(cat *catalog.Catalog, report *Report) {
	dependents := make(map[string][]string)
	for _, e := range cat.Entries {
		if !e.Enabled {
			continue
		}
		for _, dep := range e.DependsOn {
			target := cat.Get(dep)
			if target != nil && !target.Enabled {
				dependents[dep] = append(dependents[dep], e.Name)
			}
		}
	}

	disabled := make([]string, 0, len(dependents))
	for name := range dependents {
		disabled = append(disabled, name)
	}
	sort.Strings(disabled)

	for _, name := range disabled {
		users := dependents[name]
		sort.Strings(users)
		report.Errors = append(report.Errors, Violation{
			Rule:    RuleDisablementSafety,
			Entries: append([]string{name}, users...),
			Message: fmt.Sprintf(
				"%q is disabled but still required by enabled entr%s %s; re-enable it or disable the dependents",
				name, plural(len(users), "y", "ies"), quoteJoin(users)),
		})
	}
}

// checkProtectedSet rejects disabled entries from the protected set. The
// message explains the supported override path rather than simply refusing.
func checkProtectedSet(cat *catalog.Catalog, cfg Config, report *Report) {
	protected := append([]string(nil), cfg.Protected...)
	sort.Strings(protected)

	for _, name := range protected {
		entry := cat.Get(name)
		if entry == nil || entry.Enabled {
			continue
		}
		report.Errors = append(report.Errors, Violation{
			Rule:    RuleProtectedSet,
			Entries: []string{name},
			Message: fmt.Sprintf(
				"%q belongs to the protected core set and cannot be disabled in the manifest; "+
					"the runtime auto-configuration depends on it at startup. "+
					"To run without it, set %s=%s in the container environment instead",
				name, pgxm.ProtectedOverrideEnv, name),
		})
	}
}

// checkSoftConflicts warns when both members of a conflict pair are enabled
// with defaultEnable set. Informational only: it must never block
// generation.
func checkSoftConflicts(cat *catalog.Catalog, cfg Config, report *Report) {
	for _, pair := range cfg.Conflicts {
		a, b := cat.Get(pair[0]), cat.Get(pair[1])
		if a == nil || b == nil {
			continue
		}
		if !a.Enabled || !b.Enabled {
			continue
		}
		if !a.Runtime.DefaultEnable && !b.Runtime.DefaultEnable {
			continue
		}
		names := []string{pair[0], pair[1]}
		sort.Strings(names)
		report.Warnings = append(report.Warnings, Violation{
			Rule:    RuleSoftConflict,
			Entries: names,
			Message: fmt.Sprintf(
				"%q and %q are both enabled but are mutually exclusive by convention; "+
					"the runtime tolerates coexistence, but consider disabling one",
				names[0], names[1]),
		})
	}
}

func sortViolations(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Rule != violations[j].Rule {
			return violations[i].Rule < violations[j].Rule
		}
		return strings.Join(violations[i].Entries, ",") < strings.Join(violations[j].Entries, ",")
	})
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}
