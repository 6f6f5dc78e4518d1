package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/vvka-141/pgxm/internal/constraint"
)

var (
	successText = color.New(color.FgGreen)
	warnText    = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
)

// printSuccess writes a check-marked status line to stderr.
func printSuccess(format string, args ...interface{}) {
	successText.Fprintf(os.Stderr, "✓ "+format+"\n", args...)
}

// printFailure writes a cross-marked status line to stderr.
func printFailure(format string, args ...interface{}) {
	errorText.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// printJSON writes v to stdout as indented JSON, for pipeline consumption.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printReport renders validator findings to stderr, warnings in yellow and
// errors in red.
func printReport(report *constraint.Report) {
	if report == nil {
		return
	}
	for _, w := range report.Warnings {
		warnText.Fprintf(os.Stderr, "warning [%s]: %s\n", w.Rule, w.Message)
	}
	for _, e := range report.Errors {
		errorText.Fprintf(os.Stderr, "error [%s]: %s\n", e.Rule, e.Message)
	}
}

// summaryLine condenses an analysis result for humans.
func summaryLine(total, enabled, ordered int) string {
	return fmt.Sprintf("%d entries (%d enabled), creation order of %d", total, enabled, ordered)
}
