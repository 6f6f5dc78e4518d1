package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode says whether pgxm may run wizards and styled output.
type Mode int

const (
	// ModeNonInteractive keeps output plain: CI jobs, scripts, pipes.
	ModeNonInteractive Mode = iota
	// ModeInteractive allows wizards and cursor-addressed rendering.
	ModeInteractive
)

// DetectMode decides the interaction mode. Environment opt-outs win over
// the terminal check: PGXM_NON_INTERACTIVE=1 is the explicit switch, CI
// and NO_COLOR are the common automation conventions where presence is
// the signal regardless of value. After that, both stdin and stdout must
// be terminals, since wizards read keys and repaint lines.
func DetectMode() Mode {
	if envForcesPlain() {
		return ModeNonInteractive
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether a wizard may take over the terminal.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

func envForcesPlain() bool {
	if os.Getenv("PGXM_NON_INTERACTIVE") == "1" {
		return true
	}
	return os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != ""
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
