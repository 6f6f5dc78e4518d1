package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/pgxm/internal/cli"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

func main() {
	// A panic anywhere below must still leave a stack trace on stderr and
	// a distinct exit code, so callers can tell a crash from a diagnostic.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgxm.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(pgxm.ExitCodeForError(err))
	}
}
