package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is attached to a terminal. Anything exposing an
// Fd() method (os.File included) is probed; other writers are never TTYs.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI escapes should be written to w.
// Color is off for non-terminals, when NO_COLOR is set (https://no-color.org),
// and when TERM=dumb.
func SupportsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTTY(w)
}
