// Package terminal provides terminal detection utilities.
package terminal

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnvNoColor disables colored output when set to any non-empty value.
const EnvNoColor = "NO_COLOR"

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminalWriter reports whether w is a file attached to a terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether colored output should be written to w.
// disabled carries an explicit --no-color request.
func ColorEnabled(disabled bool, w io.Writer) bool {
	if disabled || strings.TrimSpace(os.Getenv(EnvNoColor)) != "" {
		return false
	}
	return IsTerminalWriter(w)
}
