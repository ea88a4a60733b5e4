package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isInteractive reports whether stdin is a terminal a human can answer from.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// errNotConfirmed is returned when the user declines or cannot be asked.
var errNotConfirmed = &ExitError{Code: ExitFailure, Message: "dibatalkan"}

// confirm asks a yes/no question. Anything but y/ya/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "ya", "yes":
		return true
	}
	return false
}
