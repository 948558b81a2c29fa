package main

import "golang.org/x/term"

// isatty reports whether fd is attached to a terminal.
func isatty(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
