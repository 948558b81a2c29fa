// Package status renders the live idle readout for watch mode.
package status

import (
	"fmt"
	"io"
	"sync"
)

// Line manages a single updating status line.
//
// On a terminal each Update redraws in place: carriage return, clear
// line, new text. On a pipe or file each update is appended as its own
// line so redirected output stays a readable record.
type Line struct {
	mu      sync.Mutex
	writer  io.Writer
	tty     bool
	visible bool
}

// NewLine creates a status line writing to writer. tty selects the
// in-place redraw mode.
func NewLine(writer io.Writer, tty bool) *Line {
	return &Line{
		writer: writer,
		tty:    tty,
	}
}

// Update replaces the displayed text on terminals and appends it
// elsewhere.
func (l *Line) Update(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer == nil {
		return nil
	}

	if !l.tty {
		_, err := fmt.Fprintln(l.writer, text)
		return err
	}

	// \r returns to column 1, \033[2K clears whatever was there.
	if _, err := fmt.Fprintf(l.writer, "\r\033[2K%s", text); err != nil {
		return err
	}
	l.visible = true
	return nil
}

// Clear erases the current line on terminals. On non-terminals it is a
// no-op, leaving the appended record intact.
func (l *Line) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer == nil || !l.tty || !l.visible {
		return nil
	}

	l.visible = false
	_, err := fmt.Fprint(l.writer, "\r\033[2K")
	return err
}
