package idle

import (
	"bytes"
	"strconv"
	"strings"
)

// MacBackend reads idle time from the macOS HID system. ioreg prints
// a registry dump containing a HIDIdleTime field in nanoseconds.
//
// The backend is deliberately lenient: a missing ioreg, a dump
// without the field, or an unparsable value all report 0 rather than
// an error, matching the numeric-coercion behavior callers have
// historically relied on.
type MacBackend struct {
	run func(name string, args ...string) ([]byte, error)
}

// NewMacBackend creates a macOS idle backend using run to execute
// ioreg.
func NewMacBackend(run func(name string, args ...string) ([]byte, error)) *MacBackend {
	return &MacBackend{run: run}
}

// Name identifies this backend in errors and diagnostics.
func (b *MacBackend) Name() string { return "mac" }

// Poll returns the seconds since the last HID input event, or 0 when
// the value cannot be obtained.
func (b *MacBackend) Poll() (float64, error) {
	output, err := b.run("ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, nil
	}
	return parseHIDIdleTime(output), nil
}

// parseHIDIdleTime extracts the HIDIdleTime value (nanoseconds) from
// an ioreg registry dump and converts it to seconds. Unparsable input
// yields 0.
func parseHIDIdleTime(output []byte) float64 {
	for _, line := range bytes.Split(output, []byte("\n")) {
		lineStr := string(bytes.TrimSpace(line))
		if !strings.Contains(lineStr, "HIDIdleTime") {
			continue
		}
		// Format: "HIDIdleTime" = 123456789
		parts := strings.Split(lineStr, "=")
		if len(parts) != 2 {
			continue
		}
		valueStr := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		nanos, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return 0
		}
		return nanos / 1e9
	}
	return 0
}
