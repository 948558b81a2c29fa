package idle

import (
	"fmt"
	"regexp"
	"strconv"
)

// mutterIdleArgs asks the GNOME Mutter idle monitor for the
// milliseconds since the last user input. Going through the dbus-send
// tool keeps this backend working on any session bus without holding
// a native connection; the cost is parsing a textual reply.
var mutterIdleArgs = []string{
	"--print-reply",
	"--dest=org.gnome.Mutter.IdleMonitor",
	"/org/gnome/Mutter/IdleMonitor/Core",
	"org.gnome.Mutter.IdleMonitor.GetIdletime",
}

// mutterReplyRE matches the trailing integer of a dbus-send reply,
// e.g. "   uint64 1234567".
var mutterReplyRE = regexp.MustCompile(`\s(\d+)\s*$`)

// GnomeMutterBackend reads idle time from the Mutter idle monitor,
// the compositor-side counter GNOME keeps on both Wayland and X
// sessions.
type GnomeMutterBackend struct {
	run func(name string, args ...string) ([]byte, error)
}

// NewGnomeMutterBackend creates a Mutter idle backend using run to
// execute dbus-send.
func NewGnomeMutterBackend(run func(name string, args ...string) ([]byte, error)) *GnomeMutterBackend {
	return &GnomeMutterBackend{run: run}
}

// Name identifies this backend in errors and diagnostics.
func (b *GnomeMutterBackend) Name() string { return "gnome-mutter" }

// Poll returns the idle monitor's counter in whole seconds.
func (b *GnomeMutterBackend) Poll() (float64, error) {
	out, err := b.run("dbus-send", mutterIdleArgs...)
	if err != nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  fmt.Sprintf("dbus-send failed: %v", err),
			Output:  capturedOutput(out, err),
		}
	}
	m := mutterReplyRE.FindSubmatch(out)
	if m == nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  "idle monitor not working",
			Output:  string(out),
		}
	}
	ms, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  "idle monitor not working",
			Output:  string(out),
		}
	}
	return float64(ms / 1000), nil
}
