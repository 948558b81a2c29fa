package idle

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// X11Backend queries an external idle tool (x11idle or xprintidle,
// whichever detection found on PATH). Both print the X server's idle
// time to stdout as a bare number of milliseconds.
type X11Backend struct {
	toolPath string
	run      func(name string, args ...string) ([]byte, error)
}

// NewX11Backend creates an X11 idle backend around the tool at
// toolPath. The path is resolved once, during detection, and reused
// for every poll.
func NewX11Backend(toolPath string, run func(name string, args ...string) ([]byte, error)) *X11Backend {
	return &X11Backend{toolPath: toolPath, run: run}
}

// Name identifies this backend in errors and diagnostics.
func (b *X11Backend) Name() string { return "x11" }

// Poll runs the idle tool and converts its milliseconds to whole
// seconds. A tool that fails or prints anything but an integer is an
// error, never a silent 0.
func (b *X11Backend) Poll() (float64, error) {
	tool := filepath.Base(b.toolPath)
	out, err := b.run(b.toolPath)
	if err != nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  fmt.Sprintf("%s failed: %v", tool, err),
			Output:  capturedOutput(out, err),
		}
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  fmt.Sprintf("%s did not print milliseconds", tool),
			Output:  string(out),
		}
	}
	return float64(ms / 1000), nil
}
