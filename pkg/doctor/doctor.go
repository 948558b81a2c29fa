// Package doctor collects the environment facts idle detection relies
// on, to answer why a particular backend was or was not chosen.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sysidle/sysidle/pkg/idle"
	"github.com/sysidle/sysidle/pkg/interfaces"
)

// compositorProcesses are process names that identify a running
// display server or Wayland compositor.
var compositorProcesses = []string{
	"sway",
	"Hyprland",
	"wayfire",
	"river",
	"gnome-shell",
	"kwin_wayland",
	"kwin_x11",
	"mutter",
	"weston",
	"Xorg",
	"Xwayland",
}

// detectionTools are the executables the backends shell out to.
var detectionTools = []string{"swayidle", "x11idle", "xprintidle", "dbus-send", "ioreg"}

// Report holds the collected environment facts.
type Report struct {
	GOOS           string
	DesktopSession string
	SessionType    string
	WaylandDisplay string
	Display        string
	Tools          map[string]string

	Login1Reachable bool
	Login1Error     string

	Compositors   []string
	UptimeSeconds uint64

	Backend      string
	BackendError string
}

// Collector gathers a Report. The capability functions mirror the
// detector's so tests can simulate environments.
type Collector struct {
	goos       string
	getenv     func(key string) string
	lookPath   func(file string) (string, error)
	connectBus func() (interfaces.Bus, error)
	processes  func() ([]string, error)
	uptime     func() (uint64, error)
	backend    func() (interfaces.Backend, error)
}

// NewCollector creates a collector reading the real host. The backend
// answer comes from detector, so a collector run performs detection.
func NewCollector(detector *idle.Detector) *Collector {
	return &Collector{
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
		lookPath:   exec.LookPath,
		connectBus: idle.ConnectSystemBus,
		processes:  runningProcessNames,
		uptime:     host.Uptime,
		backend:    detector.Backend,
	}
}

// Collect gathers every report field. It never fails; unavailable
// facts are recorded as such.
func (c *Collector) Collect() *Report {
	r := &Report{
		GOOS:           c.goos,
		DesktopSession: c.getenv("DESKTOP_SESSION"),
		SessionType:    c.getenv("XDG_SESSION_TYPE"),
		WaylandDisplay: c.getenv("WAYLAND_DISPLAY"),
		Display:        c.getenv("DISPLAY"),
		Tools:          make(map[string]string),
	}

	for _, tool := range detectionTools {
		if path, err := c.lookPath(tool); err == nil {
			r.Tools[tool] = path
		}
	}

	c.checkLogin1(r)
	c.checkCompositors(r)

	if uptime, err := c.uptime(); err == nil {
		r.UptimeSeconds = uptime
	}

	if backend, err := c.backend(); err != nil {
		r.BackendError = err.Error()
	} else {
		r.Backend = backend.Name()
	}

	return r
}

// checkLogin1 probes whether a logind or elogind manager is
// activatable on the system bus.
func (c *Collector) checkLogin1(r *Report) {
	bus, err := c.connectBus()
	if err != nil {
		r.Login1Error = err.Error()
		return
	}
	defer func() { _ = bus.Close() }()

	names, err := bus.ActivatableNames()
	if err != nil {
		r.Login1Error = err.Error()
		return
	}
	for _, name := range names {
		if name == "org.freedesktop.login1" {
			r.Login1Reachable = true
			return
		}
	}
	r.Login1Error = "org.freedesktop.login1 not activatable"
}

// checkCompositors records which known compositor processes are
// running.
func (c *Collector) checkCompositors(r *Report) {
	names, err := c.processes()
	if err != nil {
		return
	}
	running := make(map[string]bool, len(names))
	for _, name := range names {
		running[name] = true
	}
	for _, comp := range compositorProcesses {
		if running[comp] {
			r.Compositors = append(r.Compositors, comp)
		}
	}
}

// runningProcessNames lists the names of all running processes.
func runningProcessNames() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Processes exit between listing and inspection.
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Format renders the report as aligned key/value lines.
func (r *Report) Format() string {
	var b strings.Builder

	writeLine := func(key, value string) {
		fmt.Fprintf(&b, "%-16s %s\n", key+":", value)
	}

	writeLine("os", r.GOOS)
	writeLine("desktop session", valueOrUnset(r.DesktopSession))
	writeLine("session type", valueOrUnset(r.SessionType))
	writeLine("wayland display", valueOrUnset(r.WaylandDisplay))
	writeLine("x11 display", valueOrUnset(r.Display))

	for _, tool := range detectionTools {
		path, ok := r.Tools[tool]
		if !ok {
			path = "not found"
		}
		writeLine(tool, path)
	}

	if r.Login1Reachable {
		writeLine("login1", "reachable")
	} else {
		writeLine("login1", "unreachable ("+r.Login1Error+")")
	}

	if len(r.Compositors) > 0 {
		writeLine("compositors", strings.Join(r.Compositors, ", "))
	} else {
		writeLine("compositors", "none detected")
	}

	if r.UptimeSeconds > 0 {
		writeLine("uptime", (time.Duration(r.UptimeSeconds) * time.Second).String())
	}

	if r.Backend != "" {
		writeLine("backend", r.Backend)
	} else {
		writeLine("backend", "none ("+r.BackendError+")")
	}

	return b.String()
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
