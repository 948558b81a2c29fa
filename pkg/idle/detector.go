package idle

import (
	"math"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sysidle/sysidle/pkg/interfaces"
)

// Detector selects the idle backend for this environment and answers
// idle queries through it. Selection runs at most once per Detector:
// the first query walks the checks below in order, and the outcome,
// backend or failure, is kept for the Detector's lifetime.
//
//  1. macOS always uses the HID system.
//  2. A desktop session other than X-on-xorg routes GNOME and Ubuntu
//     sessions to the Mutter idle monitor and Plasma sessions to a
//     swayidle helper.
//  3. A logind or elogind manager reachable on the system bus serves
//     any session it can resolve for this process.
//  4. X11 idle tools are consulted last: under XWayland the DISPLAY
//     variable is set even though the X idle counter never advances,
//     so every Wayland-capable route must win over this one.
//
// A Detector is not safe for concurrent use.
type Detector struct {
	goos       string
	getenv     func(key string) string
	lookPath   func(file string) (string, error)
	run        func(name string, args ...string) ([]byte, error)
	connectBus func() (interfaces.Bus, error)
	now        func() time.Time
	pid        int

	backend  interfaces.Backend
	err      error
	detected bool
	fallback *FallbackBackend
}

// NewDetector creates a detector wired to the real environment.
func NewDetector() *Detector {
	return &Detector{
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
		lookPath:   exec.LookPath,
		run:        runCommand,
		connectBus: ConnectSystemBus,
		now:        time.Now,
		pid:        os.Getpid(),
	}
}

// Backend returns the selected backend, running detection on the
// first call. Both a selected backend and a detection failure are
// remembered; detection is never re-run.
func (d *Detector) Backend() (interfaces.Backend, error) {
	if !d.detected {
		d.backend, d.err = d.detect()
		d.detected = true
	}
	return d.backend, d.err
}

// UseFallback selects the fallback backend instead of detecting one,
// for callers that want the host-focus clock regardless of
// environment. It must be called before the first query; once
// detection has run it does nothing.
func (d *Detector) UseFallback() {
	if d.detected {
		return
	}
	d.backend = d.Fallback()
	d.detected = true
}

// Fallback returns the detector's fallback backend, creating it if
// needed, so hosts can record activity into it whether or not it is
// the selected backend.
func (d *Detector) Fallback() *FallbackBackend {
	if d.fallback == nil {
		d.fallback = NewFallbackBackend()
	}
	return d.fallback
}

// IdleSeconds returns the machine's current idle time in seconds.
// This is the one call most users need: it selects a backend if none
// is selected yet, polls it, and validates the result.
func (d *Detector) IdleSeconds() (float64, error) {
	backend, err := d.Backend()
	if err != nil {
		return 0, err
	}
	idle, err := backend.Poll()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(idle) || math.IsInf(idle, 0) {
		return 0, &BackendError{Backend: backend.Name(), Reason: "did not return a number"}
	}
	return idle, nil
}

// detect walks the platform checks in order and builds the first
// backend that applies.
func (d *Detector) detect() (interfaces.Backend, error) {
	if d.goos == "darwin" {
		return NewMacBackend(d.run), nil
	}

	session := strings.ToLower(d.getenv("DESKTOP_SESSION"))
	if session != "" && !strings.Contains(session, "xorg") {
		switch {
		case strings.Contains(session, "gnome") || strings.Contains(session, "ubuntu"):
			return NewGnomeMutterBackend(d.run), nil
		case strings.Contains(session, "plasma"):
			path, err := d.lookPath("swayidle")
			if err != nil {
				return nil, &DetectionError{Reason: "running under " + session + " without swayidle; install swayidle"}
			}
			return NewSwayIdleBackend(path), nil
		}
	}

	if backend := d.detectLogind(); backend != nil {
		return backend, nil
	}

	if d.getenv("DISPLAY") != "" {
		for _, tool := range []string{"x11idle", "xprintidle"} {
			if path, err := d.lookPath(tool); err == nil {
				return NewX11Backend(path, d.run), nil
			}
		}
		return nil, &DetectionError{Reason: "an X display but no idle tool; install x11idle or xprintidle"}
	}

	return nil, &DetectionError{Reason: "could not determine idle backend for this environment"}
}

// detectLogind looks for a logind or elogind manager on the system
// bus and resolves this process's session. Every failure returns nil
// so detection can move on; an unreachable bus is normal on
// non-systemd machines.
func (d *Detector) detectLogind() interfaces.Backend {
	bus, err := d.connectBus()
	if err != nil {
		return nil
	}
	names, err := bus.ActivatableNames()
	if err != nil || !containsName(names, login1Dest) {
		_ = bus.Close()
		return nil
	}
	reply, err := bus.Call(login1Dest, login1Path, login1Manager+".GetSessionByPID", uint32(d.pid))
	if err != nil {
		_ = bus.Close()
		return nil
	}
	sessionPath, ok := reply.(string)
	if !ok || sessionPath == "" {
		_ = bus.Close()
		return nil
	}
	return NewElogindBackend(bus, sessionPath, d.now)
}

func containsName(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}
