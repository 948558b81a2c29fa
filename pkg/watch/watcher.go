// Package watch polls an idle time source and triggers commands when
// the machine crosses an idleness threshold.
package watch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/sysidle/sysidle/pkg/config"
	"github.com/sysidle/sysidle/pkg/idle"
	"github.com/sysidle/sysidle/pkg/interfaces"
)

// Watcher samples idle time on an interval and runs the configured
// commands on state transitions. Transitions are edge-triggered: one
// on-idle command per idle period, one on-resume when input returns.
type Watcher struct {
	config  *config.Config
	querier interfaces.Querier

	runCommand func(command string) error
	errWriter  io.Writer

	mu       sync.Mutex
	onSample func(seconds float64, idle bool)
	idle     bool
	lastErr  string
}

// NewWatcher creates a watcher that polls querier as configured by cfg.
func NewWatcher(cfg *config.Config, querier interfaces.Querier) *Watcher {
	return &Watcher{
		config:     cfg,
		querier:    querier,
		runCommand: runShellCommand,
		errWriter:  os.Stderr,
	}
}

// SetSampleHandler registers a hook invoked after every successful
// sample, for display.
func (w *Watcher) SetSampleHandler(fn func(seconds float64, idle bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onSample = fn
}

// Idle reports whether the last sample was at or past the threshold.
func (w *Watcher) Idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.idle
}

// Run samples once immediately and then on every interval tick until
// stopChan closes. A detection failure aborts the loop; backend
// failures are reported and polling continues.
func (w *Watcher) Run(stopChan <-chan struct{}) error {
	if err := w.poll(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.poll(); err != nil {
				return err
			}
		case <-stopChan:
			return nil
		}
	}
}

func (w *Watcher) poll() error {
	seconds, err := w.querier.IdleSeconds()
	if err != nil {
		var detectionErr *idle.DetectionError
		if errors.As(err, &detectionErr) {
			return err
		}
		w.reportError(err)
		return nil
	}

	if os.Getenv("SYSIDLE_DEBUG") == "true" {
		fmt.Fprintf(os.Stderr, "sysidle: sample %.1fs (threshold %s)\n", seconds, w.config.Threshold)
	}

	w.mu.Lock()
	w.lastErr = ""
	wasIdle := w.idle
	isIdle := seconds >= w.config.Threshold.Seconds()
	w.idle = isIdle
	onSample := w.onSample
	w.mu.Unlock()

	if onSample != nil {
		onSample(seconds, isIdle)
	}

	switch {
	case isIdle && !wasIdle:
		w.runTransition(w.config.OnIdle)
	case !isIdle && wasIdle:
		w.runTransition(w.config.OnResume)
	}

	return nil
}

// reportError logs a backend failure. Consecutive identical failures
// are reported once.
func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg := err.Error()
	if msg == w.lastErr {
		return
	}
	w.lastErr = msg
	fmt.Fprintf(w.errWriter, "sysidle: %v\n", err)
}

func (w *Watcher) runTransition(command string) {
	if command == "" {
		return
	}
	if err := w.runCommand(command); err != nil {
		fmt.Fprintf(w.errWriter, "sysidle: command failed: %v\n", err)
	}
}

// runShellCommand runs a transition command through the shell so
// configured commands can use pipes and quoting.
func runShellCommand(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
