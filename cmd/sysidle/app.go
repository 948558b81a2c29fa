package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sysidle/sysidle/pkg/config"
	"github.com/sysidle/sysidle/pkg/doctor"
	"github.com/sysidle/sysidle/pkg/idle"
	"github.com/sysidle/sysidle/pkg/interfaces"
	"github.com/sysidle/sysidle/pkg/process"
	"github.com/sysidle/sysidle/pkg/status"
	"github.com/sysidle/sysidle/pkg/watch"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config   *config.Config
	Detector *idle.Detector
	Querier  interfaces.Querier
	Process  interfaces.ProcessWrapper
	stopChan chan struct{}
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		stopChan: make(chan struct{}),
	}

	// Create the idle detector
	deps.Detector = idle.NewDetector()
	if cfg.Backend == config.BackendFallback {
		deps.Detector.UseFallback()
	}
	deps.Querier = deps.Detector

	// Create the process wrapper for wrap mode. Input typed into the
	// wrapped program feeds the fallback backend's activity clock.
	deps.Process = process.NewManager(deps.Detector.Fallback())

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.stopChan != nil {
		select {
		case <-d.stopChan:
			// Already closed
		default:
			close(d.stopChan)
		}
		d.stopChan = nil
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
	stop <-chan struct{}
}

// NewApplication creates a new application with the given dependencies.
// The stop channel is captured here, before any signal handler can
// call Close and nil the field.
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
		stop: deps.stopChan,
	}
}

// QueryOnce prints the current idle time once.
func (a *Application) QueryOnce(w io.Writer) error {
	seconds, err := a.deps.Querier.IdleSeconds()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, formatIdle(seconds, a.deps.Config.Format))
	return nil
}

// Watch polls until Stop or a detection failure, rendering a live
// readout and running any configured transition commands.
func (a *Application) Watch(w io.Writer, tty bool) error {
	line := status.NewLine(w, tty)
	defer func() {
		_ = line.Clear() // Leave the terminal on a fresh line
	}()

	watcher := watch.NewWatcher(a.deps.Config, a.deps.Querier)
	format := a.deps.Config.Format
	watcher.SetSampleHandler(func(seconds float64, idle bool) {
		state := "active"
		if idle {
			state = "idle"
		}
		_ = line.Update(fmt.Sprintf("%s (%s)", formatIdle(seconds, format), state))
	})

	return watcher.Run(a.stop)
}

// Wrap runs command under the PTY wrapper. When transition commands
// are configured a watcher runs alongside the child.
func (a *Application) Wrap(command string, args []string) error {
	if a.deps.Config.OnIdle != "" || a.deps.Config.OnResume != "" {
		watcher := watch.NewWatcher(a.deps.Config, a.deps.Querier)
		go func() {
			if err := watcher.Run(a.stop); err != nil {
				fmt.Fprintf(os.Stderr, "sysidle: %v\n", err)
			}
		}()
	}

	if err := a.deps.Process.Start(command, args); err != nil {
		return err
	}
	return a.deps.Process.Wait()
}

// Doctor writes the environment report to w.
func (a *Application) Doctor(w io.Writer) {
	report := doctor.NewCollector(a.deps.Detector).Collect()
	fmt.Fprint(w, report.Format())
}

// Stop gracefully stops the application
func (a *Application) Stop() error {
	a.deps.Close()
	return a.deps.Process.Stop()
}

// ExitCode returns the exit code of the wrapped process
func (a *Application) ExitCode() int {
	return a.deps.Process.ExitCode()
}

// formatIdle renders seconds of idle time in the configured format.
func formatIdle(seconds float64, format string) string {
	if format == config.FormatDuration {
		d := time.Duration(seconds * float64(time.Second))
		return d.Truncate(time.Second).String()
	}
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
