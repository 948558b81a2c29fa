package process

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sysidle/sysidle/pkg/interfaces"
)

// wrappedEnv marks processes already running under a sysidle wrap so
// nested invocations refuse to wrap again.
const wrappedEnv = "SYSIDLE_WRAPPED"

// Manager runs a child process under a PTY and feeds everything the
// user types to an input handler on the way through.
type Manager struct {
	pty          PTY
	inputHandler interfaces.InputHandler
	exitCode     int
	mu           sync.Mutex
	sigChan      chan os.Signal
	done         chan struct{}
}

// NewManager creates a new process manager
func NewManager(inputHandler interfaces.InputHandler) *Manager {
	return &Manager{
		pty:          NewPTYManager(),
		inputHandler: inputHandler,
		done:         make(chan struct{}),
	}
}

// Start starts the wrapped process
func (m *Manager) Start(command string, args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check for self-wrap
	if os.Getenv(wrappedEnv) == "1" {
		return fmt.Errorf("already running under sysidle")
	}

	// Set environment to prevent self-wrap
	env := append(os.Environ(), wrappedEnv+"=1")

	// Start the process with PTY
	if err := m.pty.Start(command, args, env); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	// Start I/O copying with input handling
	go func() {
		var handler func([]byte)
		if m.inputHandler != nil {
			handler = m.inputHandler.HandleInput
		}
		if err := m.pty.CopyIO(os.Stdin, os.Stdout, handler); err != nil {
			fmt.Fprintf(os.Stderr, "sysidle: I/O error: %v\n", err)
		}
	}()

	// Setup signal forwarding
	m.setupSignalForwarding()

	return nil
}

// Wait waits for the process to exit
func (m *Manager) Wait() error {
	if m.pty == nil {
		return fmt.Errorf("process not started")
	}

	err := m.pty.Wait()

	m.mu.Lock()
	if m.pty.ProcessState() != nil {
		m.exitCode = m.pty.ProcessState().ExitCode()
	}
	m.mu.Unlock()

	// Ensure terminal is restored
	_ = m.pty.Stop()

	// Signal that we're done
	close(m.done)

	// Cleanup signal handling
	m.cleanupSignals()

	return err
}

// ExitCode returns the exit code of the process
func (m *Manager) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// setupSignalForwarding sets up signal forwarding to the child process
func (m *Manager) setupSignalForwarding() {
	m.sigChan = make(chan os.Signal, 1)
	signal.Notify(m.sigChan,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	go m.forwardSignals()
}

// forwardSignals forwards signals to the child process
func (m *Manager) forwardSignals() {
	for {
		select {
		case sig := <-m.sigChan:
			if m.pty != nil && m.pty.Process() != nil {
				// Forward the signal to the child process
				if err := m.pty.Process().Signal(sig); err != nil {
					// Process might have already exited, but log it
					if err != os.ErrProcessDone {
						fmt.Fprintf(os.Stderr, "sysidle: signal forward error: %v\n", err)
					}
				}
			}
		case <-m.done:
			return
		}
	}
}

// cleanupSignals stops signal forwarding
func (m *Manager) cleanupSignals() {
	if m.sigChan != nil {
		signal.Stop(m.sigChan)
		close(m.sigChan)
	}
}

// Stop gracefully stops the manager and cleans up resources
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pty != nil {
		// Ensure terminal is restored
		_ = m.pty.Stop()

		if m.pty.Process() != nil {
			// Send SIGTERM first for graceful shutdown
			if err := m.pty.Process().Signal(syscall.SIGTERM); err != nil {
				// If SIGTERM fails, force kill
				if err != os.ErrProcessDone {
					return m.pty.Process().Kill()
				}
			}
		}
	}

	return nil
}
