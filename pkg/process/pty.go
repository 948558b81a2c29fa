package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// PTYManager handles PTY-based process execution
type PTYManager struct {
	cmd         *exec.Cmd
	pty         *os.File
	mu          sync.Mutex
	stopChan    chan struct{}
	wg          sync.WaitGroup
	restoreFunc func()
}

// Ensure PTYManager implements PTY
var _ PTY = (*PTYManager)(nil)

// NewPTYManager creates a new PTY manager
func NewPTYManager() *PTYManager {
	return &PTYManager{
		stopChan: make(chan struct{}),
	}
}

// Start starts a process with PTY
func (p *PTYManager) Start(command string, args []string, env []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return fmt.Errorf("process already started")
	}

	// Create the command
	p.cmd = exec.Command(command, args...)
	p.cmd.Env = env

	// Start the command with a PTY
	var err error
	p.pty, err = pty.Start(p.cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	// Copy terminal size
	if err := p.copyTerminalSize(); err != nil {
		// Log but don't fail - some environments don't have a terminal
		fmt.Fprintf(os.Stderr, "sysidle: failed to copy terminal size: %v\n", err)
	}

	// Start monitoring for terminal size changes
	p.wg.Add(1)
	go p.monitorTerminalSize()

	return nil
}

// Wait waits for the process to complete
func (p *PTYManager) Wait() error {
	if p.cmd == nil {
		return fmt.Errorf("process not started")
	}

	err := p.cmd.Wait()

	// Signal stop to goroutines
	close(p.stopChan)

	// Wait for goroutines
	p.wg.Wait()

	// Close PTY
	p.mu.Lock()
	if p.pty != nil {
		_ = p.pty.Close()
	}
	p.mu.Unlock()

	return err
}

// ProcessState returns the process state
func (p *PTYManager) ProcessState() *os.ProcessState {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.ProcessState
}

// Process returns the underlying process
func (p *PTYManager) Process() *os.Process {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.Process
}

// Stop gracefully stops the PTY manager and restores terminal state
func (p *PTYManager) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Restore terminal if needed
	if p.restoreFunc != nil {
		p.restoreFunc()
		p.restoreFunc = nil
	}

	return nil
}

// copyTerminalSize copies the terminal size from stdin to the PTY
func (p *PTYManager) copyTerminalSize() error {
	size, err := pty.GetsizeFull(os.Stdin)
	if err != nil {
		return err
	}

	return pty.Setsize(p.pty, size)
}

// monitorTerminalSize monitors for terminal size changes
func (p *PTYManager) monitorTerminalSize() {
	defer p.wg.Done()

	// Create a channel for SIGWINCH signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			p.mu.Lock()
			if p.pty != nil {
				if err := p.copyTerminalSize(); err != nil {
					fmt.Fprintf(os.Stderr, "sysidle: failed to resize PTY: %v\n", err)
				}
			}
			p.mu.Unlock()
		case <-p.stopChan:
			return
		}
	}
}

// CopyIO handles copying between PTY and standard streams. Every
// chunk the user types passes through inputHandler on its way to the
// child, which is how wrapped sessions feed the activity clock.
func (p *PTYManager) CopyIO(stdin io.Reader, stdout io.Writer, inputHandler func([]byte)) error {
	p.mu.Lock()
	if p.pty == nil {
		p.mu.Unlock()
		return fmt.Errorf("PTY not initialized")
	}
	ptyFile := p.pty
	p.mu.Unlock()

	// Store the restore function so we can call it from Stop()
	if file, ok := stdin.(*os.File); ok {
		if restore, err := setRawMode(int(file.Fd())); err == nil {
			p.mu.Lock()
			p.restoreFunc = restore
			p.mu.Unlock()
			defer func() {
				p.mu.Lock()
				if p.restoreFunc != nil {
					p.restoreFunc()
					p.restoreFunc = nil
				}
				p.mu.Unlock()
			}()
		}
	}

	// Use a wait group to track copy operations
	var wg sync.WaitGroup

	// Error channel to capture any errors
	errChan := make(chan error, 2)

	// Copy from stdin to PTY with input handling
	wg.Add(1)
	go func() {
		defer wg.Done()

		var reader io.Reader = stdin
		if inputHandler != nil {
			reader = &inputReader{reader: stdin, handler: inputHandler}
		}
		if _, err := io.Copy(ptyFile, reader); err != nil {
			errChan <- fmt.Errorf("stdin copy error: %w", err)
		}
	}()

	// Copy from PTY to stdout
	wg.Add(1)
	go func() {
		defer wg.Done()

		if _, err := io.Copy(stdout, ptyFile); err != nil {
			errChan <- fmt.Errorf("stdout copy error: %w", err)
		}
	}()

	// Wait for copies to complete
	wg.Wait()

	// Check for errors
	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}

// inputReader wraps the user's stdin and reports every chunk to the
// handler before it is forwarded to the child.
type inputReader struct {
	reader  io.Reader
	handler func([]byte)
}

func (r *inputReader) Read(p []byte) (n int, err error) {
	n, err = r.reader.Read(p)
	if n > 0 && r.handler != nil {
		r.handler(p[:n])
	}
	return n, err
}
