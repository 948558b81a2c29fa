package process

import (
	"io"
	"os"
)

// PTY defines the interface for PTY operations
type PTY interface {
	Start(command string, args []string, env []string) error
	Wait() error
	ProcessState() *os.ProcessState
	Process() *os.Process
	Stop() error
	CopyIO(stdin io.Reader, stdout io.Writer, inputHandler func([]byte)) error
}
