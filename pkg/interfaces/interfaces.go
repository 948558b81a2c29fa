// Package interfaces defines the core interfaces used throughout the application.
package interfaces

// Backend answers a single question: how many seconds has the machine
// been free of user input. Implementations are free to shell out,
// talk to a bus, or watch a helper process, but Poll must never block
// for longer than the underlying primitive does.
type Backend interface {
	// Name identifies the backend in errors and diagnostics.
	Name() string
	// Poll returns the current idle time in seconds. The value is
	// never negative.
	Poll() (float64, error)
}

// ActivityRecorder receives notice that the host application saw user
// input. Implemented by the fallback backend.
type ActivityRecorder interface {
	RecordActivity()
}

// Bus is the narrow slice of a message bus the detection layer needs:
// service discovery, one method call, one property read.
type Bus interface {
	// ActivatableNames lists the bus names that can be activated,
	// including ones not currently running.
	ActivatableNames() ([]string, error)
	// Call invokes method on the object at path owned by dest and
	// returns the first value of the reply, with bus-specific types
	// reduced to plain Go values.
	Call(dest, path, method string, args ...interface{}) (interface{}, error)
	// Property reads the named property from the object at path.
	Property(dest, path, name string) (interface{}, error)
	Close() error
}

// InputHandler processes raw user input data.
type InputHandler interface {
	HandleInput(data []byte)
}

// ProcessWrapper wraps and monitors a process.
type ProcessWrapper interface {
	Start(command string, args []string) error
	Wait() error
	Stop() error
	ExitCode() int
}

// Querier exposes the one-call idle query. Satisfied by idle.Detector.
type Querier interface {
	IdleSeconds() (float64, error)
}
