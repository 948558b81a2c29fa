package idle

import (
	"errors"
	"os/exec"
)

// runCommand executes name with args and returns its stdout.
func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// capturedOutput merges what a failed command wrote to stdout and
// stderr so error messages can show it.
func capturedOutput(stdout []byte, err error) string {
	out := string(stdout)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		if out != "" {
			out += "\n"
		}
		out += string(exitErr.Stderr)
	}
	return out
}
