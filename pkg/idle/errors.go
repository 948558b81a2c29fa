package idle

import (
	"fmt"
	"strings"
)

// DetectionError means no usable idle backend could be selected for
// this environment. Selection runs once per process and the result is
// kept, so the condition will not clear on its own; the message says
// what to install or change.
type DetectionError struct {
	Reason string
}

func (e *DetectionError) Error() string {
	return "cannot detect idle time: " + e.Reason
}

// BackendError means the selected backend failed to produce an idle
// time on this poll. Output carries anything the failing helper
// printed, when there is output to show.
type BackendError struct {
	Backend string
	Reason  string
	Output  string
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s backend: %s", e.Backend, e.Reason)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}
