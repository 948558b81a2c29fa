package idle

import (
	"fmt"
	"time"

	"github.com/sysidle/sysidle/pkg/interfaces"
)

const (
	login1Dest    = "org.freedesktop.login1"
	login1Path    = "/org/freedesktop/login1"
	login1Manager = "org.freedesktop.login1.Manager"
	idleSinceHint = "org.freedesktop.login1.Session.IdleSinceHint"
)

// ElogindBackend reads the IdleSinceHint property of this process's
// logind or elogind session: the moment, in microseconds since the
// Unix epoch, at which the session last went idle. Idle time is the
// distance from that moment to now.
type ElogindBackend struct {
	bus         interfaces.Bus
	sessionPath string
	now         func() time.Time
}

// NewElogindBackend creates a logind-backed idle backend for the
// session at sessionPath. The path is resolved once, during
// detection, and reused for every poll.
func NewElogindBackend(bus interfaces.Bus, sessionPath string, now func() time.Time) *ElogindBackend {
	return &ElogindBackend{bus: bus, sessionPath: sessionPath, now: now}
}

// Name identifies this backend in errors and diagnostics.
func (b *ElogindBackend) Name() string { return "elogind" }

// SessionPath returns the logind session object this backend reads
// from.
func (b *ElogindBackend) SessionPath() string { return b.sessionPath }

// Poll returns now minus the session's IdleSinceHint, in seconds,
// clamped at 0. A hint of 0 means the session manager has never
// recorded an idle transition; the raw distance from the epoch is
// reported in that case, as the hint dictates.
func (b *ElogindBackend) Poll() (float64, error) {
	v, err := b.bus.Property(login1Dest, b.sessionPath, idleSinceHint)
	if err != nil {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  fmt.Sprintf("reading IdleSinceHint from %s: %v", b.sessionPath, err),
		}
	}
	hintMicros, ok := v.(uint64)
	if !ok {
		return 0, &BackendError{
			Backend: b.Name(),
			Reason:  fmt.Sprintf("IdleSinceHint has unexpected type %T", v),
		}
	}
	idle := float64(b.now().UnixMicro()-int64(hintMicros)) / 1e6
	if idle < 0 {
		return 0, nil
	}
	return idle, nil
}
