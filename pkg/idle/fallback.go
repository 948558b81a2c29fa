package idle

import (
	"sync"
	"time"
)

// FallbackBackend tracks idle time from the host application's own
// point of view: the clock starts each time the host reports user
// input and the idle value is the time elapsed since. It only sees
// input the host itself receives, so it drifts whenever the host is
// out of focus. Never auto-selected; callers opt in when the
// environment-specific backends are unusable or unwanted.
type FallbackBackend struct {
	mu        sync.RWMutex
	lastInput time.Time
	now       func() time.Time
}

// NewFallbackBackend creates a fallback backend with no activity
// recorded yet. Until the first RecordActivity call, Poll reports 0.
func NewFallbackBackend() *FallbackBackend {
	return &FallbackBackend{now: time.Now}
}

// Name identifies this backend in errors and diagnostics.
func (b *FallbackBackend) Name() string { return "fallback" }

// Poll returns the seconds elapsed since the last recorded input, or
// 0 when nothing has been recorded. It never fails.
func (b *FallbackBackend) Poll() (float64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.lastInput.IsZero() {
		return 0, nil
	}
	idle := b.now().Sub(b.lastInput).Seconds()
	if idle < 0 {
		return 0, nil
	}
	return idle, nil
}

// RecordActivity marks the current moment as the last user input.
func (b *FallbackBackend) RecordActivity() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastInput = b.now()
}

// RecordActivityAt marks t as the last user input.
func (b *FallbackBackend) RecordActivityAt(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastInput = t
}

// HandleInput implements interfaces.InputHandler so a wrapped
// session's keystrokes feed the activity clock directly.
func (b *FallbackBackend) HandleInput(_ []byte) {
	b.RecordActivity()
}
