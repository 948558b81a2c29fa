package idle

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// swayIdleThreshold is the timeout, in seconds, handed to swayidle.
// The helper touches the sentinel after this long without input and
// removes it on resume, so polled idle time is quantized: anything
// shorter reads as 0.
const swayIdleThreshold = 9

// SwayIdleBackend reports idle time on Wayland compositors that speak
// the idle protocol, through a swayidle helper process and a sentinel
// file. The helper is spawned on first need and respawned if it dies;
// it is never waited on inline, and the sentinel is created and
// removed only by the helper itself.
//
// An absent sentinel means the user is active (or the helper just
// started and has no verdict yet). A present sentinel means the idle
// timeout fired at its mtime, at which point the user had already
// been idle for the threshold.
type SwayIdleBackend struct {
	helperPath string
	sentinel   string
	spawn      func(path, sentinel string) (helperHandle, error)
	stat       func(name string) (os.FileInfo, error)
	now        func() time.Time

	helper helperHandle
}

// helperHandle is a running swayidle process as the backend sees it:
// only liveness matters.
type helperHandle interface {
	Alive() bool
}

// NewSwayIdleBackend creates a swayidle-backed idle backend using the
// binary at helperPath, resolved once during detection. The sentinel
// lives in the temp directory and is unique per host process.
func NewSwayIdleBackend(helperPath string) *SwayIdleBackend {
	return &SwayIdleBackend{
		helperPath: helperPath,
		sentinel:   filepath.Join(os.TempDir(), fmt.Sprintf("sysidle-idle-%d", os.Getpid())),
		spawn:      spawnSwayIdle,
		stat:       os.Stat,
		now:        time.Now,
	}
}

// Name identifies this backend in errors and diagnostics.
func (b *SwayIdleBackend) Name() string { return "swayidle" }

// Poll reads the sentinel. It never fails: a helper that cannot be
// spawned just leaves the sentinel absent, which reads as 0.
func (b *SwayIdleBackend) Poll() (float64, error) {
	b.ensureHelper()

	info, err := b.stat(b.sentinel)
	if err != nil {
		return 0, nil
	}
	idle := swayIdleThreshold + b.now().Sub(info.ModTime()).Seconds()
	if idle < swayIdleThreshold {
		idle = swayIdleThreshold
	}
	return idle, nil
}

// ensureHelper spawns the swayidle helper if none is running. Spawn
// failures are swallowed; the next poll retries.
func (b *SwayIdleBackend) ensureHelper() {
	if b.helper != nil && b.helper.Alive() {
		return
	}
	h, err := b.spawn(b.helperPath, b.sentinel)
	if err != nil {
		b.helper = nil
		return
	}
	b.helper = h
}

// execHelper tracks a spawned helper process. A goroutine reaps the
// process when it exits and closes done, which is what Alive checks.
type execHelper struct {
	done chan struct{}
}

// Alive reports whether the helper process is still running.
func (h *execHelper) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// spawnSwayIdle starts swayidle configured to touch the sentinel at
// the idle threshold and remove it on resume. The process is released
// to the background and runs until it exits on its own, typically
// when the compositor goes away.
func spawnSwayIdle(path, sentinel string) (helperHandle, error) {
	cmd := exec.Command(path,
		"timeout", strconv.Itoa(swayIdleThreshold), fmt.Sprintf("touch '%s'", sentinel),
		"resume", fmt.Sprintf("rm -f '%s'", sentinel),
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	h := &execHelper{done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}
