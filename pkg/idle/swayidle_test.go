package idle

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// fakeHelper is a scripted helperHandle.
type fakeHelper struct {
	alive bool
}

func (h *fakeHelper) Alive() bool { return h.alive }

// fakeFileInfo carries just enough of os.FileInfo for sentinel reads.
type fakeFileInfo struct {
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return "sentinel" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() interface{}   { return nil }

func TestSwayIdleBackend_PollWithoutSentinel(t *testing.T) {
	spawns := 0
	backend := &SwayIdleBackend{
		helperPath: "/usr/bin/swayidle",
		sentinel:   "/tmp/sysidle-idle-test",
		spawn: func(path, sentinel string) (helperHandle, error) {
			spawns++
			if path != "/usr/bin/swayidle" {
				t.Errorf("spawn path = %v, want /usr/bin/swayidle", path)
			}
			if sentinel != "/tmp/sysidle-idle-test" {
				t.Errorf("spawn sentinel = %v, want /tmp/sysidle-idle-test", sentinel)
			}
			return &fakeHelper{alive: true}, nil
		},
		stat: func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		now:  time.Now,
	}

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 0 {
		t.Errorf("Poll() = %v, want 0 with no sentinel", idle)
	}
	if spawns != 1 {
		t.Errorf("spawn count = %d, want 1", spawns)
	}
}

func TestSwayIdleBackend_PollWithSentinel(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := &SwayIdleBackend{
		helperPath: "/usr/bin/swayidle",
		sentinel:   "/tmp/sysidle-idle-test",
		spawn: func(string, string) (helperHandle, error) {
			return &fakeHelper{alive: true}, nil
		},
		stat: func(string) (os.FileInfo, error) {
			// Sentinel touched five seconds ago
			return fakeFileInfo{modTime: now.Add(-5 * time.Second)}, nil
		},
		now: func() time.Time { return now },
	}

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 14 {
		t.Errorf("Poll() = %v, want 14 (threshold 9 + 5 since touch)", idle)
	}
}

func TestSwayIdleBackend_PollClampsFutureMtime(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := &SwayIdleBackend{
		helperPath: "/usr/bin/swayidle",
		sentinel:   "/tmp/sysidle-idle-test",
		spawn: func(string, string) (helperHandle, error) {
			return &fakeHelper{alive: true}, nil
		},
		stat: func(string) (os.FileInfo, error) {
			return fakeFileInfo{modTime: now.Add(10 * time.Second)}, nil
		},
		now: func() time.Time { return now },
	}

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != swayIdleThreshold {
		t.Errorf("Poll() = %v, want %v", idle, swayIdleThreshold)
	}
}

func TestSwayIdleBackend_HelperLifecycle(t *testing.T) {
	tests := []struct {
		name           string
		helperAlive    bool
		polls          int
		expectedSpawns int
	}{
		{
			name:           "Live helper is not respawned",
			helperAlive:    true,
			polls:          3,
			expectedSpawns: 1,
		},
		{
			name:           "Dead helper is respawned each poll",
			helperAlive:    false,
			polls:          3,
			expectedSpawns: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spawns := 0
			backend := &SwayIdleBackend{
				helperPath: "/usr/bin/swayidle",
				sentinel:   "/tmp/sysidle-idle-test",
				spawn: func(string, string) (helperHandle, error) {
					spawns++
					return &fakeHelper{alive: tt.helperAlive}, nil
				},
				stat: func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
				now:  time.Now,
			}

			for i := 0; i < tt.polls; i++ {
				if _, err := backend.Poll(); err != nil {
					t.Fatalf("Poll() error = %v, want nil", err)
				}
			}
			if spawns != tt.expectedSpawns {
				t.Errorf("spawn count = %d, want %d", spawns, tt.expectedSpawns)
			}
		})
	}
}

func TestSwayIdleBackend_SpawnFailureStillPolls(t *testing.T) {
	backend := &SwayIdleBackend{
		helperPath: "/usr/bin/swayidle",
		sentinel:   "/tmp/sysidle-idle-test",
		spawn: func(string, string) (helperHandle, error) {
			return nil, fmt.Errorf("fork failed")
		},
		stat: func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		now:  time.Now,
	}

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil even when spawn fails", err)
	}
	if idle != 0 {
		t.Errorf("Poll() = %v, want 0", idle)
	}
}

func TestNewSwayIdleBackend(t *testing.T) {
	backend := NewSwayIdleBackend("/usr/bin/swayidle")

	if backend.sentinel == "" {
		t.Error("sentinel path should not be empty")
	}
	if backend.spawn == nil || backend.stat == nil || backend.now == nil {
		t.Error("capabilities should be wired by default")
	}
}
