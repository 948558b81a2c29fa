package idle

import (
	"testing"
	"time"
)

func TestFallbackBackend_PollBeforeActivity(t *testing.T) {
	backend := NewFallbackBackend()

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 0 {
		t.Errorf("Poll() = %v, want 0 before any recorded activity", idle)
	}
}

func TestFallbackBackend_PollAfterActivity(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := NewFallbackBackend()
	backend.now = func() time.Time { return now }

	backend.RecordActivityAt(now.Add(-5 * time.Second))

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 5 {
		t.Errorf("Poll() = %v, want 5", idle)
	}
}

func TestFallbackBackend_RecordActivityResets(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := NewFallbackBackend()
	backend.now = func() time.Time { return now }

	backend.RecordActivityAt(now.Add(-10 * time.Second))
	idle, _ := backend.Poll()
	if idle != 10 {
		t.Fatalf("Poll() = %v, want 10", idle)
	}

	backend.RecordActivity()
	idle, _ = backend.Poll()
	if idle != 0 {
		t.Errorf("Poll() after RecordActivity() = %v, want 0", idle)
	}
}

func TestFallbackBackend_HandleInputResets(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := NewFallbackBackend()
	backend.now = func() time.Time { return now }
	backend.RecordActivityAt(now.Add(-30 * time.Second))

	backend.HandleInput([]byte("k"))

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 0 {
		t.Errorf("Poll() after HandleInput = %v, want 0", idle)
	}
}

func TestFallbackBackend_NeverNegative(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := NewFallbackBackend()
	backend.now = func() time.Time { return now }

	// Activity recorded in the future, as after a clock step
	backend.RecordActivityAt(now.Add(1 * time.Minute))

	idle, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}
	if idle != 0 {
		t.Errorf("Poll() = %v, want 0 for future activity", idle)
	}
}

func TestFallbackBackend_MonotonicBetweenActivity(t *testing.T) {
	now := time.Unix(1700000010, 0)
	backend := NewFallbackBackend()
	backend.now = func() time.Time { return now }
	backend.RecordActivityAt(now.Add(-3 * time.Second))

	first, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}

	now = now.Add(2 * time.Second)
	second, err := backend.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v, want nil", err)
	}

	if second < first {
		t.Errorf("Poll() decreased from %v to %v with no recorded activity", first, second)
	}
}
