package status

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLine(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewLine(buf, true)

	if line.writer != buf {
		t.Error("expected writer to be set")
	}
	if !line.tty {
		t.Error("expected tty mode to be set")
	}
	if line.visible {
		t.Error("expected line to start invisible")
	}
}

func TestLineUpdateTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewLine(buf, true)

	if err := line.Update("idle 5s"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := line.Update("idle 7s"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	// Each update starts with a redraw sequence, so the second one
	// overwrites the first on a real terminal.
	if strings.Count(output, "\r\033[2K") != 2 {
		t.Errorf("expected 2 redraw sequences, got %q", output)
	}
	if strings.Contains(output, "\n") {
		t.Errorf("expected no newlines in tty mode, got %q", output)
	}
	if !strings.Contains(output, "idle 7s") {
		t.Errorf("expected latest text in output, got %q", output)
	}
}

func TestLineUpdateNonTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewLine(buf, false)

	if err := line.Update("idle 5s"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := line.Update("idle 7s"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if output != "idle 5s\nidle 7s\n" {
		t.Errorf("expected plain appended lines, got %q", output)
	}
	if strings.Contains(output, "\033") {
		t.Errorf("expected no escape sequences in non-tty mode, got %q", output)
	}
}

func TestLineClear(t *testing.T) {
	tests := []struct {
		name       string
		tty        bool
		update     bool
		wantOutput bool
	}{
		{
			name:       "tty with visible line",
			tty:        true,
			update:     true,
			wantOutput: true,
		},
		{
			name:       "tty with nothing drawn",
			tty:        true,
			update:     false,
			wantOutput: false,
		},
		{
			name:       "non-tty never clears",
			tty:        false,
			update:     true,
			wantOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			line := NewLine(buf, tt.tty)

			if tt.update {
				if err := line.Update("idle 5s"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			buf.Reset()

			if err := line.Clear(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			output := buf.String()
			if tt.wantOutput && output != "\r\033[2K" {
				t.Errorf("expected clear sequence, got %q", output)
			}
			if !tt.wantOutput && output != "" {
				t.Errorf("expected no output, got %q", output)
			}
		})
	}
}

func TestLineClearTwice(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewLine(buf, true)

	if err := line.Update("idle 5s"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf.Reset()
	_ = line.Clear()
	_ = line.Clear()

	// Second clear has nothing to erase.
	if strings.Count(buf.String(), "\033[2K") != 1 {
		t.Errorf("expected a single clear sequence, got %q", buf.String())
	}
}

func TestLineNilWriter(t *testing.T) {
	line := NewLine(nil, true)

	if err := line.Update("idle 5s"); err != nil {
		t.Errorf("Update with nil writer error = %v, want nil", err)
	}
	if err := line.Clear(); err != nil {
		t.Errorf("Clear with nil writer error = %v, want nil", err)
	}
}
