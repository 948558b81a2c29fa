package idle

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestX11Backend_Poll(t *testing.T) {
	tests := []struct {
		name          string
		mockOutput    []byte
		mockError     error
		expected      float64
		expectedError bool
	}{
		{
			name:       "Whole seconds",
			mockOutput: []byte("5000\n"),
			expected:   5,
		},
		{
			name:       "Partial seconds truncate",
			mockOutput: []byte("1999\n"),
			expected:   1,
		},
		{
			name:       "Zero",
			mockOutput: []byte("0\n"),
			expected:   0,
		},
		{
			name:       "Surrounding whitespace",
			mockOutput: []byte("  42000 \n"),
			expected:   42,
		},
		{
			name:          "Malformed output",
			mockOutput:    []byte("cannot open display\n"),
			expectedError: true,
		},
		{
			name:          "Empty output",
			mockOutput:    []byte(""),
			expectedError: true,
		},
		{
			name:          "Command error",
			mockError:     fmt.Errorf("exit status 1"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewX11Backend("/usr/bin/xprintidle", func(name string, _ ...string) ([]byte, error) {
				if name != "/usr/bin/xprintidle" {
					t.Errorf("unexpected command: %s", name)
				}
				return tt.mockOutput, tt.mockError
			})

			idle, err := backend.Poll()

			if (err != nil) != tt.expectedError {
				t.Fatalf("Poll() error = %v, expectedError %v", err, tt.expectedError)
			}
			if tt.expectedError {
				var backendErr *BackendError
				if !errors.As(err, &backendErr) {
					t.Errorf("Poll() error type = %T, want *BackendError", err)
				}
				return
			}
			if idle != tt.expected {
				t.Errorf("Poll() = %v, want %v", idle, tt.expected)
			}
		})
	}
}

func TestX11Backend_PollErrorIncludesOutput(t *testing.T) {
	backend := NewX11Backend("/usr/bin/x11idle", func(_ string, _ ...string) ([]byte, error) {
		return []byte("No protocol specified\n"), fmt.Errorf("exit status 1")
	})

	_, err := backend.Poll()
	if err == nil {
		t.Fatal("Poll() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "No protocol specified") {
		t.Errorf("Poll() error = %q, want the tool's output included", err.Error())
	}
}

func TestX11Backend_PollMalformedNeverReturnsZeroSilently(t *testing.T) {
	backend := NewX11Backend("/usr/bin/xprintidle", func(_ string, _ ...string) ([]byte, error) {
		return []byte("7.5 seconds\n"), nil
	})

	_, err := backend.Poll()
	if err == nil {
		t.Fatal("Poll() error = nil, want *BackendError for malformed output")
	}
}
