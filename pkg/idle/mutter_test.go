package idle

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGnomeMutterBackend_Poll(t *testing.T) {
	goodReply := "method return time=1700000000.123456 sender=:1.34 -> destination=:1.974 serial=5347 reply_serial=2\n" +
		"   uint64 123456\n"

	tests := []struct {
		name          string
		mockOutput    []byte
		mockError     error
		expected      float64
		expectedError bool
	}{
		{
			name:       "Trailing integer parsed as milliseconds",
			mockOutput: []byte(goodReply),
			expected:   123,
		},
		{
			name:       "Sub-second value truncates to zero",
			mockOutput: []byte("   uint64 999\n"),
			expected:   0,
		},
		{
			name:          "Reply without trailing integer",
			mockOutput:    []byte("method return time=1700000000.1 sender=:1.34 -> destination=:1.974 serial=5 reply_serial=2\n"),
			expectedError: true,
		},
		{
			name:          "Error text reply",
			mockOutput:    []byte("Error org.freedesktop.DBus.Error.ServiceUnknown: the name is not activatable\n"),
			expectedError: true,
		},
		{
			name:          "Command error",
			mockError:     fmt.Errorf("dbus-send not found"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewGnomeMutterBackend(func(name string, args ...string) ([]byte, error) {
				if name != "dbus-send" {
					t.Errorf("unexpected command: %s", name)
				}
				if len(args) == 0 || args[0] != "--print-reply" {
					t.Errorf("unexpected args: %v", args)
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

func TestGnomeMutterBackend_PollReportsNotWorking(t *testing.T) {
	backend := NewGnomeMutterBackend(func(_ string, _ ...string) ([]byte, error) {
		return []byte("no reply at all"), nil
	})

	_, err := backend.Poll()
	if err == nil {
		t.Fatal("Poll() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "not working") {
		t.Errorf("Poll() error = %q, want a not-working diagnosis", err.Error())
	}
}
