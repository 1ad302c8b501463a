//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/playqueue"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueSave,
			err:      nil,
			expected: "",
		},
		{
			name:     "queue operation",
			op:       OpQueueSave,
			err:      errors.New("disk full"),
			expected: "Failed to save queue: disk full",
		},
		{
			name:     "collection scan operation",
			op:       OpCollectionScan,
			err:      errors.New("permission denied"),
			expected: "Failed to scan collection: permission denied",
		},
		{
			name:     "device operation",
			op:       OpDeviceMount,
			err:      errors.New("exit status 32"),
			expected: "Failed to mount device: exit status 32",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpDeviceMount,
			context:  "usb",
			expected: "",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpDeviceMount,
			err:      errors.New("busy"),
			expected: "Failed to mount device: busy",
		},
		{
			name:     "context is quoted",
			op:       OpDeviceMount,
			context:  "usb",
			err:      errors.New("busy"),
			expected: "Failed to mount device 'usb': busy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		empty bool
	}{
		{name: "nil", err: nil, empty: true},
		{name: "unknown", err: errors.New("boom"), empty: true},
		{name: "device", err: fmt.Errorf("push: %w", playqueue.ErrDeviceUnavailable)},
		{name: "no file", err: errors.Join(playqueue.ErrCollectionExhausted, collection.ErrNoFileAvailable)},
		{name: "exhausted", err: playqueue.ErrCollectionExhausted},
		{name: "playback", err: playqueue.ErrPlaybackStart},
		{name: "persistence", err: playqueue.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggestion(tt.err)
			if tt.empty && got != "" {
				t.Errorf("Suggestion(%v) = %q, want empty", tt.err, got)
			}
			if !tt.empty && got == "" {
				t.Errorf("Suggestion(%v) is empty", tt.err)
			}
		})
	}
}

func TestSuggestion_NoFileWinsOverExhausted(t *testing.T) {
	err := errors.Join(playqueue.ErrCollectionExhausted, collection.ErrNoFileAvailable)
	if got, want := Suggestion(err), Suggestion(collection.ErrNoFileAvailable); got != want {
		t.Errorf("Suggestion = %q, want %q", got, want)
	}
}
