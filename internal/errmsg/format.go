// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/playqueue"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Collection operations
	OpCollectionScan Op = "scan collection"
	OpHitsLoad       Op = "load play counts"

	// Device operations
	OpDeviceMount   Op = "mount device"
	OpDeviceRefresh Op = "refresh devices"
	OpDeviceClean   Op = "remove device files from queue"

	// Queue operations
	OpQueueLoad   Op = "load queue"
	OpQueueSave   Op = "save queue"
	OpQueueAdd    Op = "add to queue"
	OpQueueRemove Op = "remove from queue"
	OpQueueInsert Op = "insert into queue"
	OpQueueGoTo   Op = "jump to track"

	// Navigation
	OpNextAlbum     Op = "skip to next album"
	OpPreviousAlbum Op = "go back to previous album"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpRadioStart    Op = "start radio"

	// Session
	OpSessionLoad Op = "load session"
	OpSessionSave Op = "save session"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Suggestion returns a hint for resolving err, or an empty string.
func Suggestion(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, playqueue.ErrDeviceUnavailable):
		return "Check the device is plugged in, or run 'jukebox devices mount'"
	case errors.Is(err, collection.ErrNoFileAvailable):
		return "Mount a device or add collection roots to the config"
	case errors.Is(err, playqueue.ErrCollectionExhausted):
		return "Enable collection restart to wrap around"
	case errors.Is(err, playqueue.ErrPlaybackStart):
		return "Check the file format is supported and the audio device is free"
	case errors.Is(err, playqueue.ErrPersistence):
		return "Check the queue file location is writable"
	default:
		return ""
	}
}
