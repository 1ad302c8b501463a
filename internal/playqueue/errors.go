package playqueue

import "errors"

var (
	// ErrDeviceUnavailable is returned when an item's device could not be mounted.
	ErrDeviceUnavailable = errors.New("device unavailable")
	// ErrPushAborted is returned when the user aborts a push at a mount prompt.
	ErrPushAborted = errors.New("push aborted")
	// ErrCollectionExhausted signals that the collection has nothing more to offer.
	ErrCollectionExhausted = errors.New("collection exhausted")
	// ErrPlaybackStart is returned when the player fails to start.
	ErrPlaybackStart = errors.New("playback did not start")
	// ErrPersistence is returned when the committed queue cannot be read or written.
	ErrPersistence = errors.New("queue persistence failed")
	// ErrOutOfRange is returned for a row index outside the queue.
	ErrOutOfRange = errors.New("index out of range")
)
