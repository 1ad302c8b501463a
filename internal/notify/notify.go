// Package notify shows desktop notifications for what the queue launches.
package notify

import "time"

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	}
	return "unknown"
}

// Notification is one desktop notification.
type Notification struct {
	Summary string
	Body    string
	// Icon is an image path or a themed icon name.
	Icon string
	// Expire is how long the notification stays up. Zero lets the server
	// decide.
	Expire time.Duration
	// Replaces is the ID of a notification to update in place.
	Replaces uint32
	Urgency  Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID.
	Notify(n Notification) (uint32, error)
	// Dismiss closes the notification with the given ID.
	Dismiss(id uint32) error
}

// Discard is a Notifier that shows nothing.
type Discard struct{}

func (Discard) Notify(Notification) (uint32, error) { return 0, nil }

func (Discard) Dismiss(uint32) error { return nil }

// expireMillis converts d to the freedesktop expire_timeout argument,
// where -1 means the server default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), int64(1<<31-1))) //nolint:gosec // clamped above
}
