// Package events carries play queue notifications to the UI, desktop
// integrations and optional remote listeners.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates event categories.
type Kind string

const (
	PlayerPlay        Kind = "player_play"
	PlayerStop        Kind = "player_stop"
	FileLaunched      Kind = "file_launched"
	LaunchFailed      Kind = "launch_failed"
	CoverRefresh      Kind = "cover_refresh"
	CoverChange       Kind = "cover_change"
	QueueRefreshed    Kind = "queue_refreshed"
	Reset             Kind = "reset"
	RadioLaunched     Kind = "radio_launched"
	RepeatModeChanged Kind = "repeat_mode_changed"
	EmptySelection    Kind = "empty_selection"
	DeviceChanged     Kind = "device_changed"
)

// AllKinds lists every kind the queue and its collaborators publish.
var AllKinds = []Kind{
	PlayerPlay, PlayerStop, FileLaunched, LaunchFailed, CoverRefresh,
	CoverChange, QueueRefreshed, Reset, RadioLaunched, RepeatModeChanged,
	EmptySelection, DeviceChanged,
}

// Well-known attribute keys.
const (
	AttrFileID  = "file_id"
	AttrPath    = "path"
	AttrDate    = "date"
	AttrError   = "error"
	AttrURL     = "url"
	AttrName    = "name"
	AttrEnabled = "enabled"
	AttrDevice  = "device"
	AttrMounted = "mounted"
	AttrInUse   = "in_use"
)

// Attrs holds event details.
type Attrs map[string]any

// Event is one published notification.
type Event struct {
	ID    string    `json:"id"`
	Kind  Kind      `json:"kind"`
	Attrs Attrs     `json:"attrs,omitempty"`
	At    time.Time `json:"at"`
}

// String returns the attribute value for key as a string, or "".
func (e Event) String(key string) string {
	s, _ := e.Attrs[key].(string)
	return s
}

func newEvent(kind Kind, attrs Attrs) Event {
	return Event{
		ID:    uuid.NewString(),
		Kind:  kind,
		Attrs: attrs,
		At:    time.Now(),
	}
}
