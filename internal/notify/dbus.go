//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	appName     = "Jukebox"
	desktopID   = "jukebox"
	busName     = "org.freedesktop.Notifications"
	objectPath  = "/org/freedesktop/Notifications"
	methodShow  = busName + ".Notify"
	methodClose = busName + ".CloseNotification"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one, notifications are
// discarded.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Discard{}, nil //nolint:nilerr // no session bus, run without notifications
	}
	return &dbusNotifier{obj: conn.Object(busName, dbus.ObjectPath(objectPath))}, nil
}

func (d *dbusNotifier) Notify(n Notification) (uint32, error) {
	call := d.obj.Call(methodShow, 0,
		appName,
		n.Replaces,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints(n),
		expireMillis(n.Expire),
	)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (d *dbusNotifier) Dismiss(id uint32) error {
	return d.obj.Call(methodClose, 0, id).Err
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopID),
	}
	if n.Replaces != 0 {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}
