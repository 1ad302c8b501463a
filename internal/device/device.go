// Package device tracks the storage devices music files live on and whether
// they are currently reachable.
package device

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Device is a storage location holding part of the collection.
// A removable device is only considered mounted when a partition is mounted
// exactly at its mount point.
type Device struct {
	ID           string
	Name         string
	MountPoint   string
	MountCommand string
	Removable    bool

	mounted atomic.Bool
}

// New creates a device rooted at mountPoint. The ID is derived from the
// cleaned mount point so it is stable across runs.
func New(name, mountPoint string) *Device {
	mp := filepath.Clean(mountPoint)
	if name == "" {
		name = filepath.Base(mp)
	}
	return &Device{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("device:"+mp)).String(),
		Name:       name,
		MountPoint: mp,
	}
}

// IsMounted reports the last probed mount state.
func (d *Device) IsMounted() bool {
	return d.mounted.Load()
}

// SetMounted overrides the mount state. Used by probes and tests.
func (d *Device) SetMounted(mounted bool) {
	d.mounted.Store(mounted)
}

// Contains returns true if path lives under the device mount point.
func (d *Device) Contains(path string) bool {
	rel, err := filepath.Rel(d.MountPoint, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// RelPath returns path relative to the mount point, or path itself when it
// is not under the device.
func (d *Device) RelPath(path string) string {
	if !d.Contains(path) {
		return path
	}
	rel, _ := filepath.Rel(d.MountPoint, filepath.Clean(path))
	return filepath.ToSlash(rel)
}

func (d *Device) String() string {
	return d.Name + " (" + d.MountPoint + ")"
}
