package collection

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/llehouerou/jukebox/internal/device"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// Directory groups the files of one folder, usually an album.
type Directory struct {
	ID     string
	Path   string
	Device *device.Device
}

// Cover returns the path of the directory's album art, or "" if none.
func (d *Directory) Cover() string {
	for _, name := range coverNames {
		path := filepath.Join(d.Path, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// File is a playable track of the collection. Files are shared, read-only
// identities; only the hit counters change after a scan.
type File struct {
	ID          string
	Path        string
	Name        string
	Dir         *Directory
	Size        int64
	Title       string
	Artist      string
	Album       string
	TrackNumber int

	hits        atomic.Int64
	sessionHits atomic.Int64
}

// Device returns the device the file is stored on.
func (f *File) Device() *device.Device {
	if f.Dir == nil {
		return nil
	}
	return f.Dir.Device
}

// IsAvailable returns true if the file's device is mounted.
func (f *File) IsAvailable() bool {
	d := f.Device()
	return d == nil || d.IsMounted()
}

// SameDirectory reports whether both files live in the same directory.
func (f *File) SameDirectory(other *File) bool {
	if f == nil || other == nil || f.Dir == nil || other.Dir == nil {
		return false
	}
	return f.Dir.ID == other.Dir.ID
}

// Hits returns the total number of launches.
func (f *File) Hits() int64 { return f.hits.Load() }

// SessionHits returns the number of launches since the process started.
func (f *File) SessionHits() int64 { return f.sessionHits.Load() }

// SetHits seeds the total launch count, typically from the state store.
func (f *File) SetHits(n int64) { f.hits.Store(n) }

// IncHits records one launch.
func (f *File) IncHits() {
	f.hits.Add(1)
	f.sessionHits.Add(1)
}

// DisplayTitle returns the tag title or the file name.
func (f *File) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

func (f *File) String() string {
	return f.Path
}
