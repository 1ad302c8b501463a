// Package collection holds the ordered set of playable files and answers the
// sequencing questions the play queue asks: what comes after or before a
// file, a random file, and whether a file opens the collection.
//
// Only files on mounted devices are ever offered.
package collection

import (
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// ErrNoFileAvailable is returned when no file can be offered.
var ErrNoFileAvailable = errors.New("no file available")

// Collection is an immutable, ordered list of files. Files are sorted by
// directory, then track number, then name.
type Collection struct {
	files []*File
	pos   map[string]int
	dirs  int

	restart bool

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// Option configures a Collection.
type Option func(*Collection)

// WithRestart makes NextFile wrap around at the end of the collection.
func WithRestart(restart bool) Option {
	return func(c *Collection) { c.restart = restart }
}

// WithRand sets the random source used by ShuffleFile.
func WithRand(r *rand.Rand) Option {
	return func(c *Collection) { c.rnd = r }
}

// New builds a collection from files. Duplicate IDs keep the first file.
func New(files []*File, opts ...Option) *Collection {
	c := &Collection{
		pos: make(map[string]int, len(files)),
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // shuffle, not crypto
	}
	for _, opt := range opts {
		opt(c)
	}

	unique := lo.UniqBy(files, func(f *File) string { return f.ID })
	sort.SliceStable(unique, func(i, j int) bool { return less(unique[i], unique[j]) })
	c.files = unique
	for i, f := range unique {
		c.pos[f.ID] = i
	}
	c.dirs = len(lo.UniqBy(unique, func(f *File) string {
		if f.Dir == nil {
			return ""
		}
		return f.Dir.ID
	}))
	return c
}

func less(a, b *File) bool {
	da, db := dirPath(a), dirPath(b)
	if da != db {
		return da < db
	}
	if a.TrackNumber != b.TrackNumber && a.TrackNumber > 0 && b.TrackNumber > 0 {
		return a.TrackNumber < b.TrackNumber
	}
	return a.Name < b.Name
}

func dirPath(f *File) string {
	if f.Dir == nil {
		return filepath.Dir(f.Path)
	}
	return f.Dir.Path
}

// Len returns the number of files.
func (c *Collection) Len() int { return len(c.files) }

// DirectoryCount returns the number of distinct directories.
func (c *Collection) DirectoryCount() int { return c.dirs }

// Files returns the files in collection order.
func (c *Collection) Files() []*File {
	out := make([]*File, len(c.files))
	copy(out, c.files)
	return out
}

// TotalSize returns the sum of file sizes in bytes.
func (c *Collection) TotalSize() int64 {
	return lo.SumBy(c.files, func(f *File) int64 { return f.Size })
}

// FileByID returns the file with the given stable ID.
func (c *Collection) FileByID(id string) (*File, bool) {
	i, ok := c.pos[id]
	if !ok {
		return nil, false
	}
	return c.files[i], true
}

// FilesUnder returns the files at or below path, in collection order.
func (c *Collection) FilesUnder(path string) []*File {
	root := filepath.Clean(path)
	return lo.Filter(c.files, func(f *File, _ int) bool {
		return f.Path == root || strings.HasPrefix(f.Path, root+string(filepath.Separator))
	})
}

// NextFile returns the first available file after f, or nil at the end of
// the collection (unless restart is enabled).
func (c *Collection) NextFile(f *File) *File {
	if f == nil {
		return nil
	}
	i, ok := c.pos[f.ID]
	if !ok {
		return nil
	}
	for j := i + 1; j < len(c.files); j++ {
		if c.files[j].IsAvailable() {
			return c.files[j]
		}
	}
	if c.restart {
		for j := 0; j <= i; j++ {
			if c.files[j].IsAvailable() {
				return c.files[j]
			}
		}
	}
	return nil
}

// PreviousFile returns the first available file before f, or nil.
func (c *Collection) PreviousFile(f *File) *File {
	if f == nil {
		return nil
	}
	i, ok := c.pos[f.ID]
	if !ok {
		return nil
	}
	for j := i - 1; j >= 0; j-- {
		if c.files[j].IsAvailable() {
			return c.files[j]
		}
	}
	return nil
}

// ShuffleFile returns a random available file.
func (c *Collection) ShuffleFile() (*File, error) {
	available := lo.Filter(c.files, func(f *File, _ int) bool { return f.IsAvailable() })
	if len(available) == 0 {
		return nil, ErrNoFileAvailable
	}
	c.rndMu.Lock()
	i := c.rnd.IntN(len(available))
	c.rndMu.Unlock()
	return available[i], nil
}

// IsFirstFile returns true if f is the very first file of the collection.
func (c *Collection) IsFirstFile(f *File) bool {
	if f == nil {
		return false
	}
	i, ok := c.pos[f.ID]
	return ok && i == 0
}
