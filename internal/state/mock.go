package state

import (
	"context"
	"sync"

	"github.com/llehouerou/jukebox/internal/collection"
)

// Mock is an in-memory test double for Manager. It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	session Session
	volume  VolumeState
	hits    map[string]int64
	order   []string
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{hits: make(map[string]int64), volume: VolumeState{Volume: 1}}
}

func (m *Mock) GetSession(context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	return &s, nil
}

func (m *Mock) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

func (m *Mock) SetWasPlaying(_ context.Context, playing bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.WasPlaying = playing
	return nil
}

func (m *Mock) SavePosition(_ context.Context, fileID string, position float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.LastFileID = fileID
	m.session.LastPosition = position
	return nil
}

func (m *Mock) RecordLaunch(_ context.Context, f *collection.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[f.ID]++
	m.order = append(m.order, f.ID)
	m.session.LastFileID = f.ID
	m.session.LastPosition = 0
	return nil
}

func (m *Mock) Hits(_ context.Context, fileID string) (FileHits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return FileHits{FileID: fileID, Hits: m.hits[fileID]}, nil
}

func (m *Mock) RecentFiles(_ context.Context, limit int) ([]FileHits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []FileHits
	seen := make(map[string]bool)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		id := m.order[i]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, FileHits{FileID: id, Hits: m.hits[id]})
	}
	return out, nil
}

func (m *Mock) LoadHits(_ context.Context, files []*collection.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range files {
		if n, ok := m.hits[f.ID]; ok {
			f.SetHits(n)
		}
	}
	return nil
}

func (m *Mock) GetVolume(context.Context) (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(_ context.Context, volume float64, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = VolumeState{Volume: volume, Muted: muted}
	return nil
}

func (m *Mock) Close() error { return nil }

// Test helpers

// Launches returns the IDs passed to RecordLaunch, in order.
func (m *Mock) Launches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
