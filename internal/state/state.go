// Package state persists playback session facts across runs: whether
// playback was active at exit, where the last track stopped, volume and the
// per-file launch counters.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "jukebox"
	dbFileName   = "jukebox.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db  *sql.DB
	now func() time.Time

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Session
}

// OpenDefault opens the database under the XDG data directory.
func OpenDefault() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

// Open opens or creates the database at path.
func Open(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer keeps launches and session updates from racing on SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, now: time.Now}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveSession(context.Background(), m.db, *pending)
	}

	return m.db.Close()
}

// GetSession returns the saved session, or a zero session on a fresh database.
func (m *Manager) GetSession(ctx context.Context) (*Session, error) {
	return getSession(ctx, m.db)
}

// SaveSession stores the session after a short debounce; frequent position
// updates collapse into one write. Close flushes a pending save.
func (m *Manager) SaveSession(s Session) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveSession(context.Background(), m.db, *pending)
		}
	})
}

// discardPending drops a debounced save. Direct session writes call it so
// Close does not flush an older checkpoint over them.
func (m *Manager) discardPending() {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.pending = nil
}
