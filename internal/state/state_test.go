package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/jukebox/internal/collection"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestManager creates a manager over an in-memory database with the
// schema initialized and a clock advancing one minute per call.
func setupTestManager(t *testing.T) *Manager {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := initSchema(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}

	tick := 0
	return &Manager{db: db, now: func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Minute)
	}}
}

func file(id string) *collection.File {
	return &collection.File{ID: id, Path: "/music/" + id + ".mp3"}
}

func TestGetSession_Empty(t *testing.T) {
	m := setupTestManager(t)

	s, err := m.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if *s != (Session{}) {
		t.Errorf("expected zero session on empty db, got %+v", s)
	}
}

func TestSetWasPlaying(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	for _, playing := range []bool{true, false, true} {
		if err := m.SetWasPlaying(ctx, playing); err != nil {
			t.Fatalf("SetWasPlaying(%v) failed: %v", playing, err)
		}
		s, err := m.GetSession(ctx)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if s.WasPlaying != playing {
			t.Errorf("WasPlaying = %v, want %v", s.WasPlaying, playing)
		}
	}
}

func TestRecordLaunch(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	if err := m.SavePosition(ctx, "a", 0.7); err != nil {
		t.Fatalf("SavePosition failed: %v", err)
	}
	for range 3 {
		if err := m.RecordLaunch(ctx, file("b")); err != nil {
			t.Fatalf("RecordLaunch failed: %v", err)
		}
	}

	h, err := m.Hits(ctx, "b")
	if err != nil {
		t.Fatalf("Hits failed: %v", err)
	}
	if h.Hits != 3 {
		t.Errorf("Hits = %d, want 3", h.Hits)
	}
	if want := testEpoch.Add(3 * time.Minute); !h.LastPlayedAt.Equal(want) {
		t.Errorf("LastPlayedAt = %v, want %v", h.LastPlayedAt, want)
	}

	s, err := m.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if s.LastFileID != "b" || s.LastPosition != 0 {
		t.Errorf("session = %+v, want last file b at position 0", s)
	}
}

func TestHits_UnknownFile(t *testing.T) {
	m := setupTestManager(t)

	h, err := m.Hits(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Hits failed: %v", err)
	}
	if h.Hits != 0 || !h.LastPlayedAt.IsZero() {
		t.Errorf("unknown file hits = %+v, want zero", h)
	}
}

func TestRecentFiles(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a", "c"} {
		if err := m.RecordLaunch(ctx, file(id)); err != nil {
			t.Fatalf("RecordLaunch(%s) failed: %v", id, err)
		}
	}

	recent, err := m.RecentFiles(ctx, 2)
	if err != nil {
		t.Fatalf("RecentFiles failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].FileID != "c" || recent[1].FileID != "a" {
		t.Errorf("recent = %+v, want c then a", recent)
	}
	if recent[1].Hits != 2 {
		t.Errorf("a hits = %d, want 2", recent[1].Hits)
	}
}

func TestLoadHits(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()
	for _, id := range []string{"a", "a", "b"} {
		if err := m.RecordLaunch(ctx, file(id)); err != nil {
			t.Fatalf("RecordLaunch failed: %v", err)
		}
	}

	files := []*collection.File{file("a"), file("b"), file("c")}
	if err := m.LoadHits(ctx, files); err != nil {
		t.Fatalf("LoadHits failed: %v", err)
	}

	want := []int64{2, 1, 0}
	for i, f := range files {
		if f.Hits() != want[i] {
			t.Errorf("%s hits = %d, want %d", f.ID, f.Hits(), want[i])
		}
		if f.SessionHits() != 0 {
			t.Errorf("%s session hits = %d, want 0", f.ID, f.SessionHits())
		}
	}
}

func TestVolume(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	v, err := m.GetVolume(ctx)
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v.Volume != 1.0 || v.Muted {
		t.Errorf("default volume = %+v, want 1.0 unmuted", v)
	}

	if err := m.SaveVolume(ctx, 0.4, true); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	if err := m.SetWasPlaying(ctx, true); err != nil {
		t.Fatalf("SetWasPlaying failed: %v", err)
	}

	v, err = m.GetVolume(ctx)
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v.Volume != 0.4 || !v.Muted {
		t.Errorf("volume = %+v, want 0.4 muted", v)
	}

	if err := m.SaveVolume(ctx, 3, false); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	if v, _ = m.GetVolume(ctx); v.Volume != 1 {
		t.Errorf("volume = %v, want clamped to 1", v.Volume)
	}
}

func TestSaveSession_FlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "jukebox.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m.SaveSession(Session{WasPlaying: true, LastPosition: 0.25, LastFileID: "a"})
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	s, err := m.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	want := Session{WasPlaying: true, LastPosition: 0.25, LastFileID: "a"}
	if *s != want {
		t.Errorf("session = %+v, want %+v", *s, want)
	}
}

func TestSaveSession_Debounced(t *testing.T) {
	m := setupTestManager(t)

	m.SaveSession(Session{LastFileID: "a"})
	m.SaveSession(Session{LastFileID: "b"})

	s, err := m.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if s.LastFileID != "" {
		t.Errorf("session written before the debounce elapsed: %+v", s)
	}

	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending == nil || pending.LastFileID != "b" {
		t.Errorf("pending = %+v, want last save", pending)
	}
}

func TestSavePosition_SupersedesPendingSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jukebox.db")
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()

	m.SaveSession(Session{WasPlaying: true, LastPosition: 0.1, LastFileID: "a"})
	if err := m.SavePosition(ctx, "a", 0.6); err != nil {
		t.Fatalf("SavePosition failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	s, err := m.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if s.LastPosition != 0.6 || s.WasPlaying {
		t.Errorf("session = %+v, want position 0.6 and the older checkpoint dropped", *s)
	}
}

func TestMock_RecordsLaunches(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	_ = m.RecordLaunch(ctx, file("a"))
	_ = m.RecordLaunch(ctx, file("b"))
	_ = m.RecordLaunch(ctx, file("a"))

	if got := m.Launches(); len(got) != 3 || got[2] != "a" {
		t.Errorf("Launches = %v", got)
	}
	recent, _ := m.RecentFiles(ctx, 5)
	if len(recent) != 2 || recent[0].FileID != "a" || recent[0].Hits != 2 {
		t.Errorf("RecentFiles = %+v", recent)
	}
	s, _ := m.GetSession(ctx)
	if s.LastFileID != "a" {
		t.Errorf("LastFileID = %q, want a", s.LastFileID)
	}
}
