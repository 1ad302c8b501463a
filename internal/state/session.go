package state

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/jukebox/internal/db"
)

// Session is what the next run needs to pick up where this one stopped.
type Session struct {
	WasPlaying bool
	// LastPosition is the fraction of the last track already played.
	LastPosition float64
	LastFileID   string
}

func getSession(ctx context.Context, db *sql.DB) (*Session, error) {
	var s Session
	var lastFileID sql.NullString
	row := db.QueryRowContext(ctx, `SELECT was_playing, last_position, last_file_id FROM session WHERE id = 1`)
	err := row.Scan(&s.WasPlaying, &s.LastPosition, &lastFileID)
	if errors.Is(err, sql.ErrNoRows) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	s.LastFileID = dbutil.NullStringValue(lastFileID)
	return &s, nil
}

func saveSession(ctx context.Context, db *sql.DB, s Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (id, was_playing, last_position, last_file_id)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			was_playing = excluded.was_playing,
			last_position = excluded.last_position,
			last_file_id = excluded.last_file_id
	`, s.WasPlaying, s.LastPosition, dbutil.NullString(s.LastFileID))
	return err
}

// SetWasPlaying records whether playback is active, so the next start knows
// whether to resume.
func (m *Manager) SetWasPlaying(ctx context.Context, playing bool) error {
	m.discardPending()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO session (id, was_playing) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET was_playing = excluded.was_playing
	`, playing)
	return err
}

// SavePosition stores the last track and how far it played.
func (m *Manager) SavePosition(ctx context.Context, fileID string, position float64) error {
	m.discardPending()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO session (id, last_file_id, last_position) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_file_id = excluded.last_file_id,
			last_position = excluded.last_position
	`, dbutil.NullString(fileID), position)
	return err
}
