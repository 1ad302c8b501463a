package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/jukebox/internal/collection"
	dbutil "github.com/llehouerou/jukebox/internal/db"
)

// FileHits is the launch history of one file.
type FileHits struct {
	FileID       string
	Hits         int64
	LastPlayedAt time.Time
}

// RecordLaunch counts a launch of f and makes it the session's last file.
// The saved position resets since the file starts over.
func (m *Manager) RecordLaunch(ctx context.Context, f *collection.File) error {
	m.discardPending()
	now := m.now().UnixMilli()
	return dbutil.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO file_hits (file_id, hits, last_played_at) VALUES (?, 1, ?)
			ON CONFLICT(file_id) DO UPDATE SET
				hits = hits + 1,
				last_played_at = excluded.last_played_at
		`, f.ID, now)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session (id, last_file_id, last_position) VALUES (1, ?, 0)
			ON CONFLICT(id) DO UPDATE SET
				last_file_id = excluded.last_file_id,
				last_position = 0
		`, f.ID)
		return err
	})
}

// Hits returns the launch history of a file. Unknown files have zero hits.
func (m *Manager) Hits(ctx context.Context, fileID string) (FileHits, error) {
	h := FileHits{FileID: fileID}
	var lastPlayed sql.NullInt64
	err := m.db.QueryRowContext(ctx,
		`SELECT hits, last_played_at FROM file_hits WHERE file_id = ?`, fileID,
	).Scan(&h.Hits, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return h, nil
	}
	if err != nil {
		return FileHits{}, err
	}
	h.LastPlayedAt = dbutil.NullUnixMilli(lastPlayed)
	return h, nil
}

// RecentFiles returns the most recently launched files, newest first.
func (m *Manager) RecentFiles(ctx context.Context, limit int) ([]FileHits, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT file_id, hits, last_played_at FROM file_hits
		WHERE last_played_at IS NOT NULL
		ORDER BY last_played_at DESC, file_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileHits
	for rows.Next() {
		var h FileHits
		var lastPlayed sql.NullInt64
		if err := rows.Scan(&h.FileID, &h.Hits, &lastPlayed); err != nil {
			return nil, err
		}
		h.LastPlayedAt = dbutil.NullUnixMilli(lastPlayed)
		out = append(out, h)
	}
	return out, rows.Err()
}

// LoadHits copies the stored counters onto the collection's files.
func (m *Manager) LoadHits(ctx context.Context, files []*collection.File) error {
	byID := make(map[string]*collection.File, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	rows, err := m.db.QueryContext(ctx, `SELECT file_id, hits FROM file_hits`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var hits int64
		if err := rows.Scan(&id, &hits); err != nil {
			return err
		}
		if f, ok := byID[id]; ok {
			f.SetHits(hits)
		}
	}
	return rows.Err()
}
