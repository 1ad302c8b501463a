package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			was_playing INTEGER NOT NULL DEFAULT 0,
			last_position REAL NOT NULL DEFAULT 0,
			last_file_id TEXT,
			volume REAL NOT NULL DEFAULT 1,
			muted INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS file_hits (
			file_id TEXT PRIMARY KEY,
			hits INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_file_hits_last_played ON file_hits(last_played_at DESC);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
