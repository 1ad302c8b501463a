package state

import (
	"context"
	"database/sql"
	"errors"
)

// VolumeState is the output level restored at startup.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// GetVolume returns the saved output level, full and unmuted until one is
// saved.
func (m *Manager) GetVolume(ctx context.Context) (*VolumeState, error) {
	v := VolumeState{Volume: 1}
	err := m.db.QueryRowContext(ctx,
		`SELECT volume, muted FROM session WHERE id = 1`,
	).Scan(&v.Volume, &v.Muted)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return &v, nil
}

// SaveVolume stores the output level, clamped to [0,1].
func (m *Manager) SaveVolume(ctx context.Context, volume float64, muted bool) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO session (id, volume, muted) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET volume = excluded.volume, muted = excluded.muted
	`, max(0, min(1, volume)), muted)
	return err
}
