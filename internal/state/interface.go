package state

import (
	"context"

	"github.com/llehouerou/jukebox/internal/collection"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetSession(ctx context.Context) (*Session, error)
	SaveSession(s Session)
	SetWasPlaying(ctx context.Context, playing bool) error
	SavePosition(ctx context.Context, fileID string, position float64) error
	RecordLaunch(ctx context.Context, f *collection.File) error
	Hits(ctx context.Context, fileID string) (FileHits, error)
	RecentFiles(ctx context.Context, limit int) ([]FileHits, error)
	LoadHits(ctx context.Context, files []*collection.File) error
	GetVolume(ctx context.Context) (*VolumeState, error)
	SaveVolume(ctx context.Context, volume float64, muted bool) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
