package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/config"
	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/errmsg"
	"github.com/llehouerou/jukebox/internal/playqueue"
)

// deviceWatchInterval is how often removable devices are probed.
const deviceWatchInterval = 5 * time.Second

// newRegistry registers the configured devices and probes them once.
func newRegistry(ctx context.Context, c *config.Config, logger zerolog.Logger, opts ...device.Option) *device.Registry {
	reg := device.NewRegistry(append([]device.Option{device.WithLogger(logger)}, opts...)...)
	for _, dc := range c.Devices {
		d := device.New(dc.Name, dc.Path)
		d.MountCommand = dc.MountCommand
		d.Removable = dc.Removable
		reg.Add(d)
	}
	if err := reg.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpDeviceRefresh, err))
	}
	return reg
}

// scanCollection scans the configured roots. Device mount points count as
// roots too, so removable media are part of the collection.
func scanCollection(ctx context.Context, c *config.Config, reg *device.Registry, logger zerolog.Logger) (*collection.Collection, error) {
	roots := append([]string{}, c.Collection.Roots...)
	for _, d := range reg.Devices() {
		if d.IsMounted() && !coveredBy(roots, d.MountPoint) {
			roots = append(roots, d.MountPoint)
		}
	}
	coll, err := collection.Scan(ctx, reg, roots, collection.ScanOptions{
		Logger:  logger,
		Options: []collection.Option{collection.WithRestart(c.Collection.Restart)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpCollectionScan, err)
	}
	return coll, nil
}

func coveredBy(roots []string, path string) bool {
	for _, r := range roots {
		d := device.Device{MountPoint: filepath.Clean(r)}
		if d.Contains(path) {
			return true
		}
	}
	return false
}

// modesFromConfig returns the startup playback modes.
func modesFromConfig(c *config.Config) playqueue.Modes {
	begin, length := c.GetIntroConfig()
	return playqueue.Modes{
		Repeat:               c.Modes.Repeat,
		Shuffle:              c.Modes.Shuffle,
		Continue:             c.ContinueEnabled(),
		Intro:                c.Modes.Intro,
		IntroBegin:           begin,
		IntroLength:          length,
		CoverShuffle:         c.Covers.Shuffle,
		CoverChangeEachTrack: c.Covers.ChangeEachTrack,
		VisiblePlanned:       c.GetQueueConfig().VisiblePlanned,
	}
}

// itemsForPaths resolves command line paths, files or directories, to
// collection items in collection order.
func itemsForPaths(coll *collection.Collection, paths []string) ([]*playqueue.Item, error) {
	var items []*playqueue.Item
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		files := coll.FilesUnder(abs)
		if len(files) == 0 {
			return nil, fmt.Errorf("no collection files under %s", p)
		}
		items = append(items, playqueue.NewItems(files)...)
	}
	return items, nil
}
