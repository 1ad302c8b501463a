package cli

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/config"
	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/mpris"
	"github.com/llehouerou/jukebox/internal/notify"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/state"
	"github.com/llehouerou/jukebox/internal/telemetry"
)

// integrations runs the background collaborators of a play session: device
// watching, session checkpoints and the optional MPRIS, notification, Redis
// and metrics outputs.
type integrations struct {
	cancel   context.CancelFunc
	wg       conc.WaitGroup
	closers  []func() error
	logger   zerolog.Logger
	stopOnce sync.Once
}

func startIntegrations(
	ctx context.Context,
	c *config.Config,
	q *playqueue.Queue,
	p player.Interface,
	bus *events.Bus,
	reg *device.Registry,
	coll *collection.Collection,
	st state.Interface,
	logger zerolog.Logger,
) *integrations {
	ctx, cancel := context.WithCancel(ctx)
	in := &integrations{cancel: cancel, logger: logger}

	in.wg.Go(func() {
		reg.Watch(ctx, deviceWatchInterval, deviceChanged(q, bus, logger))
	})

	in.wg.Go(func() { runCheckpoints(ctx, q, p, st) })

	if c.MPRISEnabled() {
		adapter, err := mpris.New(q, p)
		if err != nil {
			logger.Warn().Err(err).Msg("mpris disabled")
		} else {
			in.closers = append(in.closers, adapter.Close)
		}
	}

	if c.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			logger.Warn().Err(err).Msg("desktop notifications disabled")
		} else {
			w := notify.NewWatcher(n, coll.FileByID, logger)
			sub := bus.Subscribe(w.Kinds()...)
			in.wg.Go(func() { w.Run(ctx, sub) })
		}
	}

	if c.HasRedisConfig() {
		ec := c.GetEventsConfig()
		rc := events.DefaultRedisConfig()
		rc.Addr = ec.RedisAddr
		rc.Channel = ec.RedisChannel
		rc.NodeID, _ = os.Hostname()
		fwd, client, err := events.NewRedisForwarder(ctx, rc, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis event forwarding disabled")
		} else {
			sub := bus.Subscribe()
			in.wg.Go(func() { fwd.Run(ctx, sub) })
			in.closers = append(in.closers, client.Close)
		}
	}

	if addr := c.Metrics.Addr; addr != "" {
		in.wg.Go(func() {
			if err := telemetry.Serve(ctx, addr, logger); err != nil {
				logger.Warn().Err(err).Str("addr", addr).Msg("metrics endpoint stopped")
			}
		})
	}

	return in
}

// deviceChanged publishes device changes and drops the queued files of a
// removed device. A device pulled while its files were playing or queued is
// reported as in use.
func deviceChanged(q *playqueue.Queue, bus *events.Bus, logger zerolog.Logger) func(*device.Device, bool) {
	return func(d *device.Device, mounted bool) {
		attrs := events.Attrs{
			events.AttrDevice:  d.Name,
			events.AttrMounted: mounted,
		}
		if mounted {
			bus.Publish(events.DeviceChanged, attrs)
			return
		}
		inUse := !q.CanUnmount(d.ID)
		attrs[events.AttrInUse] = inUse
		bus.Publish(events.DeviceChanged, attrs)
		if inUse {
			logger.Warn().Str("device", d.Name).Msg("device removed while its files were in use")
		}
		if err := q.CleanDeviceAsync(d.ID); err != nil {
			logger.Warn().Err(err).Str("device", d.Name).Msg("failed to schedule device cleanup")
		}
	}
}

// Stop cancels the background work, waits for it and releases resources.
// Calling it again is a no-op.
func (in *integrations) Stop() {
	in.stopOnce.Do(func() {
		in.cancel()
		in.wg.Wait()
		for _, closeFn := range in.closers {
			if err := closeFn(); err != nil {
				in.logger.Debug().Err(err).Msg("integration close failed")
			}
		}
	})
}
