package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// ErrUnknownDevice is returned when a device ID is not registered.
var ErrUnknownDevice = errors.New("unknown device")

// ErrNotMounted is returned when a mount attempt leaves the device unreachable.
var ErrNotMounted = errors.New("device not mounted")

// PartitionsFunc lists mounted partitions.
type PartitionsFunc func(ctx context.Context) ([]disk.PartitionStat, error)

// CommandRunner runs a shell mount command.
type CommandRunner func(ctx context.Context, command string) error

// Registry holds the known devices and probes their mount state.
type Registry struct {
	mu      sync.RWMutex
	devices []*Device
	byID    map[string]*Device

	partitions PartitionsFunc
	run        CommandRunner
	logger     zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithPartitions replaces the partition lister.
func WithPartitions(fn PartitionsFunc) Option {
	return func(r *Registry) { r.partitions = fn }
}

// WithCommandRunner replaces the mount command runner.
func WithCommandRunner(fn CommandRunner) Option {
	return func(r *Registry) { r.run = fn }
}

// WithLogger sets the registry logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry probing partitions through gopsutil.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byID: make(map[string]*Device),
		partitions: func(ctx context.Context) ([]disk.PartitionStat, error) {
			return disk.PartitionsWithContext(ctx, true)
		},
		run:    runShell,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func runShell(ctx context.Context, command string) error {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

// Add registers a device. Adding a mount point twice returns the existing device.
func (r *Registry) Add(d *Device) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[d.ID]; ok {
		return existing
	}
	r.devices = append(r.devices, d)
	r.byID[d.ID] = d
	// Longest mount point first so ForPath picks the most specific device.
	sort.SliceStable(r.devices, func(i, j int) bool {
		return len(r.devices[i].MountPoint) > len(r.devices[j].MountPoint)
	})
	return d
}

// Get returns a device by ID.
func (r *Registry) Get(id string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// Devices returns all registered devices.
func (r *Registry) Devices() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// ForPath returns the most specific device containing path, or nil.
func (r *Registry) ForPath(path string) *Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices {
		if d.Contains(path) {
			return d
		}
	}
	return nil
}

// Refresh probes every device and updates its mount state.
func (r *Registry) Refresh(ctx context.Context) error {
	parts, err := r.partitions(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	for _, d := range r.Devices() {
		d.SetMounted(probe(d, parts))
	}
	return nil
}

func probe(d *Device, parts []disk.PartitionStat) bool {
	info, err := os.Stat(d.MountPoint)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, p := range parts {
		mp := filepath.Clean(p.Mountpoint)
		if d.Removable {
			if mp == d.MountPoint {
				return true
			}
			continue
		}
		if (&Device{MountPoint: mp}).Contains(d.MountPoint) {
			return true
		}
	}
	return false
}

// Mount runs the device mount command, if any, and re-probes the device.
func (r *Registry) Mount(ctx context.Context, d *Device) error {
	if d.MountCommand != "" {
		r.logger.Info().Str("device", d.Name).Str("command", d.MountCommand).Msg("mounting device")
		if err := r.run(ctx, d.MountCommand); err != nil {
			return fmt.Errorf("mount %s: %w", d.Name, err)
		}
	}
	parts, err := r.partitions(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	mounted := probe(d, parts)
	d.SetMounted(mounted)
	if !mounted {
		return fmt.Errorf("mount %s: %w", d.Name, ErrNotMounted)
	}
	return nil
}

// Watch probes devices every interval and calls fn for each device whose
// mount state changed. It returns when ctx is done.
func (r *Registry) Watch(ctx context.Context, interval time.Duration, fn func(d *Device, mounted bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.poll(ctx, fn)
		}
	}
}

func (r *Registry) poll(ctx context.Context, fn func(d *Device, mounted bool)) {
	devices := r.Devices()
	before := make([]bool, len(devices))
	for i, d := range devices {
		before[i] = d.IsMounted()
	}
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("device probe failed")
		return
	}
	for i, d := range devices {
		if now := d.IsMounted(); now != before[i] {
			r.logger.Info().Str("device", d.Name).Bool("mounted", now).Msg("device state changed")
			fn(d, now)
		}
	}
}
