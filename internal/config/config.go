package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "jukebox"

type Config struct {
	Collection CollectionConfig `koanf:"collection"`
	Devices    []DeviceConfig   `koanf:"devices"`
	Modes      ModesConfig      `koanf:"modes"`
	Intro      IntroConfig      `koanf:"intro"`
	Queue      QueueConfig      `koanf:"queue"`
	Startup    StartupConfig    `koanf:"startup"`
	Covers     CoversConfig     `koanf:"covers"`
	Log        LogConfig        `koanf:"log"`
	Events     EventsConfig     `koanf:"events"`
	Metrics    MetricsConfig    `koanf:"metrics"`

	Notifications *bool `koanf:"notifications"` // desktop notifications on launch (default: true)
	MPRIS         *bool `koanf:"mpris"`         // D-Bus media controls (default: true)
}

// CollectionConfig selects the music to scan.
type CollectionConfig struct {
	Roots   []string `koanf:"roots"`
	Restart bool     `koanf:"restart"` // wrap around at the end of the collection
}

// DeviceConfig declares a storage device holding part of the collection.
type DeviceConfig struct {
	Name         string `koanf:"name"`
	Path         string `koanf:"path"`
	MountCommand string `koanf:"mount_command"`
	Removable    bool   `koanf:"removable"`
}

// ModesConfig holds the playback modes applied at startup.
type ModesConfig struct {
	Repeat   bool  `koanf:"repeat"`
	Shuffle  bool  `koanf:"shuffle"`
	Continue *bool `koanf:"continue"` // default: true
	Intro    bool  `koanf:"intro"`
}

// IntroConfig shapes intro mode.
type IntroConfig struct {
	Begin  int `koanf:"begin"`  // percent of the track (0-99, default: 20)
	Length int `koanf:"length"` // seconds (default: 15)
}

// QueueConfig tunes the play queue.
type QueueConfig struct {
	VisiblePlanned int    `koanf:"visible_planned"` // planned tracks shown (0-100, default: 10)
	Workers        int    `koanf:"workers"`         // concurrent push tasks (default: 4)
	File           string `koanf:"file"`            // committed queue path (default: XDG data dir)
}

// StartupMode selects what plays when the program starts.
type StartupMode string

const (
	StartupNothing     StartupMode = "nothing"
	StartupLast        StartupMode = "last"
	StartupLastKeepPos StartupMode = "last_keep_pos"
	StartupShuffle     StartupMode = "shuffle"
)

var startupModes = []StartupMode{StartupNothing, StartupLast, StartupLastKeepPos, StartupShuffle}

// StartupConfig holds the startup behavior.
type StartupConfig struct {
	Mode StartupMode `koanf:"mode"`
}

// CoversConfig controls cover notifications.
type CoversConfig struct {
	Shuffle         bool `koanf:"shuffle"`
	ChangeEachTrack bool `koanf:"change_each_track"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: info)
	File  string `koanf:"file"`  // default: XDG state dir
}

// EventsConfig enables forwarding queue events to Redis.
type EventsConfig struct {
	RedisAddr    string `koanf:"redis_addr"`
	RedisChannel string `koanf:"redis_channel"` // default: jukebox.events
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // e.g. ":9090"; empty disables
}

// Load merges the user and working directory config files, last wins.
func Load() (*Config, error) {
	var paths []string
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	return load(paths)
}

// LoadFrom loads a single explicit config file.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return load([]string{path})
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, root := range cfg.Collection.Roots {
		cfg.Collection.Roots[i] = expandPath(root)
	}
	for i := range cfg.Devices {
		cfg.Devices[i].Path = expandPath(cfg.Devices[i].Path)
	}
	cfg.Queue.File = expandPath(cfg.Queue.File)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/jukebox/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ContinueEnabled returns the startup continue mode, on unless disabled.
func (c *Config) ContinueEnabled() bool {
	return c.Modes.Continue == nil || *c.Modes.Continue
}

// NotificationsEnabled returns true unless notifications are disabled.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled returns true unless MPRIS is disabled.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// GetIntroConfig returns the intro window with defaults applied.
func (c *Config) GetIntroConfig() (begin int, length time.Duration) {
	begin = c.Intro.Begin
	if begin < 0 || begin > 99 {
		begin = 20
	}
	seconds := c.Intro.Length
	if seconds <= 0 {
		seconds = 15
	}
	return begin, time.Duration(seconds) * time.Second
}

// GetQueueConfig returns the queue configuration with defaults applied.
func (c *Config) GetQueueConfig() QueueConfig {
	cfg := c.Queue

	if cfg.VisiblePlanned < 0 || cfg.VisiblePlanned > 100 {
		cfg.VisiblePlanned = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.DataHome, appName, "queue.txt")
	}

	return cfg
}

// GetStartupMode returns the startup mode, defaulting to last.
func (c *Config) GetStartupMode() StartupMode {
	mode := StartupMode(strings.ToLower(string(c.Startup.Mode)))
	if !slices.Contains(startupModes, mode) {
		return StartupLast
	}
	return mode
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}

// HasRedisConfig returns true if event forwarding is configured.
func (c *Config) HasRedisConfig() bool {
	return c.Events.RedisAddr != ""
}

// GetEventsConfig returns the events configuration with defaults applied.
func (c *Config) GetEventsConfig() EventsConfig {
	cfg := c.Events
	if cfg.RedisChannel == "" {
		cfg.RedisChannel = appName + ".events"
	}
	return cfg
}
