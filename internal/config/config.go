package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tempo"

// Defaults applied by the getters.
const (
	DefaultVolume             = 100
	DefaultLoadTimeout        = 5 * time.Second
	DefaultStuckLoad          = "assume_ready"
	DefaultRestartThreshold   = 3 * time.Second
	DefaultTimeUpdateInterval = 250 * time.Millisecond
	DefaultCacheSize          = 256
	DefaultCacheTTL           = 10 * time.Minute
	DefaultLogLevel           = "info"
	DefaultIcons              = "unicode"
)

type Config struct {
	Playback PlaybackConfig `koanf:"playback"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Resolver ResolverConfig `koanf:"resolver"`
	Log      LogConfig      `koanf:"log"`
	UI       UIConfig       `koanf:"ui"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
}

// PlaybackConfig tunes the session and the audio binder.
type PlaybackConfig struct {
	Volume             *int          `koanf:"volume"`               // initial volume 0-100 (default: 100)
	LoadTimeout        time.Duration `koanf:"load_timeout"`         // fallback window for "ready" (default: 5s)
	StuckLoad          string        `koanf:"stuck_load"`           // "assume_ready" or "error"
	RestartThreshold   time.Duration `koanf:"restart_threshold"`    // previous restarts the track past this (default: 3s)
	TimeUpdateInterval time.Duration `koanf:"time_update_interval"` // position report period (default: 250ms)
}

// CatalogConfig locates the track catalog.
type CatalogConfig struct {
	Path string `koanf:"path"` // default: $XDG_DATA_HOME/tempo/catalog.db
}

// ResolverConfig sizes the source location cache.
type ResolverConfig struct {
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

type LogConfig struct {
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/tempo/tempo.log
	Level string `koanf:"level"` // debug, info, warn, error
}

type UIConfig struct {
	Icons         string `koanf:"icons"`         // "nerd", "unicode", or "none"
	Notifications bool   `koanf:"notifications"` // desktop notification on track change
}

type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// Load reads the configuration. With an explicit path only that file is
// read and it must exist; otherwise the user and working directory files
// are merged, the latter winning.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(expandPath(path)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		for _, p := range getConfigPaths() {
			if _, err := os.Stat(p); err == nil {
				if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
					return nil, fmt.Errorf("load config %s: %w", p, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Catalog.Path = expandPath(cfg.Catalog.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Playback.StuckLoad = strings.ToLower(strings.TrimSpace(cfg.Playback.StuckLoad))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Playback.StuckLoad {
	case "", "assume_ready", "error":
	default:
		return fmt.Errorf("playback.stuck_load: unknown policy %q", c.Playback.StuckLoad)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/tempo/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	vol := DefaultVolume
	if cfg.Volume != nil {
		vol = min(max(*cfg.Volume, 0), 100)
	}
	cfg.Volume = &vol
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.StuckLoad == "" {
		cfg.StuckLoad = DefaultStuckLoad
	}
	if cfg.RestartThreshold <= 0 {
		cfg.RestartThreshold = DefaultRestartThreshold
	}
	if cfg.TimeUpdateInterval <= 0 {
		cfg.TimeUpdateInterval = DefaultTimeUpdateInterval
	}
	return cfg
}

// GetResolverConfig returns the cache settings with defaults applied.
func (c *Config) GetResolverConfig() ResolverConfig {
	cfg := c.Resolver
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return cfg
}

// CatalogPath returns the catalog database path, creating the default
// data directory when no path is configured.
func (c *Config) CatalogPath() (string, error) {
	if c.Catalog.Path != "" {
		return c.Catalog.Path, nil
	}
	return xdg.DataFile(filepath.Join(appName, "catalog.db"))
}

// LogFile returns the log file path, creating the default state directory
// when no path is configured.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// LogLevel returns the configured level name.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return DefaultLogLevel
	}
	return c.Log.Level
}

// Icons returns the icon style name.
func (c *Config) Icons() string {
	if c.UI.Icons == "" {
		return DefaultIcons
	}
	return c.UI.Icons
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.UI.Notifications
}

// MPRISEnabled reports whether the media key integration should start.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}
