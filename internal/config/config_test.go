//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() = %v, want 2 paths", paths)
	}
	if !strings.HasSuffix(paths[0], filepath.Join("tempo", "config.toml")) {
		t.Errorf("first config path = %q, want the user config file", paths[0])
	}
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetPlaybackConfig()

	if cfg.Volume == nil || *cfg.Volume != DefaultVolume {
		t.Errorf("Volume = %v, want %d", cfg.Volume, DefaultVolume)
	}
	if cfg.LoadTimeout != DefaultLoadTimeout {
		t.Errorf("LoadTimeout = %v, want %v", cfg.LoadTimeout, DefaultLoadTimeout)
	}
	if cfg.StuckLoad != DefaultStuckLoad {
		t.Errorf("StuckLoad = %q, want %q", cfg.StuckLoad, DefaultStuckLoad)
	}
	if cfg.RestartThreshold != DefaultRestartThreshold {
		t.Errorf("RestartThreshold = %v, want %v", cfg.RestartThreshold, DefaultRestartThreshold)
	}
	if cfg.TimeUpdateInterval != DefaultTimeUpdateInterval {
		t.Errorf("TimeUpdateInterval = %v, want %v", cfg.TimeUpdateInterval, DefaultTimeUpdateInterval)
	}
}

func TestGetPlaybackConfig_Volume(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero is kept", 0, 0},
		{"in range", 40, 40},
		{"above max", 250, 100},
		{"negative", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			c := &Config{Playback: PlaybackConfig{Volume: &in}}
			if got := *c.GetPlaybackConfig().Volume; got != tt.want {
				t.Errorf("Volume = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetResolverConfig(t *testing.T) {
	tests := []struct {
		name     string
		in       ResolverConfig
		wantSize int
		wantTTL  time.Duration
	}{
		{"defaults", ResolverConfig{}, DefaultCacheSize, DefaultCacheTTL},
		{"invalid", ResolverConfig{CacheSize: -1, CacheTTL: -time.Second}, DefaultCacheSize, DefaultCacheTTL},
		{"custom", ResolverConfig{CacheSize: 8, CacheTTL: time.Minute}, 8, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (&Config{Resolver: tt.in}).GetResolverConfig()
			if got.CacheSize != tt.wantSize {
				t.Errorf("CacheSize = %d, want %d", got.CacheSize, tt.wantSize)
			}
			if got.CacheTTL != tt.wantTTL {
				t.Errorf("CacheTTL = %v, want %v", got.CacheTTL, tt.wantTTL)
			}
		})
	}
}

func TestSimpleGetters(t *testing.T) {
	c := &Config{}
	if c.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", c.LogLevel(), DefaultLogLevel)
	}
	if c.Icons() != DefaultIcons {
		t.Errorf("Icons() = %q, want %q", c.Icons(), DefaultIcons)
	}
	if !c.MPRISEnabled() {
		t.Error("MPRISEnabled() = false, want true by default")
	}

	off := false
	c = &Config{
		Catalog: CatalogConfig{Path: "/data/catalog.db"},
		Log:     LogConfig{File: "/tmp/tempo.log", Level: "debug"},
		UI:      UIConfig{Icons: "nerd"},
		MPRIS:   MPRISConfig{Enabled: &off},
	}
	if p, err := c.CatalogPath(); err != nil || p != "/data/catalog.db" {
		t.Errorf("CatalogPath() = %q, %v", p, err)
	}
	if p, err := c.LogFile(); err != nil || p != "/tmp/tempo.log" {
		t.Errorf("LogFile() = %q, %v", p, err)
	}
	if c.LogLevel() != "debug" || c.Icons() != "nerd" || c.MPRISEnabled() {
		t.Errorf("explicit values not returned: %q %q %v", c.LogLevel(), c.Icons(), c.MPRISEnabled())
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
[playback]
volume = 0
load_timeout = "8s"
stuck_load = "Error"
restart_threshold = "1500ms"

[catalog]
path = "~/music/catalog.db"

[resolver]
cache_size = 32
cache_ttl = "1m"

[log]
level = "DEBUG"

[ui]
icons = "nerd"
notifications = true

[mpris]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pb := cfg.GetPlaybackConfig()
	if *pb.Volume != 0 {
		t.Errorf("Volume = %d, want 0", *pb.Volume)
	}
	if pb.LoadTimeout != 8*time.Second {
		t.Errorf("LoadTimeout = %v, want 8s", pb.LoadTimeout)
	}
	if pb.StuckLoad != "error" {
		t.Errorf("StuckLoad = %q, want %q", pb.StuckLoad, "error")
	}
	if pb.RestartThreshold != 1500*time.Millisecond {
		t.Errorf("RestartThreshold = %v, want 1.5s", pb.RestartThreshold)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "music", "catalog.db"); cfg.Catalog.Path != want {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, want)
	}
	rc := cfg.GetResolverConfig()
	if rc.CacheSize != 32 || rc.CacheTTL != time.Minute {
		t.Errorf("Resolver = %+v", rc)
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if cfg.Icons() != "nerd" {
		t.Errorf("Icons() = %q, want nerd", cfg.Icons())
	}
	if cfg.MPRISEnabled() {
		t.Error("MPRISEnabled() = true, want false")
	}
	if !cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = false, want true")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load() expected error for a missing explicit file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", "invalid = [[["},
		{"unknown stuck load policy", "[playback]\nstuck_load = \"retry\""},
		{"unknown log level", "[log]\nlevel = \"loud\""},
		{"bad duration", "[playback]\nload_timeout = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	if err := os.WriteFile("config.toml", []byte("[ui]\nicons = \"none\"\n"), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// The working directory file has the highest priority.
	if cfg.Icons() != "none" {
		t.Errorf("Icons() = %q, want none", cfg.Icons())
	}
}
