// Package config loads adcanvas settings from a TOML file.
//
// A missing file is not an error: every field has a default, and a file only
// needs the keys it overrides.
//
//	[analysis]
//	sample_width = 420
//	timeout = "1200ms"
//
//	[analysis.tuning]
//	variance_weight = 8.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/placement"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

const appName = "adcanvas"

// Duration is a time.Duration that decodes from strings like "1200ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Fonts    Fonts    `toml:"fonts"`
}

// Analysis configures placement analysis.
type Analysis struct {
	SampleWidth int              `toml:"sample_width"`
	Timeout     Duration         `toml:"timeout"`
	Tuning      placement.Tuning `toml:"tuning"`
}

// Cache configures the plan cache.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"` // empty: $XDG_CACHE_HOME/adcanvas
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Fonts maps treatment font names to TTF files that replace the built-in
// faces, e.g. go-bold = "/usr/share/fonts/Brand-Bold.ttf".
type Fonts map[string]string

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Analysis: Analysis{
			SampleWidth: 420,
			Timeout:     Duration{1200 * time.Millisecond},
			Tuning:      placement.DefaultTuning(),
		},
		Cache: Cache{
			Backend:     CacheFile,
			TTL:         Duration{7 * 24 * time.Hour},
			RedisAddr:   "localhost:6379",
			RedisPrefix: appName + ":",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 48 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/adcanvas/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Analysis.SampleWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.sample_width must be positive")
	}
	if c.Analysis.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.timeout must be positive")
	}
	t := c.Analysis.Tuning
	if t.VarianceWeight < 0 || t.EdgeWeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.tuning weights must not be negative")
	}
	if t.ScrimClutterThreshold < 0 || t.ScrimClutterThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.tuning.scrim_clutter_threshold must be in [0,1]")
	}
	if t.ScrimContrastThreshold < 1 || t.ScrimContrastThreshold > 21 || t.MinContrast < 1 || t.MinContrast > 21 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.tuning contrast thresholds must be in [1,21]")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	for name, path := range c.Fonts {
		if name == "" || path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "fonts entries need a name and a path")
		}
	}
	return nil
}
