// Package config loads panetree settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/panetree/config.toml unless a path is
// given explicitly. A missing file yields the defaults. Command-line flags
// override whatever the file sets.
//
//	[render]
//	width = 1280
//	height = 720
//
//	[layout]
//	resize_on_promote = false
//
//	[cache]
//	backend = "file"   # none, file, redis or mongo
//	dir = ""
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//	connect_attempts = 3   # redis and mongo pings when the cache opens
//	connect_backoff = "1s" # doubled after each failed ping
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/panetree/pkg/cache"
	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/pipeline"
)

const appName = "panetree"

// Config is the decoded configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

type RenderConfig struct {
	Width    int  `toml:"width"`
	Height   int  `toml:"height"`
	Branches bool `toml:"branches"`
}

type LayoutConfig struct {
	ResizeOnPromote bool `toml:"resize_on_promote"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisURL      string   `toml:"redis_url"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`

	ConnectAttempts int      `toml:"connect_attempts"`
	ConnectBackoff  Duration `toml:"connect_backoff"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{Width: pipeline.DefaultWidth, Height: pipeline.DefaultHeight},
		Cache: CacheConfig{
			Backend:         cache.BackendFile,
			TTL:             Duration{cache.TTLLayout},
			ConnectAttempts: cache.DefaultRetry.Attempts,
			ConnectBackoff:  Duration{cache.DefaultRetry.Backoff},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the location of the user's config file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the config at path over the defaults. An empty path means
// [DefaultPath], and a missing default file is not an error. A missing
// explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		notExist := errors.Is(err, fs.ErrNotExist)
		if notExist && !explicit {
			return Default(), nil
		}
		if notExist {
			return cfg, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and the cache backend name.
func (c Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Cache.ConnectAttempts < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache connect_attempts must be at least 1, got %d", c.Cache.ConnectAttempts)
	}
	if c.Cache.ConnectBackoff.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache connect_backoff cannot be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// CacheOptions converts the [cache] section for cache.Open.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisURL:      c.Cache.RedisURL,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
		Retry: cache.RetryPolicy{
			Attempts: c.Cache.ConnectAttempts,
			Backoff:  c.Cache.ConnectBackoff.Duration,
		},
	}
}

// PipelineOptions returns pipeline options seeded from the file.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		ResizeOnPromote: c.Layout.ResizeOnPromote,
		Width:           c.Render.Width,
		Height:          c.Render.Height,
		Branches:        c.Render.Branches,
		TTL:             c.Cache.TTL.Duration,
	}
}
