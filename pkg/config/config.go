// Package config loads canopy's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/canopy/config.toml (falling back to
// ~/.config/canopy/config.toml). Every section is optional; missing keys keep
// their defaults. Unknown keys are rejected so typos do not silently fall
// back to defaults.
//
//	[layout]
//	default = "auto"
//	horizontal = false
//
//	[history]
//	capacity = 50
//
//	[limits]
//	max_nodes = 1000
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/canopy/pkg/document"
	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/history"
	"github.com/matzehuels/canopy/pkg/layout"
)

// AppName is used for XDG directories and file names.
const AppName = "canopy"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var validate = validator.New()

// Config is the full configuration file.
type Config struct {
	Layout  LayoutConfig    `toml:"layout"`
	History HistoryConfig   `toml:"history"`
	Limits  document.Limits `toml:"limits"`
	Store   StoreConfig     `toml:"store"`
	Cache   CacheConfig     `toml:"cache"`
	Log     LogConfig       `toml:"log"`
}

// LayoutConfig holds layout defaults. Zero spacings keep the built-in
// values.
type LayoutConfig struct {
	Default        string  `toml:"default" validate:"oneof=auto tree radial force"`
	Horizontal     bool    `toml:"horizontal"`
	SiblingSpacing float64 `toml:"sibling_spacing" validate:"gte=0"`
	LevelSpacing   float64 `toml:"level_spacing" validate:"gte=0"`
	RingSpacing    float64 `toml:"ring_spacing" validate:"gte=0"`
	Iterations     int     `toml:"iterations" validate:"gte=0,lte=10000"`
	Repulsion      float64 `toml:"repulsion" validate:"gte=0"`
	Attraction     float64 `toml:"attraction" validate:"gte=0"`
	Damping        float64 `toml:"damping" validate:"gte=0,lte=1"`
}

// HistoryConfig sizes the undo stack.
type HistoryConfig struct {
	Capacity int `toml:"capacity" validate:"gte=1,lte=1000"`
}

// StoreConfig selects where documents are saved.
type StoreConfig struct {
	Backend string        `toml:"backend" validate:"oneof=file redis mongo"`
	Dir     string        `toml:"dir"`
	Timeout time.Duration `toml:"timeout" validate:"gte=0"`

	RedisAddr     string `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"gte=0"`
	KeyPrefix     string `toml:"key_prefix"`

	MongoURI        string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend" validate:"oneof=file redis none"`
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	KeyPrefix string        `toml:"key_prefix"`
}

// LogConfig sets the default log level; --verbose overrides it.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:  LayoutConfig{Default: layout.KindAuto.String()},
		History: HistoryConfig{Capacity: history.DefaultCapacity},
		Limits:  document.DefaultLimits(),
		Store: StoreConfig{
			Backend:         BackendFile,
			Timeout:         5 * time.Second,
			KeyPrefix:       AppName,
			MongoDatabase:   AppName,
			MongoCollection: "documents",
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       24 * time.Hour,
			KeyPrefix: AppName,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path on top of the defaults. An empty path reads
// DefaultPath and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r on top of the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// LayoutOptions converts the layout section for layout.Apply.
func (c Config) LayoutOptions() (layout.Options, error) {
	kind, err := layout.ParseKind(c.Layout.Default)
	if err != nil {
		return layout.Options{}, err
	}
	return layout.Options{
		Kind: kind,
		Tree: layout.TreeConfig{
			Horizontal:     c.Layout.Horizontal,
			SiblingSpacing: c.Layout.SiblingSpacing,
			LevelSpacing:   c.Layout.LevelSpacing,
		},
		Radial: layout.RadialConfig{RingSpacing: c.Layout.RingSpacing},
		Force: layout.ForceConfig{
			Iterations: c.Layout.Iterations,
			Repulsion:  c.Layout.Repulsion,
			Attraction: c.Layout.Attraction,
			Damping:    c.Layout.Damping,
		},
	}, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		ns := e.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", ns, e.Param()))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required when %s", ns, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", ns, e.Tag(), e.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// =============================================================================
// Paths
// =============================================================================

// xdgDir returns $env/canopy, or ~/fallback/canopy when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// Dir returns the configuration directory (~/.config/canopy/).
func Dir() (string, error) { return xdgDir("XDG_CONFIG_HOME", ".config") }

// CacheDir returns the cache directory using XDG standard (~/.cache/canopy/).
func CacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// DataDir returns the data directory (~/.local/share/canopy/).
func DataDir() (string, error) { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StoreDir returns the configured document directory, or DataDir/documents.
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "documents"), nil
}

// CacheDir returns the configured cache directory, or the XDG cache dir.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}
