package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.History.Capacity)
	assert.Equal(t, 1000, cfg.Limits.MaxNodes)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errs.Code
		check    func(t *testing.T, cfg Config)
	}{
		{
			name:  "Empty",
			input: ``,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "Overrides",
			input: `
[layout]
default = "radial"
ring_spacing = 90

[history]
capacity = 10

[cache]
ttl = "2h"
`,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "radial", cfg.Layout.Default)
				assert.Equal(t, 90.0, cfg.Layout.RingSpacing)
				assert.Equal(t, 10, cfg.History.Capacity)
				assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
				// Untouched sections keep defaults.
				assert.Equal(t, Default().Limits, cfg.Limits)
			},
		},
		{
			name:     "UnknownKey",
			input:    "[layout]\nspacing = 3\n",
			wantCode: errs.ErrCodeInvalidConfig,
		},
		{
			name:     "BadLayoutKind",
			input:    "[layout]\ndefault = \"spiral\"\n",
			wantCode: errs.ErrCodeInvalidConfig,
		},
		{
			name:     "RedisWithoutAddr",
			input:    "[store]\nbackend = \"redis\"\n",
			wantCode: errs.ErrCodeInvalidConfig,
		},
		{
			name:     "ZeroCapacity",
			input:    "[history]\ncapacity = 0\n",
			wantCode: errs.ErrCodeInvalidConfig,
		},
		{
			name:     "NotTOML",
			input:    "[layout\n",
			wantCode: errs.ErrCodeInvalidConfig,
		},
		{
			name: "Mongo",
			input: `
[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
`,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, BackendMongo, cfg.Store.Backend)
				assert.Equal(t, "documents", cfg.Store.MongoCollection)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errs.GetCode(err), err.Error())
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Layout.Horizontal = true
	cfg.Store.Backend = BackendRedis
	cfg.Store.RedisAddr = "localhost:6379"

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Missing default file is fine.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Missing explicit file is not.
	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	// Default file is picked up.
	path, err := DefaultPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLayoutOptions(t *testing.T) {
	cfg := Default()
	cfg.Layout.Default = "tree"
	cfg.Layout.Horizontal = true
	cfg.Layout.Iterations = 10

	opts, err := cfg.LayoutOptions()
	require.NoError(t, err)
	assert.Equal(t, layout.KindTree, opts.Kind)
	assert.True(t, opts.Tree.Horizontal)
	assert.Equal(t, 10, opts.Force.Iterations)
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := CacheDir()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".cache", AppName), dir)
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(customCache, AppName), dir)
}

func TestConfiguredDirsWin(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	cfg := Default()

	dir, err := cfg.StoreDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", AppName, "documents"), dir)

	cfg.Store.Dir = "/srv/diagrams"
	cfg.Cache.Dir = "/srv/cache"
	dir, _ = cfg.StoreDir()
	assert.Equal(t, "/srv/diagrams", dir)
	dir, _ = cfg.CacheDir()
	assert.Equal(t, "/srv/cache", dir)
}
