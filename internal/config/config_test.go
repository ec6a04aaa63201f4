package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
channel:
  list_type: "0x02"
store:
  path: /var/lib/chlist/channels.db
watch:
  debounce: 2s
`), 0o644))

	cfg, err := Load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "0x02", cfg.Channel.ListType)
	assert.Equal(t, "0", cfg.Channel.SatelliteID)
	assert.Equal(t, "/var/lib/chlist/channels.db", cfg.Store.Path)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadEnvOverrides(t *testing.T) {
	env := map[string]string{
		"CHLIST_LOG_LEVEL":      "warn",
		"CHLIST_SATELLITE_ID":   "19.2E",
		"CHLIST_DB":             "other.db",
		"CHLIST_WATCH_DEBOUNCE": "50ms",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := Load("", lookup)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "19.2E", cfg.Channel.SatelliteID)
	assert.Equal(t, "other.db", cfg.Store.Path)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad level":     "logging:\n  level: loud\n",
		"bad format":    "logging:\n  format: xml\n",
		"empty list":    "channel:\n  list_type: \"\"\n",
		"bad yaml":      "logging: [\n",
		"negative wait": "watch:\n  debounce: -1s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chlist.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path, noEnv)
			assert.Error(t, err)
		})
	}

	_, err := Load("", func(key string) (string, bool) {
		return "soon", key == "CHLIST_WATCH_DEBOUNCE"
	})
	assert.Error(t, err)
}

func TestLoggerFromConfig(t *testing.T) {
	cfg := Default()
	log, err := cfg.Logger(os.Stderr)
	require.NoError(t, err)
	assert.NotNil(t, log)
}
