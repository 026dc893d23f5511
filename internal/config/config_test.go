package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "./data/tripsplit.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\nlog_level: debug\ndb_path: /tmp/from-file.db\n"), 0o644))

	t.Setenv("DB_PATH", "/tmp/from-env.db")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/from-env.db", cfg.DBPath)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "70000"}},
		{"bad level", map[string]string{"LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("TRIPSPLIT_TEST_DIR", "/srv/trips")

	assert.Equal(t, filepath.Join(home, "db/trips.db"), ExpandPath("~/db/trips.db"))
	assert.Equal(t, "/srv/trips/trips.db", ExpandPath("$TRIPSPLIT_TEST_DIR/trips.db"))
	assert.Equal(t, "", ExpandPath(""))
}
