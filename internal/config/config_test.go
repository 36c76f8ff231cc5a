package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 10, cfg.Feed.ActivityCap)
	assert.Equal(t, 5, cfg.Feed.ConnectionCap)
	assert.False(t, cfg.Feed.SortBeforeCap)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
store:
  driver: postgres
  seed: false
database:
  host: db
  port: 5433
  user: volunteer
  password: secret
  dbname: network
  sslmode: require
feed:
  activity_cap: 3
  sort_before_cap: true
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.False(t, cfg.Store.Seed)
	assert.Equal(t, 3, cfg.Feed.ActivityCap)
	assert.Equal(t, 5, cfg.Feed.ConnectionCap)
	assert.True(t, cfg.Feed.SortBeforeCap)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "host=db port=5433 user=volunteer password=secret dbname=network sslmode=require", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.DSN())
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "store:\n  driver: sqlite\n"},
		{"zero activity cap", "feed:\n  activity_cap: 0\n"},
		{"negative connection cap", "feed:\n  connection_cap: -1\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
