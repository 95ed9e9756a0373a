package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Server.AuthEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTLDuration())
	assert.Equal(t, "sonar-pro", cfg.Sources.Research.Model)
	assert.Equal(t, 30*time.Second, cfg.Sources.Research.TimeoutDuration())
	assert.Equal(t, 20*time.Second, cfg.Sources.Geocoding.TimeoutDuration())
	assert.False(t, cfg.Sources.SwiftDirectory.Enabled())
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, AuditMemory, cfg.Audit.Sink)
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.WindowDuration())
	assert.False(t, cfg.RateLimit.Disabled)
}

func TestLoadFile_FileOverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	base := writeFile(t, dir, "base.toml", `
log_level = "debug"

[server]
addr = ":9000"

[sources.swift_directory]
api_key = "from-file"
premium = false

[batch]
concurrency = 4
`)
	writeFile(t, dir, "config.staging.toml", `
[server]
addr = ":9100"

[sources.swift_directory]
premium = true
`)
	t.Setenv(EnvTradeverifyEnv, "staging")
	t.Setenv("API_NINJAS_KEY", "from-env")
	t.Setenv("UNLOCODE_CSV_PATH", "/data/unlocode")

	cfg, err := LoadFile(base)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.Server.Addr, "overlay wins over base")
	assert.Equal(t, "from-env", cfg.Sources.SwiftDirectory.APIKey, "env wins over file")
	assert.True(t, cfg.Sources.SwiftDirectory.Premium)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "/data/unlocode", cfg.Gazetteer.Path)
	assert.Equal(t, "staging", cfg.Env())
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad shutdown timeout", body: `shutdown_timeout = "soon"`},
		{name: "bad log format", body: `log_format = "xml"`},
		{name: "redis cache without url", body: "[cache]\nbackend = \"redis\""},
		{name: "unknown cache backend", body: "[cache]\nbackend = \"memcached\""},
		{name: "kafka without brokers", body: "[audit]\nsink = \"kafka\""},
		{name: "bad source timeout", body: "[sources.research]\ntimeout = \"-1s\""},
		{name: "bad ratelimit window", body: "[ratelimit]\nwindow = \"0s\""},
		{name: "negative ratelimit requests", body: "[ratelimit]\nrequests = -5"},
		{name: "zero concurrency from env", env: map[string]string{EnvBatchConcurrency: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, dir, "config.toml", tt.body)

			_, err := LoadFile(path)
			require.Error(t, err)
		})
	}
}

func TestCacheFinalize_DefaultsToRedisWhenConfigured(t *testing.T) {
	c := CacheConfig{}
	require.NoError(t, c.Finalize(true))
	assert.Equal(t, CacheRedis, c.Backend)
}
