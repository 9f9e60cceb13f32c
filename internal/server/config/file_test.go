package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, dir, "flag.json", map[string]any{
			"endpoint_addr_grpc":             "www.example:9000",
			"database_path":                  "park.db",
			"secret_key":                     "my_secret_key",
			"access_token_validity_duration": "1m",
			"capacity":                       25,
			"tariff_cache_ttl":               "30s",
			"s3_bucket":                      "bucket",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "park.db", cfg.DatabasePath)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 25, cfg.Capacity)
		assert.Equal(t, 30*time.Second, cfg.TariffCacheTTL)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		// untouched keys keep their defaults
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("loads from yaml", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("endpoint_addr_http: \":9999\"\nlog_level: warn\nbackup_dir: /tmp/bk\naccess_token_validity_duration: 2h\n"), 0o600))
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "/tmp/bk", cfg.BackupDir)
		assert.Equal(t, 2*time.Hour, cfg.AccessTokenValidityDuration)
	})

	t.Run("no config flag leaves config alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrGRPC: "defaults:1234", Capacity: 7}
		parseFile(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, 7, cfg.Capacity)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		os.Args = []string{"testbin", "-c", path}

		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
