package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithEnv("", envFrom(nil))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.Equal(t, time.Hour, cfg.CacheTTL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := LoadWithEnv("", envFrom(map[string]string{
		"PORT":              "9090",
		"CACHE_MAX_SIZE":    "5",
		"CACHE_TTL_SECONDS": "30",
		"LOG_LEVEL":         "debug",
		"CORS_ORIGINS":      "http://a.test, http://b.test",
		"MAX_OPERAND":       "42",
	}))
	require.NoError(t, err)

	want := Default()
	want.Port = "9090"
	want.CacheMaxSize = 5
	want.CacheTTLSeconds = 30
	want.LogLevel = "debug"
	want.CORSOrigins = []string{"http://a.test", "http://b.test"}
	want.MaxOperand = 42
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_max_size: 7\ncache_ttl_seconds: 15\nport: \"8100\"\n"), 0o600))

	cfg, err := LoadWithEnv("", envFrom(map[string]string{
		"CONFIG_FILE": path,
		"PORT":        "8200",
	}))
	require.NoError(t, err)
	require.Equal(t, 7, cfg.CacheMaxSize)
	require.Equal(t, 15*time.Second, cfg.CacheTTL())
	require.Equal(t, "8200", cfg.Port)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("cache_max_size = 3\nlog_format = \"json\"\ncors_origins = [\"http://x.test\"]\n"), 0o600))

	cfg, err := LoadWithEnv(path, envFrom(nil))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.CacheMaxSize)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, []string{"http://x.test"}, cfg.CORSOrigins)
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadWithEnv("", envFrom(map[string]string{"CACHE_MAX_SIZE": "lots"}))
	require.ErrorContains(t, err, "CACHE_MAX_SIZE")

	_, err = LoadWithEnv("", envFrom(map[string]string{"CACHE_MAX_SIZE": "0"}))
	require.ErrorContains(t, err, "cache_max_size must be positive")

	_, err = LoadWithEnv("", envFrom(map[string]string{"CACHE_TTL_SECONDS": "-1"}))
	require.ErrorContains(t, err, "cache_ttl_seconds must not be negative")

	_, err = LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), envFrom(nil))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err = LoadWithEnv(path, envFrom(nil))
	require.ErrorContains(t, err, "unsupported config format")
}
