package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range Keys() {
		t.Setenv("JSDB_"+strings.ToUpper(k), "")
	}
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	clearEnv(t)
	s := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, s.Load())
	assert.Equal(t, "30s", s.Get(KeyTimeout))
	assert.Equal(t, "warn", s.LogLevel())
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	path := writeSettings(t, "server_url: https://db.example.com\napi_key: file-key\ntimeout: 45s\n")
	s := New(path)
	require.NoError(t, s.Load())

	cfg, err := s.Connection()
	require.NoError(t, err)
	assert.Equal(t, "https://db.example.com", cfg.ServerURL)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeSettings(t, "server_url: not-a-url\nverbose: true\n")
	err := New(path).Load()
	require.Error(t, err)

	var invalid *InvalidFileError
	require.True(t, errors.As(err, &invalid), "want *InvalidFileError, got %T", err)
	assert.Equal(t, path, invalid.Path)
	assert.GreaterOrEqual(t, len(invalid.Issues), 2)
	assert.Contains(t, err.Error(), "/server_url")
}

func TestPrecedenceFlagEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeSettings(t, "server_url: https://file.example.com\napi_key: file-key\n")

	t.Setenv("JSDB_SERVER_URL", "https://env.example.com")
	t.Setenv("JSDB_API_KEY", "env-key")

	fs := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
	fs.String("serverUrl", "", "")
	fs.String("apiKey", "", "")
	fs.Duration("timeout", 30*time.Second, "")
	require.NoError(t, fs.Parse([]string{"--apiKey", "flag-key"}))

	s := New(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.BindFlags(fs))

	cfg, err := s.Connection()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.ServerURL, "env beats file")
	assert.Equal(t, "flag-key", cfg.APIKey, "flag beats env")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestConnectionMissingSettings(t *testing.T) {
	clearEnv(t)
	s := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, s.Load())

	_, err := s.Connection()
	require.Error(t, err)
	var se *SettingError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KeyServerURL, se.Key)
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "--serverUrl")
	assert.Contains(t, err.Error(), "JSDB_SERVER_URL")

	t.Setenv("JSDB_SERVER_URL", "https://db.example.com")
	_, err = s.Connection()
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KeyAPIKey, se.Key)
	assert.Contains(t, err.Error(), "--apiKey")
}

func TestConnectionInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSDB_SERVER_URL", "https://db.example.com")
	t.Setenv("JSDB_API_KEY", "k")
	t.Setenv("JSDB_TIMEOUT", "soon")

	s := New(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := s.Connection()
	var se *SettingError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KeyTimeout, se.Key)
}

func TestConnectionInvalidURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSDB_SERVER_URL", "ftp://db.example.com")
	t.Setenv("JSDB_API_KEY", "k")

	_, err := New(filepath.Join(t.TempDir(), "absent.yaml")).Connection()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server_url")
}

func TestSetWritesOnlyFileValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSDB_API_KEY", "env-secret")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := New(path)
	require.NoError(t, s.Set(KeyServerURL, "https://db.example.com"))
	require.NoError(t, s.Set(KeyTimeout, "1m"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "server_url: https://db.example.com")
	assert.Contains(t, content, "timeout: 1m")
	assert.NotContains(t, content, "env-secret")
	assert.NotContains(t, content, "log_level")

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	reloaded := New(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "https://db.example.com", reloaded.Get(KeyServerURL))
}

func TestSetRejectsUnknownKeyAndInvalidValue(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := New(path)

	err := s.Set("mirror", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")

	err = s.Set(KeyLogLevel, "loud")
	require.Error(t, err)
	var invalid *InvalidFileError
	assert.True(t, errors.As(err, &invalid))

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing should be written")
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "serverUrl", FlagName(KeyServerURL))
	assert.Equal(t, "apiKey", FlagName(KeyAPIKey))
	assert.True(t, IsKnownKey(KeyTimeout))
	assert.False(t, IsKnownKey("mirror"))
	assert.Equal(t, []string{"api_key", "log_level", "server_url", "timeout"}, Keys())
}
