package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/jsdb-labs/jsdb/internal/jsdb"
	"github.com/jsdb-labs/jsdb/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys, as they appear in the settings file.
const (
	KeyServerURL = "server_url"
	KeyAPIKey    = "api_key"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log_level"
)

// flagNames maps setting keys to the command-line flags that override them.
var flagNames = map[string]string{
	KeyServerURL: "serverUrl",
	KeyAPIKey:    "apiKey",
	KeyTimeout:   "timeout",
	KeyLogLevel:  "log-level",
}

// ErrMissingSetting is wrapped by SettingError when a required value is unset.
var ErrMissingSetting = errors.New("not set")

// SettingError reports a missing or unusable setting.
type SettingError struct {
	Key string
	Err error
}

func (e *SettingError) Error() string {
	if errors.Is(e.Err, ErrMissingSetting) {
		return fmt.Sprintf("%s is required: pass --%s, set %s, or run '%s config set %s <value>'",
			e.Key, FlagName(e.Key), branding.EnvVar(e.Key), branding.CLIName(), e.Key)
	}
	return fmt.Sprintf("invalid %s: %v", e.Key, e.Err)
}

func (e *SettingError) Unwrap() error { return e.Err }

// Keys returns the known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(flagNames))
	for k := range flagNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlagName returns the flag that overrides key.
func FlagName(key string) string {
	return flagNames[key]
}

// IsKnownKey reports whether key is a recognised setting.
func IsKnownKey(key string) bool {
	_, ok := flagNames[key]
	return ok
}

// Dir returns the path to the settings directory (~/.jsdbcli/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the default settings file path (~/.jsdbcli/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Settings resolves configuration values for one CLI invocation.
type Settings struct {
	v    *viper.Viper
	path string
}

// New creates Settings backed by the file at path. Nothing is read until Load.
func New(path string) *Settings {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	v.SetDefault(KeyTimeout, jsdb.DefaultTimeout.String())
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	return &Settings{v: v, path: path}
}

// Path returns the settings file path.
func (s *Settings) Path() string {
	return s.path
}

// Load validates and reads the settings file. A missing file is not an error.
func (s *Settings) Load() error {
	result, err := ValidateFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidFileError{Path: s.path, Issues: result.Issues}
	}

	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading settings %s: %w", s.path, err)
	}
	return nil
}

// BindFlags binds every known setting whose flag exists in fs, so an
// explicitly passed flag wins over the environment and the file.
func (s *Settings) BindFlags(fs *pflag.FlagSet) error {
	for key, name := range flagNames {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := s.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Get returns a resolved value by key. Returns empty string if not set.
func (s *Settings) Get(key string) string {
	return s.v.GetString(key)
}

// Set writes a key-value pair to the settings file. Only values already in
// the file are persisted alongside it; flags, environment and defaults are not.
func (s *Settings) Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}

	fv := viper.New()
	fv.SetConfigFile(s.path)
	fv.SetConfigType(fileType)
	if _, err := os.Stat(s.path); err == nil {
		if err := fv.ReadInConfig(); err != nil {
			return fmt.Errorf("reading settings %s: %w", s.path, err)
		}
	}
	fv.Set(key, value)

	result, err := ValidateSettings(fv.AllSettings())
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidFileError{Path: s.path, Issues: result.Issues}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", filepath.Dir(s.path), err)
	}
	if err := fv.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	// The file may hold an API key.
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", s.path, err)
	}

	s.v.Set(key, value)
	return nil
}

// Timeout returns the resolved network timeout.
func (s *Settings) Timeout() (time.Duration, error) {
	raw := s.v.GetString(KeyTimeout)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &SettingError{Key: KeyTimeout, Err: err}
	}
	if d <= 0 {
		return 0, &SettingError{Key: KeyTimeout, Err: fmt.Errorf("must be positive, got %s", raw)}
	}
	return d, nil
}

// LogLevel returns the resolved log level name.
func (s *Settings) LogLevel() string {
	return s.v.GetString(KeyLogLevel)
}

// Connection assembles the client configuration from the resolved settings.
func (s *Settings) Connection() (jsdb.Config, error) {
	cfg := jsdb.Config{
		ServerURL: s.v.GetString(KeyServerURL),
		APIKey:    s.v.GetString(KeyAPIKey),
	}
	if cfg.ServerURL == "" {
		return cfg, &SettingError{Key: KeyServerURL, Err: ErrMissingSetting}
	}
	if cfg.APIKey == "" {
		return cfg, &SettingError{Key: KeyAPIKey, Err: ErrMissingSetting}
	}

	timeout, err := s.Timeout()
	if err != nil {
		return cfg, err
	}
	cfg.Timeout = timeout

	if err := cfg.Validate(); err != nil {
		return cfg, &SettingError{Key: KeyServerURL, Err: err}
	}
	return cfg, nil
}
