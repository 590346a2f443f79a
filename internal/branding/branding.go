// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	ProjectDir  string `yaml:"project_dir"`
	BundleName  string `yaml:"bundle_name"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "jsdb",
			DisplayName: "JSDB",
			Description: "Scaffold and deploy JSDB projects",
			Version:     "0.0.2",
			ProjectDir:  ".jsdb",
			BundleName:  "jsdbbundle.zip",
			HomeDir:     ".jsdbcli",
			EnvPrefix:   "JSDB",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "jsdb").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "JSDB").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// Version returns the release version used when no version is injected via ldflags.
func Version() string { load(); return defaults.Version }

// ProjectDir returns the marker directory created by "init" (e.g., ".jsdb").
func ProjectDir() string { load(); return defaults.ProjectDir }

// BundleName returns the file name of the temporary deploy archive.
func BundleName() string { load(); return defaults.BundleName }

// HomeDir returns the dot-directory name under $HOME holding user settings.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "JSDB").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("api_key") → "JSDB_API_KEY".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
