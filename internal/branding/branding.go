// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml in this directory; //go:embed bakes it into the
// binary so no runtime lookup is needed.
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
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	YarnInstallURL string `yaml:"yarn_install_url"`
	RegistryHost   string `yaml:"registry_host"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:        "pkgen",
			DisplayName:    "pkgen",
			Description:    "Generate a TypeScript package skeleton",
			HomeDir:        ".pkgen",
			EnvPrefix:      "PKGEN",
			YarnInstallURL: "https://yarnpkg.com/en/docs/install",
			RegistryHost:   "registry.yarnpkg.com",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "pkgen").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".pkgen").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PKGEN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// YarnInstallURL is printed when yarn is missing from PATH.
func YarnInstallURL() string { load(); return defaults.YarnInstallURL }

// RegistryHost is the package registry hostname probed before installing.
func RegistryHost() string { load(); return defaults.RegistryHost }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PKGEN_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
