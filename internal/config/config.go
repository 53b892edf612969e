package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkgen-dev/pkgen/internal/branding"
	"github.com/pkgen-dev/pkgen/internal/platform"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyLicense      = "license"
	KeyFlavor       = "flavor"
	KeyRegistryHost = "registry_host"
	KeyYarnURL      = "package_manager_url"
	KeyJournal      = "journal"
)

// Keys lists every key understood by the CLI, in display order.
var Keys = []string{KeyLicense, KeyFlavor, KeyRegistryHost, KeyYarnURL, KeyJournal}

// Dir returns the path to the config directory (~/.pkgen/).
// PKGEN_HOME overrides the location.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pkgen/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// JournalPath returns the sqlite journal location, honoring the "journal" key.
func JournalPath() string {
	if v := Get(KeyJournal); v != "" {
		return v
	}
	return filepath.Join(Dir(), "history.db")
}

// EnsureDir creates the config directory if it does not exist. The directory
// is private to the current user.
func EnsureDir() error {
	if err := platform.PrivateDir(Dir()); err != nil {
		return fmt.Errorf("preparing config directory: %w", err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyLicense, "MIT")
	viper.SetDefault(KeyFlavor, "library")
	viper.SetDefault(KeyRegistryHost, branding.RegistryHost())
	viper.SetDefault(KeyYarnURL, branding.YarnInstallURL())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnown reports whether key is one of Keys.
func IsKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair to the config file. Only values
// already in the file and the new one are saved; defaults and environment
// overrides stay out of it.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := platform.PrivateFile(configFile); err != nil {
		return err
	}

	viper.Set(key, value)
	return nil
}
