// Package config manages user-level settings stored at ~/.pkgen/config.yaml.
// It provides functions to load, read, and write defaults such as the license
// offered at the prompt, the default flavor, and the registry host probed
// before dependency installation.
package config
