// SPDX-License-Identifier: MPL-2.0

// Package config loads the foldrun configuration from the platform config
// directory, merging file values over built-in defaults. Flags override both;
// precedence is resolved in the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"foldrun-cli/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "foldrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// Overrides for tests and the --config flag.
var (
	configDirOverride  string
	configFileOverride string
)

// SetConfigFilePathOverride points Load at an explicit config file (--config flag).
func SetConfigFilePathOverride(path string) { configFileOverride = path }

// SetConfigDirOverride points ConfigDir at a custom directory (tests).
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// ConfigDir returns the foldrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the resolved config file path, honoring overrides.
func ConfigFilePath() (string, error) {
	if configFileOverride != "" {
		return configFileOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration, merging the config file (if present) over the
// defaults. A missing file is not an error; a malformed or invalid one is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("samples", defaults.Samples)
	v.SetDefault("recycles", defaults.Recycles)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("verbose", defaults.Verbose)

	path, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid TOML syntax").
				WithSuggestion("Run 'foldrun config init' to recreate the defaults").
				Wrap(err).
				BuildError()
		}
	} else if configFileOverride != "" {
		// An explicitly requested file must exist.
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, issue.WrapWithContext(err, "parse configuration", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, issue.WrapWithContext(err, "validate configuration", path)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration as TOML to the platform config
// path (or the override) and returns the path written. Existing files are not
// overwritten.
func WriteDefault() (string, error) {
	path, err := ConfigFilePath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("encoding default configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing default configuration: %w", err)
	}
	return path, nil
}

// Render returns the configuration encoded as TOML, for `config show`.
func (c *Config) Render() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding configuration: %w", err)
	}
	return string(data), nil
}
