// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
)

var (
	// ErrInvalidEnginePreference is returned when the engine key is not recognized.
	ErrInvalidEnginePreference = errors.New("invalid engine preference")
	// ErrInvalidNumericParameter is the sentinel error wrapped by InvalidNumericParameterError.
	ErrInvalidNumericParameter = errors.New("invalid numeric parameter")
)

type (
	// Config is the process-wide foldrun configuration, read once at startup.
	Config struct {
		// Engine is the preferred container engine (apptainer or singularity).
		Engine string `mapstructure:"engine" toml:"engine"`
		// Samples is the default number of models per run.
		Samples int `mapstructure:"samples" toml:"samples"`
		// Recycles is the default number of recycling steps per run.
		Recycles int `mapstructure:"recycles" toml:"recycles"`
		// Seed is the default random seed.
		Seed int `mapstructure:"seed" toml:"seed"`
		// Verbose enables debug logging by default.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
		// Backends maps a backend name to its per-backend settings.
		Backends map[string]BackendConfig `mapstructure:"backends" toml:"backends"`
	}

	// BackendConfig holds per-backend settings.
	BackendConfig struct {
		// Image is the default container image path; empty means direct mode.
		Image string `mapstructure:"image" toml:"image"`
	}

	// InvalidEnginePreferenceError is returned when the configured engine is
	// neither apptainer nor singularity.
	InvalidEnginePreferenceError struct {
		Value string
	}

	// InvalidNumericParameterError is returned when samples/recycles are not
	// positive or the seed is negative.
	InvalidNumericParameterError struct {
		Key   string
		Value int
	}
)

// Error implements the error interface.
func (e *InvalidEnginePreferenceError) Error() string {
	return fmt.Sprintf("invalid engine preference %q (must be %q or %q)",
		e.Value, engine.EngineTypeApptainer, engine.EngineTypeSingularity)
}

// Unwrap returns ErrInvalidEnginePreference for errors.Is() compatibility.
func (e *InvalidEnginePreferenceError) Unwrap() error { return ErrInvalidEnginePreference }

// Error implements the error interface.
func (e *InvalidNumericParameterError) Error() string {
	return fmt.Sprintf("invalid value %d for %q", e.Value, e.Key)
}

// Unwrap returns ErrInvalidNumericParameter for errors.Is() compatibility.
func (e *InvalidNumericParameterError) Unwrap() error { return ErrInvalidNumericParameter }

// DefaultConfig returns the built-in defaults. Numeric defaults follow the
// upstream prediction tools.
func DefaultConfig() *Config {
	return &Config{
		Engine:   string(engine.EngineTypeApptainer),
		Samples:  backend.DefaultSamples,
		Recycles: backend.DefaultRecycles,
		Seed:     backend.DefaultSeed,
		Backends: map[string]BackendConfig{},
	}
}

// Validate checks the loaded configuration for values that could never work.
func (c *Config) Validate() error {
	switch engine.EngineType(c.Engine) {
	case engine.EngineTypeApptainer, engine.EngineTypeSingularity:
	default:
		return &InvalidEnginePreferenceError{Value: c.Engine}
	}
	if c.Samples <= 0 {
		return &InvalidNumericParameterError{Key: "samples", Value: c.Samples}
	}
	if c.Recycles <= 0 {
		return &InvalidNumericParameterError{Key: "recycles", Value: c.Recycles}
	}
	if c.Seed < 0 {
		return &InvalidNumericParameterError{Key: "seed", Value: c.Seed}
	}
	return nil
}

// EnginePreference returns the configured engine as a typed value.
func (c *Config) EnginePreference() engine.EngineType {
	return engine.EngineType(c.Engine)
}

// ImageFor returns the configured container image for a backend, or "" when
// the backend should run directly.
func (c *Config) ImageFor(name string) string {
	return c.Backends[name].Image
}
