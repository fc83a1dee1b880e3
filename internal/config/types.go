// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidAlias is returned when a configured alias is unusable.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	// DefaultPlugins are the built-in plugins installed when plugins.enabled is unset.
	DefaultPlugins = []string{"cordova", "capacitor"}
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the nimbus configuration.
	Config struct {
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Plugins selects built-in plugins and script plugin locations
		Plugins PluginsConfig `json:"plugins" mapstructure:"plugins"`
		// Aliases maps alias names to root command paths, e.g. "b" -> "build"
		Aliases map[string]string `json:"aliases,omitempty" mapstructure:"aliases"`
		// Shell configures the script runner
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light")
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging by default
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive allows commands to prompt
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}

	// PluginsConfig configures plugin installation.
	PluginsConfig struct {
		// Enabled lists built-in plugin IDs in installation order
		Enabled []string `json:"enabled" mapstructure:"enabled"`
		// SearchPaths lists directories scanned for script plugins
		SearchPaths []string `json:"search_paths,omitempty" mapstructure:"search_paths"`
	}

	// ShellConfig configures the script runner.
	ShellConfig struct {
		// Env holds extra environment variables for scripts
		Env map[string]string `json:"env,omitempty" mapstructure:"env"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: false,
		},
		Plugins: PluginsConfig{
			Enabled: slices.Clone(DefaultPlugins),
		},
		Aliases: map[string]string{},
		Shell:   ShellConfig{Env: map[string]string{}},
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined scheme values,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid checks constraints the CUE schema cannot express: plugin IDs are
// unique and no alias names itself.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	seen := make(map[string]bool, len(c.Plugins.Enabled))
	for i, id := range c.Plugins.Enabled {
		if seen[id] {
			errs = append(errs, fmt.Errorf("plugins.enabled[%d]: duplicate plugin %q", i, id))
		}
		seen[id] = true
	}

	for _, name := range slices.Sorted(maps.Keys(c.Aliases)) {
		target := c.Aliases[name]
		if first, _, _ := strings.Cut(target, " "); first == name {
			errs = append(errs, fmt.Errorf("%w: aliases.%s points at itself", ErrInvalidAlias, name))
		}
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}
