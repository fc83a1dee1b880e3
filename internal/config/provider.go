// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider creates a provider reading the CUE config file and NIMBUS_*
// environment variables.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the value stored under a dotted key such as "ui.verbose" or
// "aliases.b". Map and list values are returned whole for their parent key.
func (c *Config) Get(key string) (any, bool) {
	switch key {
	case "ui":
		return c.UI, true
	case "ui.color_scheme":
		return string(c.UI.ColorScheme), true
	case "ui.verbose":
		return c.UI.Verbose, true
	case "ui.interactive":
		return c.UI.Interactive, true
	case "plugins":
		return c.Plugins, true
	case "plugins.enabled":
		return c.Plugins.Enabled, true
	case "plugins.search_paths":
		return c.Plugins.SearchPaths, true
	case "aliases":
		return c.Aliases, true
	case "shell", "shell.env":
		return c.Shell.Env, true
	}
	if name, ok := strings.CutPrefix(key, "aliases."); ok {
		v, found := c.Aliases[name]
		return v, found
	}
	if name, ok := strings.CutPrefix(key, "shell.env."); ok {
		v, found := c.Shell.Env[name]
		return v, found
	}
	return nil, false
}

// Keys returns every scalar or list key accepted by Get, sorted.
func (c *Config) Keys() []string {
	keys := []string{"ui.color_scheme", "ui.verbose", "ui.interactive", "plugins.enabled", "plugins.search_paths"}
	for _, k := range slices.Sorted(maps.Keys(c.Aliases)) {
		keys = append(keys, "aliases."+k)
	}
	for _, k := range slices.Sorted(maps.Keys(c.Shell.Env)) {
		keys = append(keys, "shell.env."+k)
	}
	slices.Sort(keys)
	return keys
}

// FormatValue renders a Get result for terminal output.
func FormatValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, "\n")
	case map[string]string:
		lines := make([]string, 0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			lines = append(lines, k+" = "+val[k])
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(val)
	}
}
