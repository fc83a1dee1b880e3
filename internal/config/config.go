// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"nimbus-cli/internal/issue"
	"nimbus-cli/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "nimbus"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides (NIMBUS_UI_VERBOSE).
	EnvPrefix = "NIMBUS"
	// PluginsDirName is the script plugin directory inside the config directory.
	PluginsDirName = "plugins"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride lets tests bypass os.UserHomeDir(), which does not
// honor HOME on every platform.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at dir. It is meant for tests;
// Reset restores the platform default.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// Reset clears test overrides.
func Reset() { configDirOverride = "" }

// ConfigDir returns the nimbus configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// PluginsDir returns the user-level script plugin directory.
func PluginsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PluginsDirName), nil
}

// FilePath returns the config file that Load reads for opts, whether or not
// it exists.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions reads defaults, the config file (when present) and
// environment overrides, in increasing precedence.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)
	v.SetDefault("plugins.enabled", defaults.Plugins.Enabled)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FilePath(opts)
	if err != nil {
		return nil, "", err
	}

	var raw map[string]any
	switch {
	case fileExists(path):
		if raw, err = loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'nimbus config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	default:
		// No config file: defaults and environment only.
		path = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Viper lower-cases map keys; take string maps straight from the file.
	cfg.Aliases = stringMap(raw, "aliases")
	cfg.Shell.Env = stringMap(raw, "shell", "env")

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Make sure every plugin ID in plugins.enabled appears once").
			WithSuggestion("Make sure no alias points at itself").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// merges it into Viper and returns the decoded map.
//
// The file decodes into map[string]any rather than Config so that Viper keeps
// its precedence rules (defaults < file < environment).
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schema.Err())
	}
	user := ctx.CompileBytes(data, cue.Filename(path))
	if user.Err() != nil {
		return nil, cueutil.FormatError(user.Err(), path)
	}

	unified := schema.Unify(user)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return configMap, nil
}

// stringMap returns the map[string]string found at path inside raw.
func stringMap(raw map[string]any, path ...string) map[string]string {
	out := map[string]string{}
	cur := any(raw)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return out
		}
		cur = m[key]
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return out
	}
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// GenerateCUE renders cfg as a config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// nimbus configuration\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tinteractive:  %v\n", cfg.UI.Interactive)
	sb.WriteString("}\n")

	sb.WriteString("\nplugins: {\n")
	fmt.Fprintf(&sb, "\tenabled: %s\n", cueList(cfg.Plugins.Enabled))
	if len(cfg.Plugins.SearchPaths) > 0 {
		fmt.Fprintf(&sb, "\tsearch_paths: %s\n", cueList(cfg.Plugins.SearchPaths))
	}
	sb.WriteString("}\n")

	if len(cfg.Aliases) > 0 {
		sb.WriteString("\naliases: {\n")
		for _, k := range slices.Sorted(maps.Keys(cfg.Aliases)) {
			fmt.Fprintf(&sb, "\t%q: %q\n", k, cfg.Aliases[k])
		}
		sb.WriteString("}\n")
	}

	if len(cfg.Shell.Env) > 0 {
		sb.WriteString("\nshell: env: {\n")
		for _, k := range slices.Sorted(maps.Keys(cfg.Shell.Env)) {
			fmt.Fprintf(&sb, "\t%q: %q\n", k, cfg.Shell.Env[k])
		}
		sb.WriteString("}\n")
	}

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
