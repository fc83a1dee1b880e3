// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nimbus-cli/internal/config"
)

const (
	// SourceConfigPath indicates the plugin was found in plugins.search_paths.
	SourceConfigPath Source = iota
	// SourceUserDir indicates the plugin was found in <config dir>/plugins.
	SourceUserDir
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a plugin that was skipped.
	SeverityError Severity = "error"
)

// ErrPluginCollision is the sentinel error wrapped by PluginCollisionError.
var ErrPluginCollision = errors.New("plugin id collision")

type (
	// Source represents where a plugin directory was found.
	Source int

	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery problem for the CLI layer to render.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier, e.g. "manifest_invalid".
		Code    string
		Message string
		Path    string
		Cause   error
	}

	// DiscoveredPlugin is a plugin directory and its parsed manifest.
	DiscoveredPlugin struct {
		Dir    string
		Source Source
		// Manifest is nil when Error is set.
		Manifest *Manifest
		Error    error
	}

	// Result bundles the loadable manifests with discovery diagnostics.
	Result struct {
		Manifests   []*Manifest
		Diagnostics []Diagnostic
	}

	// PluginCollisionError is returned when two plugin directories declare
	// the same ID.
	PluginCollisionError struct {
		PluginID     string
		FirstSource  string
		SecondSource string
	}

	// Discovery finds script plugins.
	Discovery struct {
		cfg *config.Config
		// userDir overrides config.PluginsDir when set.
		userDir string
	}
)

// Error implements the error interface.
func (e *PluginCollisionError) Error() string {
	return fmt.Sprintf(
		"plugin id collision: '%s' defined in both:\n"+
			"  - %s\n"+
			"  - %s\n\n"+
			"Remove one of the directories or change its id in %s",
		e.PluginID, e.FirstSource, e.SecondSource, ManifestName)
}

// Unwrap returns ErrPluginCollision for errors.Is() compatibility.
func (e *PluginCollisionError) Unwrap() error { return ErrPluginCollision }

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceConfigPath:
		return "configured search path"
	case SourceUserDir:
		return "user plugins directory"
	default:
		return "unknown"
	}
}

// New creates a Discovery reading search paths from cfg.
func New(cfg *config.Config) *Discovery {
	return &Discovery{cfg: cfg}
}

// WithUserDir returns a copy of d scanning dir instead of the user
// plugins directory.
func (d *Discovery) WithUserDir(dir string) *Discovery {
	c := *d
	c.userDir = dir
	return &c
}

// DiscoverAll scans the configured search paths, then the user plugins
// directory. Missing directories are skipped. Manifest problems are
// recorded on the returned entries rather than failing the scan.
func (d *Discovery) DiscoverAll(ctx context.Context) ([]*DiscoveredPlugin, error) {
	var found []*DiscoveredPlugin
	for _, dir := range d.cfg.Plugins.SearchPaths {
		entries, err := d.scan(ctx, dir, SourceConfigPath)
		if err != nil {
			return nil, err
		}
		found = append(found, entries...)
	}

	userDir := d.userDir
	if userDir == "" {
		dir, err := config.PluginsDir()
		if err != nil {
			return found, nil
		}
		userDir = dir
	}
	entries, err := d.scan(ctx, userDir, SourceUserDir)
	if err != nil {
		return nil, err
	}
	return append(found, entries...), nil
}

func (d *Discovery) scan(ctx context.Context, dir string, source Source) ([]*DiscoveredPlugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return []*DiscoveredPlugin{{Dir: dir, Source: source, Error: err}}, nil
	}

	var found []*DiscoveredPlugin
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), DirSuffix) {
			continue
		}
		pluginDir := filepath.Join(dir, entry.Name())
		if abs, absErr := filepath.Abs(pluginDir); absErr == nil {
			pluginDir = abs
		}
		m, err := LoadManifest(pluginDir)
		found = append(found, &DiscoveredPlugin{Dir: pluginDir, Source: source, Manifest: m, Error: err})
	}
	return found, nil
}

// CheckCollisions returns a PluginCollisionError for the first plugin ID
// declared by two directories.
func CheckCollisions(found []*DiscoveredPlugin) error {
	seen := make(map[string]*DiscoveredPlugin, len(found))
	for _, p := range found {
		if p.Manifest == nil {
			continue
		}
		if first, exists := seen[p.Manifest.ID]; exists {
			return &PluginCollisionError{
				PluginID:     p.Manifest.ID,
				FirstSource:  first.Dir,
				SecondSource: p.Dir,
			}
		}
		seen[p.Manifest.ID] = p
	}
	return nil
}

// Load discovers plugins, turns broken ones into diagnostics and checks
// the rest for ID collisions.
func (d *Discovery) Load(ctx context.Context) (*Result, error) {
	found, err := d.DiscoverAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := CheckCollisions(found); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, p := range found {
		if p.Error != nil {
			result.Diagnostics = append(result.Diagnostics, diagnose(p))
			continue
		}
		if base := strings.TrimSuffix(filepath.Base(p.Dir), DirSuffix); base != p.Manifest.ID {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "plugin_dir_mismatch",
				Message:  fmt.Sprintf("plugin directory %q declares id %q", filepath.Base(p.Dir), p.Manifest.ID),
				Path:     p.Dir,
			})
		}
		result.Manifests = append(result.Manifests, p.Manifest)
	}
	return result, nil
}

func diagnose(p *DiscoveredPlugin) Diagnostic {
	code := "plugin_unreadable"
	switch {
	case errors.Is(p.Error, ErrManifestNotFound):
		code = "manifest_not_found"
	case errors.Is(p.Error, ErrInvalidManifest):
		code = "manifest_invalid"
	}
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf("skipping plugin in %s (%s): %v", p.Dir, p.Source, p.Error),
		Path:     p.Dir,
		Cause:    p.Error,
	}
}
