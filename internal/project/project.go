// SPDX-License-Identifier: MPL-2.0

package project

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"nimbus-cli/pkg/cueutil"
)

// FileName is the project file searched for by Find.
const FileName = "nimbus.cue"

//go:embed project_schema.cue
var projectSchema []byte

// ErrProjectNotFound is returned when no nimbus.cue exists in the directory
// or any of its parents.
var ErrProjectNotFound = errors.New("project not found")

type (
	// Project is a parsed nimbus.cue.
	Project struct {
		Name         string                 `json:"name"`
		Type         string                 `json:"type,omitempty"`
		Scripts      map[string]string      `json:"scripts,omitempty"`
		Integrations map[string]Integration `json:"integrations,omitempty"`

		// Dir is the directory holding the project file.
		Dir string `json:"-"`
		// FilePath is the absolute path of the project file.
		FilePath string `json:"-"`
	}

	// Integration configures a native platform integration.
	Integration struct {
		Enabled bool   `json:"enabled"`
		Root    string `json:"root,omitempty"`
	}

	// NotFoundError is returned by Find when the walk reaches the filesystem
	// root without finding a project file.
	NotFoundError struct {
		Dir string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s or any parent directory", FileName, e.Dir)
}

// Unwrap returns ErrProjectNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrProjectNotFound }

// Find walks up from dir and returns the path of the first project file.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for cur := abs; ; {
		candidate := filepath.Join(cur, FileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &NotFoundError{Dir: abs}
		}
		cur = parent
	}
}

// Load parses and validates the project file at path.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	result, err := cueutil.DecodeFile[Project](projectSchema, abs, "#Project")
	if err != nil {
		return nil, err
	}
	p := result.Value
	p.FilePath = abs
	p.Dir = filepath.Dir(abs)
	if p.Scripts == nil {
		p.Scripts = map[string]string{}
	}
	if p.Integrations == nil {
		p.Integrations = map[string]Integration{}
	}
	return p, nil
}

// Discover finds and loads the project enclosing dir.
func Discover(ctx context.Context, dir string) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Script returns the source of the named script.
func (p *Project) Script(name string) (string, bool) {
	src, ok := p.Scripts[name]
	return src, ok
}

// ScriptNames returns the declared script names, sorted.
func (p *Project) ScriptNames() []string {
	return slices.Sorted(maps.Keys(p.Scripts))
}

// IntegrationEnabled reports whether the named integration is declared and
// enabled.
func (p *Project) IntegrationEnabled(name string) bool {
	in, ok := p.Integrations[name]
	return ok && in.Enabled
}

// IntegrationRoot returns the absolute directory of the named integration,
// defaulting to the project directory.
func (p *Project) IntegrationRoot(name string) string {
	in, ok := p.Integrations[name]
	if !ok || in.Root == "" {
		return p.Dir
	}
	if filepath.IsAbs(in.Root) {
		return in.Root
	}
	return filepath.Join(p.Dir, filepath.FromSlash(in.Root))
}
