// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"strings"

	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
)

var (
	// ErrDuplicatePlugin is returned when two plugins share an ID.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	// ErrMissingDependency is returned when a plugin depends on a plugin
	// that is not being installed.
	ErrMissingDependency = errors.New("missing plugin dependency")
	// ErrUnknownPlugin is returned when a catalog has no plugin for an ID.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrMountConflict is returned when two plugins contribute namespaces
	// with the same name or alias.
	ErrMountConflict = errors.New("namespace conflict")
	// ErrInstallFailed is the sentinel error wrapped by InstallError.
	ErrInstallFailed = errors.New("plugin installation failed")
)

type (
	// Plugin is the minimal plugin contract.
	Plugin interface {
		ID() string
		Version() string
		Description() string
	}

	// HookRegistrar is implemented by plugins that handle events.
	HookRegistrar interface {
		RegisterHooks(e *hook.Engine) error
	}

	// NamespaceContributor is implemented by plugins that add command
	// namespaces below the root.
	NamespaceContributor interface {
		Namespaces() []namespace.Mount
	}

	// Dependent is implemented by plugins that must be installed after
	// other plugins.
	Dependent interface {
		Dependencies() []string
	}

	// Info describes an installed plugin for listings.
	Info struct {
		ID           string   `json:"id"`
		Version      string   `json:"version"`
		Description  string   `json:"description"`
		Dependencies []string `json:"dependencies,omitempty"`
		Namespaces   []string `json:"namespaces,omitempty"`
		Hooks        []string `json:"hooks,omitempty"`
	}

	// MissingDependencyError names the plugin and the dependency it lacks.
	MissingDependencyError struct {
		Plugin     string
		Dependency string
	}

	// UnknownPluginError is returned by Catalog.Select for an ID without a
	// factory.
	UnknownPluginError struct {
		ID        string
		Available []string
	}

	// InstallError attributes an installation failure to a plugin.
	InstallError struct {
		Plugin string
		Err    error
	}
)

// Error implements the error interface.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin '%s' requires plugin '%s', which is not enabled", e.Plugin, e.Dependency)
}

// Unwrap returns ErrMissingDependency for errors.Is() compatibility.
func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

// Error implements the error interface.
func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin '%s' (available: %s)", e.ID, strings.Join(e.Available, ", "))
}

// Unwrap returns ErrUnknownPlugin for errors.Is() compatibility.
func (e *UnknownPluginError) Unwrap() error { return ErrUnknownPlugin }

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install plugin '%s': %v", e.Plugin, e.Err)
}

// Unwrap returns both ErrInstallFailed and the underlying error.
func (e *InstallError) Unwrap() []error { return []error{ErrInstallFailed, e.Err} }

// Describe builds the listing entry of p. Hooks are read from engine, which
// may be nil before installation.
func Describe(p Plugin, engine *hook.Engine) Info {
	info := Info{ID: p.ID(), Version: p.Version(), Description: p.Description()}
	if d, ok := p.(Dependent); ok {
		info.Dependencies = d.Dependencies()
	}
	if nc, ok := p.(NamespaceContributor); ok {
		for _, m := range nc.Namespaces() {
			info.Namespaces = append(info.Namespaces, m.Name)
		}
	}
	if engine != nil {
		info.Hooks = engine.EventsOf(p.ID())
	}
	return info
}
