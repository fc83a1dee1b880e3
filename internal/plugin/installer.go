// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"nimbus-cli/internal/dag"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
)

type (
	// Installer installs plugins into a hook engine and collects their
	// namespace mounts.
	Installer struct {
		hooks  *hook.Engine
		logger *log.Logger
	}

	// Installed is the outcome of Install.
	Installed struct {
		// Plugins are in installation order.
		Plugins []Plugin
		// Mounts are the contributed namespaces, in installation order.
		Mounts []namespace.Mount
	}
)

// NewInstaller creates an installer registering hooks on engine.
func NewInstaller(engine *hook.Engine, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installer{hooks: engine, logger: logger}
}

// Install orders plugins by their dependencies, registers their hooks,
// collects their namespace mounts and fires plugins:init.
//
// Installation stops at the first failure. Handler failures during
// plugins:init are logged and do not fail the installation.
func (i *Installer) Install(ctx context.Context, plugins []Plugin) (*Installed, error) {
	ordered, err := order(plugins)
	if err != nil {
		return nil, err
	}

	out := &Installed{Plugins: ordered}
	owners := make(map[string]string)
	ids := make([]string, 0, len(ordered))
	for _, p := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID())

		if nc, ok := p.(NamespaceContributor); ok {
			for _, m := range nc.Namespaces() {
				for _, name := range append([]string{m.Name}, m.Aliases...) {
					if owner, taken := owners[name]; taken {
						return nil, &InstallError{Plugin: p.ID(), Err: fmt.Errorf("%w: '%s' is already provided by plugin '%s'", ErrMountConflict, name, owner)}
					}
					owners[name] = p.ID()
				}
				out.Mounts = append(out.Mounts, m)
			}
		}

		if hr, ok := p.(HookRegistrar); ok {
			if err := hr.RegisterHooks(i.hooks); err != nil {
				return nil, &InstallError{Plugin: p.ID(), Err: err}
			}
		}
		i.logger.Debug("plugin installed", "plugin", p.ID(), "version", p.Version())
	}

	if _, err := hook.Fire(ctx, i.hooks, hook.PluginsInit, hook.PluginsInitPayload{Plugins: ids}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var fireErr *hook.FireError
		if errors.As(err, &fireErr) {
			i.logger.Warn("plugins:init handlers failed", "plugins", fireErr.Plugins())
		}
	}
	return out, nil
}

// order returns plugins sorted so that every plugin follows its
// dependencies, otherwise keeping the given order.
func order(plugins []Plugin) ([]Plugin, error) {
	byID := make(map[string]Plugin, len(plugins))
	g := dag.New[string]()
	for _, p := range plugins {
		if _, dup := byID[p.ID()]; dup {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicatePlugin, p.ID())
		}
		byID[p.ID()] = p
		g.AddNode(p.ID())
	}

	for _, p := range plugins {
		d, ok := p.(Dependent)
		if !ok {
			continue
		}
		for _, dep := range d.Dependencies() {
			if _, found := byID[dep]; !found {
				return nil, &MissingDependencyError{Plugin: p.ID(), Dependency: dep}
			}
			g.AddEdge(dep, p.ID())
		}
	}

	ids, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to order plugins: %w", err)
	}
	ordered := make([]Plugin, len(ids))
	for i, id := range ids {
		ordered[i] = byID[id]
	}
	return ordered, nil
}
