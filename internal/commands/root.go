// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"maps"
	"slices"
	"strings"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/internal/plugin"
)

// RootName is the name of the root namespace and of the binary.
const RootName = "nimbus"

// Options configures the root namespace.
type Options struct {
	// Plugins are the installed plugins, in installation order.
	Plugins []plugin.Plugin
	// Mounts are the namespaces contributed by the plugins.
	Mounts []namespace.Mount
	// Aliases are the user aliases from the configuration.
	Aliases map[string]string
	// ConfigPath is the configuration file in use, for `config path`.
	ConfigPath string
}

// Root builds the root namespace: the core commands, then the plugin
// mounts, then the single-word user aliases. A user alias that shadows an
// existing name is skipped with a warning; multi-word aliases are expanded
// by ExpandAlias before resolution.
func Root(env *app.Env, opts Options) (*namespace.Namespace, error) {
	var root *namespace.Namespace

	entries := []namespace.Entry{
		namespace.Cmd("info", static(infoCommand())),
		namespace.Alias("i", "info"),
		namespace.Cmd("build", static(buildCommand())),
		namespace.Cmd("serve", static(serveCommand())),
		namespace.Cmd("run", static(runCommand())),
		namespace.Sub("config", func(context.Context) (*namespace.Namespace, error) { return configNamespace(opts.ConfigPath) }),
		namespace.Sub("plugins", func(context.Context) (*namespace.Namespace, error) { return pluginsNamespace(opts.Plugins) }),
		namespace.Alias("plugin", "plugins"),
		namespace.Cmd("help", func(context.Context) (namespace.Command, error) { return helpCommand(root), nil }),
		namespace.Cmd("version", static(versionCommand())),
	}
	for _, m := range opts.Mounts {
		entries = append(entries, m.Entries()...)
	}

	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		taken[e.Key()] = true
	}
	for _, name := range slices.Sorted(maps.Keys(opts.Aliases)) {
		target := opts.Aliases[name]
		if strings.Contains(target, " ") {
			continue
		}
		if taken[name] {
			env.Logger.Warn("ignoring alias that shadows a command", "alias", name, "target", target)
			continue
		}
		taken[name] = true
		entries = append(entries, namespace.Alias(name, target))
	}

	var err error
	root, err = namespace.New(namespace.Meta{
		Name:    RootName,
		Summary: "Build, serve and extend hybrid app projects",
	}, entries...)
	return root, err
}

// ExpandAlias replaces a leading multi-word user alias in args with the
// words of its target. The first non-option token is the candidate.
func ExpandAlias(args []string, aliases map[string]string) []string {
	for i, tok := range args {
		if tok == "--" {
			return args
		}
		if strings.HasPrefix(tok, "-") {
			continue
		}
		target, ok := aliases[tok]
		if !ok || !strings.Contains(target, " ") {
			return args
		}
		return slices.Concat(args[:i], strings.Fields(target), args[i+1:])
	}
	return args
}

func static(cmd namespace.Command) namespace.Loader[namespace.Command] {
	return func(context.Context) (namespace.Command, error) { return cmd, nil }
}
