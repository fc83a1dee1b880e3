// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"encoding/json"
	"strings"

	"nimbus-cli/internal/namespace"
	"nimbus-cli/internal/plugin"
	"nimbus-cli/pkg/command"
)

func pluginsNamespace(plugins []plugin.Plugin) (*namespace.Namespace, error) {
	return namespace.New(namespace.Meta{
		Name:    "plugins",
		Summary: "Manage installed plugins",
	},
		namespace.Cmd("list", static(pluginsListCommand(plugins))),
		namespace.Alias("ls", "list"),
	)
}

func pluginsListCommand(plugins []plugin.Plugin) namespace.Command {
	return namespace.Func(command.Metadata{
		Name:     "list",
		Summary:  "List installed plugins with their namespaces and hooks",
		Examples: []string{"nimbus plugins list", "nimbus plugins list --json"},
	}, func(_ context.Context, inv *namespace.Invocation) error {
		env := inv.Env
		infos := make([]plugin.Info, 0, len(plugins))
		for _, p := range plugins {
			infos = append(infos, plugin.Describe(p, env.Hooks))
		}

		if env.Globals.JSON {
			enc := json.NewEncoder(env.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		}
		if len(infos) == 0 {
			env.Println(WarningStyle.Render("No plugins installed."))
			return nil
		}

		env.Println(TitleStyle.Render("Installed plugins:"))
		for _, info := range infos {
			line := "  " + CmdStyle.Render(info.ID)
			if info.Version != "" {
				line += " " + SubtitleStyle.Render(info.Version)
			}
			if info.Description != "" {
				line += " - " + info.Description
			}
			env.Println(line)
			if len(info.Namespaces) > 0 {
				env.Println("      namespaces: " + strings.Join(info.Namespaces, ", "))
			}
			if len(info.Hooks) > 0 {
				env.Println("      hooks: " + strings.Join(info.Hooks, ", "))
			}
			if len(info.Dependencies) > 0 {
				env.Println("      requires: " + strings.Join(info.Dependencies, ", "))
			}
		}
		return nil
	})
}
