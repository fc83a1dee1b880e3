// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"io"

	"nimbus-cli/internal/argv"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

func helpCommand(root *namespace.Namespace) namespace.Command {
	return namespace.Func(command.Metadata{
		Name:    "help",
		Summary: "Show help for a command or namespace",
		Inputs: []command.Input{
			{Name: "command", Summary: "Command path, e.g. config get"},
		},
		Examples: []string{"nimbus help", "nimbus help serve", "nimbus help config get"},
	}, func(ctx context.Context, inv *namespace.Invocation) error {
		return Help(ctx, inv.Env.Stdout, root, inv.Inputs, inv.Env.Globals.Verbose)
	})
}

func versionCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:    "version",
		Summary: "Print the nimbus version",
	}, func(_ context.Context, inv *namespace.Invocation) error {
		inv.Env.Println(RootName + " " + inv.Env.Version)
		return nil
	})
}

// Help writes the help page for the command path in tokens: a command
// page when the path ends on a command, a namespace page otherwise. An
// unknown token yields the not-found error.
func Help(ctx context.Context, w io.Writer, root *namespace.Namespace, tokens []string, detailed bool) error {
	loc, err := namespace.Locate(ctx, root, argv.StripOptions(tokens, GlobalOptions))
	if err != nil {
		return err
	}
	if loc.Found() {
		meta, err := loc.Command.Metadata(ctx)
		if err != nil {
			return err
		}
		return CommandHelp(w, CommandPath(loc), meta, detailed)
	}
	if len(loc.Args) > 0 {
		return NotFound(loc)
	}
	return NamespaceHelp(ctx, w, loc.Namespace)
}

// CommandPath returns the canonical path of the command loc resolved to,
// root name first.
func CommandPath(loc *namespace.Location) []string {
	path := loc.Namespace.Path()
	if loc.Found() && len(loc.Path) > 0 {
		path = append(path, loc.Path[len(loc.Path)-1].Name)
	}
	return path
}
