// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"slices"

	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

func runCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:        "run",
		Summary:     "Run a script declared in the project file",
		Description: "Without a script name, lists the scripts of the project. Arguments after the name are passed to the script.",
		Inputs: []command.Input{
			{Name: "script", Summary: "Name of the script under scripts"},
		},
		Examples: []string{"nimbus run", "nimbus run lint", "nimbus run test -- --watch"},
	}, runScript)
}

func runScript(ctx context.Context, inv *namespace.Invocation) error {
	env := inv.Env
	p, err := env.RequireProject()
	if err != nil {
		return err
	}

	name := inv.Input(0)
	if name == "" {
		names := p.ScriptNames()
		if len(names) == 0 {
			env.Logger.Info("no scripts declared", "project", p.FilePath)
			return nil
		}
		env.Println(TitleStyle.Render("Scripts:"))
		for _, n := range names {
			env.Println("  " + CmdStyle.Render(n))
		}
		return nil
	}

	var rest []string
	if len(inv.Inputs) > 1 {
		rest = inv.Inputs[1:]
	}
	return env.RunProjectScript(ctx, name, slices.Concat(rest, inv.Unknown, inv.Separated), nil)
}
