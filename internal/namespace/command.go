// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"

	"nimbus-cli/internal/app"
	"nimbus-cli/pkg/command"
)

type (
	// Command is an invocable unit of work.
	Command interface {
		// Metadata returns the command descriptor. It may build a fresh
		// descriptor on every call.
		Metadata(ctx context.Context) (*command.Metadata, error)
		// Run executes the command with normalized and validated arguments.
		Run(ctx context.Context, inv *Invocation) error
	}

	// Invocation carries everything a command receives when it runs.
	Invocation struct {
		// Env is the shared execution environment.
		Env *app.Env
		// Path is the canonical command path below the root.
		Path []string
		// Inputs are the positional arguments.
		Inputs []string
		// Options are the typed option values, defaults included.
		Options command.Options
		// Unknown holds option tokens the command did not declare.
		Unknown []string
		// Separated holds the tokens after "--".
		Separated []string
	}

	// RunFunc is the body of a command built with Func.
	RunFunc func(ctx context.Context, inv *Invocation) error

	funcCommand struct {
		meta command.Metadata
		run  RunFunc
	}
)

// Func adapts a static descriptor and a run function into a Command. Each
// Metadata call returns a copy of meta.
func Func(meta command.Metadata, run RunFunc) Command {
	return &funcCommand{meta: meta, run: run}
}

// Input returns the i-th positional input, or "" when absent.
func (inv *Invocation) Input(i int) string {
	if i < 0 || i >= len(inv.Inputs) {
		return ""
	}
	return inv.Inputs[i]
}

func (c *funcCommand) Metadata(context.Context) (*command.Metadata, error) {
	meta := c.meta
	return &meta, nil
}

func (c *funcCommand) Run(ctx context.Context, inv *Invocation) error {
	return c.run(ctx, inv)
}
