// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/agnivade/levenshtein"

	"nimbus-cli/internal/config"
	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

// maxKeyDistance bounds the edit distance of `config get` suggestions.
const maxKeyDistance = 3

func configNamespace(configPath string) (*namespace.Namespace, error) {
	return namespace.New(namespace.Meta{
		Name:    "config",
		Summary: "Inspect the nimbus configuration",
	},
		namespace.Cmd("show", static(configShowCommand())),
		namespace.Cmd("get", static(configGetCommand())),
		namespace.Cmd("path", static(configPathCommand(configPath))),
	)
}

func configShowCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:     "show",
		Summary:  "Print the effective configuration as CUE",
		Examples: []string{"nimbus config show"},
	}, func(_ context.Context, inv *namespace.Invocation) error {
		inv.Env.Printf("%s", config.GenerateCUE(inv.Env.Config))
		return nil
	})
}

func configGetCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:    "get",
		Summary: "Print a single configuration value",
		Inputs: []command.Input{
			{Name: "key", Summary: "Dotted key, e.g. ui.verbose or aliases.b", Validators: []command.Validator{command.Required}},
		},
		Examples: []string{"nimbus config get plugins.enabled"},
	}, func(_ context.Context, inv *namespace.Invocation) error {
		key := inv.Input(0)
		v, ok := inv.Env.Config.Get(key)
		if !ok {
			return unknownConfigKey(key, inv.Env.Config.Keys())
		}
		inv.Env.Println(config.FormatValue(v))
		return nil
	})
}

func configPathCommand(configPath string) namespace.Command {
	return namespace.Func(command.Metadata{
		Name:    "path",
		Summary: "Print the path of the configuration file",
	}, func(_ context.Context, inv *namespace.Invocation) error {
		path := configPath
		if path == "" {
			p, err := config.FilePath(config.LoadOptions{})
			if err != nil {
				return err
			}
			path = p
		}
		inv.Env.Println(path)
		return nil
	})
}

func unknownConfigKey(key string, keys []string) error {
	ec := issue.NewErrorContext().
		WithOperation("read config value").
		WithResource(key).
		WithIssue(issue.ConfigLoadFailedId)
	for _, k := range keys {
		if levenshtein.ComputeDistance(key, k) <= maxKeyDistance {
			ec = ec.WithSuggestion("Did you mean '" + k + "'?")
		}
	}
	return ec.
		WithSuggestion("Run 'nimbus config show' to see every key").
		Wrap(fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)).
		BuildError()
}
