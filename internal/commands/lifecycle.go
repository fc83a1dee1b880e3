// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
	"nimbus-cli/pkg/types"
)

// DefaultPort is the port `nimbus serve` listens on unless told otherwise.
const DefaultPort = "8100"

var (
	engines   = []string{"browser", "cordova", "capacitor"}
	platforms = []string{"android", "ios"}

	listenPort = command.Validator{
		Name: "port",
		Check: func(value string) error {
			_, err := types.ParseListenPort(value)
			return err
		},
	}
)

func engineOption() command.Option {
	return command.Option{
		Name:       "engine",
		Summary:    "Target engine",
		Default:    "browser",
		Validators: []command.Validator{command.Contains(engines, false)},
		Hint:       "engine",
		Groups:     []command.Group{command.GroupAdvanced},
	}
}

func buildCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:        "build",
		Summary:     "Build the web assets of the project",
		Description: "Runs the project's build script between the build:before and build:after hooks. Extra arguments are passed to the script.",
		Options: []command.Option{
			engineOption(),
			{
				Name:       "platform",
				Summary:    "Target native platform",
				Validators: []command.Validator{command.Contains(platforms, false)},
				Hint:       "platform",
			},
			{Name: "prod", Summary: "Build for production", Type: command.TypeBoolean},
		},
		Examples: []string{"nimbus build", "nimbus build --prod", "nimbus build --engine=cordova --platform=android"},
	}, runBuild)
}

func runBuild(ctx context.Context, inv *namespace.Invocation) error {
	env := inv.Env
	if _, err := env.RequireProject(); err != nil {
		return err
	}
	payload := hook.BuildPayload{
		Project:  env.HookProject(),
		Engine:   inv.Options.String("engine"),
		Platform: inv.Options.String("platform"),
		Prod:     inv.Options.Bool("prod"),
	}

	if _, err := hook.Fire(ctx, env.Hooks, hook.BuildBefore, payload); err != nil {
		return hookFailed(ctx, hook.BuildBefore.Name(), err)
	}
	vars := map[string]string{
		"NIMBUS_ENGINE":   payload.Engine,
		"NIMBUS_PLATFORM": payload.Platform,
		"NIMBUS_PROD":     strconv.FormatBool(payload.Prod),
	}
	if err := env.RunProjectScript(ctx, "build", passthrough(inv), vars); err != nil {
		return err
	}
	if _, err := hook.Fire(ctx, env.Hooks, hook.BuildAfter, payload); err != nil {
		return hookFailed(ctx, hook.BuildAfter.Name(), err)
	}
	return nil
}

func serveCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:        "serve",
		Summary:     "Start a local development server",
		Description: "Runs the project's serve script between the serve:before and serve:after hooks. The address is exported as NIMBUS_HOST, NIMBUS_PORT and NIMBUS_URL.",
		Options: []command.Option{
			{Name: "host", Summary: "Address to listen on", Default: "localhost", Hint: "host"},
			{
				Name:       "port",
				Summary:    "Port to listen on",
				Default:    DefaultPort,
				Aliases:    []string{"p"},
				Validators: []command.Validator{listenPort},
				Hint:       "port",
			},
			{Name: "open", Summary: "Open a browser once the server is up", Type: command.TypeBoolean, Aliases: []string{"o"}},
			engineOption(),
		},
		Examples: []string{"nimbus serve", "nimbus serve -p 4200 --open"},
	}, runServe)
}

func runServe(ctx context.Context, inv *namespace.Invocation) error {
	env := inv.Env
	if _, err := env.RequireProject(); err != nil {
		return err
	}
	payload := hook.ServePayload{
		Project: env.HookProject(),
		Engine:  inv.Options.String("engine"),
		Host:    inv.Options.String("host"),
		Port:    inv.Options.String("port"),
		Open:    inv.Options.Bool("open"),
	}

	if _, err := hook.Fire(ctx, env.Hooks, hook.ServeBefore, payload); err != nil {
		return hookFailed(ctx, hook.ServeBefore.Name(), err)
	}
	env.Logger.Info("starting development server", "url", payload.URL())
	vars := map[string]string{
		"NIMBUS_ENGINE": payload.Engine,
		"NIMBUS_HOST":   payload.Host,
		"NIMBUS_PORT":   payload.Port,
		"NIMBUS_URL":    payload.URL(),
		"NIMBUS_OPEN":   strconv.FormatBool(payload.Open),
	}
	if err := env.RunProjectScript(ctx, "serve", passthrough(inv), vars); err != nil {
		return err
	}
	if _, err := hook.Fire(ctx, env.Hooks, hook.ServeAfter, payload); err != nil {
		return hookFailed(ctx, hook.ServeAfter.Name(), err)
	}
	return nil
}

// passthrough returns the tokens forwarded to a project script.
func passthrough(inv *namespace.Invocation) []string {
	return slices.Concat(inv.Inputs, inv.Unknown, inv.Separated)
}

// hookFailed reports the plugins whose handlers failed for event. A
// canceled context is returned as is.
func hookFailed(ctx context.Context, event string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	ec := issue.NewErrorContext().
		WithOperation("run " + event + " hooks").
		WithIssue(issue.HookFailedId)
	var fireErr *hook.FireError
	if errors.As(err, &fireErr) {
		ec = ec.WithResource("plugins: " + strings.Join(fireErr.Plugins(), ", "))
	}
	return ec.
		WithSuggestion("Run with --verbose to see the failing handler output").
		WithSuggestion("Disable the plugin in plugins.enabled or remove its directory to skip it").
		Wrap(err).
		BuildError()
}
