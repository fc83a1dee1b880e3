// SPDX-License-Identifier: MPL-2.0

// Package capacitor is the built-in plugin integrating Capacitor projects.
//
// It mounts the "capacitor" namespace (alias "cap") forwarding to the
// Capacitor CLI, identifies Capacitor projects for project:detect, reports
// on command:info, and copies freshly built web assets into the native
// projects on build:after when the integration is enabled.
package capacitor

import (
	"context"
	"os"
	"path/filepath"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

const (
	// ID is the plugin and integration identifier.
	ID = "capacitor"
	// Version of the plugin.
	Version = "1.0.0"
)

// MarkerFiles identify a Capacitor project directory.
var MarkerFiles = []string{"capacitor.config.json", "capacitor.config.ts"}

// Plugin is the Capacitor integration.
type Plugin struct {
	// Bin is the shell command that starts the Capacitor CLI.
	Bin string

	env *app.Env
}

// New creates the plugin for env, invoking the Capacitor CLI through npx.
func New(env *app.Env) *Plugin {
	return &Plugin{Bin: "npx cap", env: env}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return ID }

// Version implements plugin.Plugin.
func (p *Plugin) Version() string { return Version }

// Description implements plugin.Plugin.
func (p *Plugin) Description() string { return "Capacitor integration" }

// Namespaces implements plugin.NamespaceContributor.
func (p *Plugin) Namespaces() []namespace.Mount {
	return []namespace.Mount{{Name: ID, Aliases: []string{"cap"}, Load: p.namespace}}
}

// RegisterHooks implements plugin.HookRegistrar.
func (p *Plugin) RegisterHooks(e *hook.Engine) error {
	if err := hook.Register(e, ID, hook.CommandInfo, info); err != nil {
		return err
	}
	if err := hook.Register(e, ID, hook.ProjectDetect, detect); err != nil {
		return err
	}
	return hook.Register(e, ID, hook.BuildAfter, p.copyAssets)
}

func (p *Plugin) namespace(context.Context) (*namespace.Namespace, error) {
	return namespace.New(
		namespace.Meta{Name: ID, Summary: "Capacitor functionality"},
		namespace.Cmd("sync", p.tool(syncMetadata())),
		namespace.Cmd("copy", p.tool(copyMetadata())),
		namespace.Cmd("open", p.tool(openMetadata())),
		namespace.Cmd("add", p.tool(addMetadata())),
	)
}

func (p *Plugin) tool(meta command.Metadata) namespace.Loader[namespace.Command] {
	cmd := namespace.Func(meta, func(ctx context.Context, inv *namespace.Invocation) error {
		args := append([]string{meta.Name}, inv.Inputs...)
		args = append(args, command.Flags(&meta, inv.Options)...)
		args = append(args, inv.Unknown...)
		if len(inv.Separated) > 0 {
			args = append(append(args, "--"), inv.Separated...)
		}
		return p.run(ctx, inv.Env, args)
	})
	return func(context.Context) (namespace.Command, error) { return cmd, nil }
}

func (p *Plugin) run(ctx context.Context, env *app.Env, args []string) error {
	proj, err := env.RequireProject()
	if err != nil {
		return err
	}
	script := env.Script("capacitor "+args[0], p.Bin+` "$@"`, proj.IntegrationRoot(ID), args, nil)
	return env.Runtime.Run(ctx, script)
}

// copyAssets runs `cap copy` after a successful build of a project with the
// capacitor integration enabled.
func (p *Plugin) copyAssets(ctx context.Context, payload hook.BuildPayload) (hook.None, error) {
	if p.env == nil || !payload.Project.HasIntegration(ID) {
		return hook.None{}, nil
	}
	args := []string{"copy"}
	if payload.Platform != "" {
		args = append(args, payload.Platform)
	}
	p.env.Logger.Info("copying web assets to native projects", "plugin", ID)
	return hook.None{}, p.run(ctx, p.env, args)
}

func info(_ context.Context, payload hook.InfoPayload) ([]hook.InfoItem, error) {
	status := "not enabled"
	switch {
	case payload.Project.HasIntegration(ID):
		status = "enabled"
	case payload.Project.Dir != "" && isCapacitorDir(payload.Project.Dir):
		status = "detected (not enabled)"
	}
	return []hook.InfoItem{{Group: hook.InfoGroupIntegration, Key: ID, Value: status}}, nil
}

func detect(_ context.Context, payload hook.DetectPayload) (string, error) {
	if isCapacitorDir(payload.Dir) {
		return ID, nil
	}
	return "", nil
}

func isCapacitorDir(dir string) bool {
	for _, name := range MarkerFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
