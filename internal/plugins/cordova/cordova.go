// SPDX-License-Identifier: MPL-2.0

// Package cordova is the built-in plugin integrating Apache Cordova projects.
//
// It mounts the "cordova" namespace, whose commands forward their
// normalized arguments to the cordova CLI in the integration root, and it
// answers the command:info and project:detect events.
package cordova

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
	ID = "cordova"
	// Version of the plugin.
	Version = "1.0.0"
	// MarkerFile identifies a cordova project directory.
	MarkerFile = "config.xml"
)

// Plugin is the cordova integration.
type Plugin struct {
	// Bin is the shell word that starts the cordova CLI.
	Bin string
}

// New creates the plugin invoking the cordova binary found on PATH.
func New() *Plugin {
	return &Plugin{Bin: "cordova"}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return ID }

// Version implements plugin.Plugin.
func (p *Plugin) Version() string { return Version }

// Description implements plugin.Plugin.
func (p *Plugin) Description() string { return "Apache Cordova integration" }

// Namespaces implements plugin.NamespaceContributor.
func (p *Plugin) Namespaces() []namespace.Mount {
	return []namespace.Mount{{Name: ID, Load: p.namespace}}
}

// RegisterHooks implements plugin.HookRegistrar.
func (p *Plugin) RegisterHooks(e *hook.Engine) error {
	if err := hook.Register(e, ID, hook.CommandInfo, info); err != nil {
		return err
	}
	return hook.Register(e, ID, hook.ProjectDetect, detect)
}

func (p *Plugin) namespace(context.Context) (*namespace.Namespace, error) {
	return namespace.New(
		namespace.Meta{Name: ID, Summary: "Cordova functionality"},
		namespace.Cmd("build", p.tool(buildMetadata())),
		namespace.Cmd("run", p.tool(runMetadata())),
		namespace.Cmd("prepare", p.tool(prepareMetadata())),
		namespace.Cmd("platform", p.tool(platformMetadata())),
		namespace.Alias("platforms", "platform"),
	)
}

// tool returns a loader for a command forwarding to `cordova <name>`.
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
	script := env.Script("cordova "+args[0], p.Bin+` "$@"`, proj.IntegrationRoot(ID), args, nil)
	return env.Runtime.Run(ctx, script)
}

func info(_ context.Context, payload hook.InfoPayload) ([]hook.InfoItem, error) {
	status := "not enabled"
	switch {
	case payload.Project.HasIntegration(ID):
		status = "enabled"
	case payload.Project.Dir != "" && exists(filepath.Join(payload.Project.Dir, MarkerFile)):
		status = "detected (not enabled)"
	}
	return []hook.InfoItem{{Group: hook.InfoGroupIntegration, Key: ID, Value: status}}, nil
}

func detect(_ context.Context, payload hook.DetectPayload) (string, error) {
	if exists(filepath.Join(payload.Dir, MarkerFile)) {
		return ID, nil
	}
	return "", nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
