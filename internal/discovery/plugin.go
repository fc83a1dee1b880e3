// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bufio"
	"bytes"
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
)

// hookBinders maps the event names a manifest may handle to the function
// registering a script for that event.
var hookBinders = map[string]func(p *Plugin, e *hook.Engine, script string) error{
	hook.PluginsInit.Name(): func(p *Plugin, e *hook.Engine, script string) error {
		return hook.Register(e, p.ID(), hook.PluginsInit, func(ctx context.Context, payload hook.PluginsInitPayload) (hook.None, error) {
			vars := p.eventVars(hook.PluginsInit.Name(), p.env.HookProject())
			vars["NIMBUS_PLUGINS"] = strings.Join(payload.Plugins, " ")
			return hook.None{}, p.runHook(ctx, hook.PluginsInit.Name(), script, "", vars)
		})
	},
	hook.CommandInfo.Name(): func(p *Plugin, e *hook.Engine, script string) error {
		return hook.Register(e, p.ID(), hook.CommandInfo, func(ctx context.Context, payload hook.InfoPayload) ([]hook.InfoItem, error) {
			out, err := p.outputHook(ctx, hook.CommandInfo.Name(), script, payload.Project.Dir, p.eventVars(hook.CommandInfo.Name(), payload.Project))
			if err != nil {
				return nil, err
			}
			return p.infoItems(out), nil
		})
	},
	hook.BuildBefore.Name(): buildBinder(hook.BuildBefore),
	hook.BuildAfter.Name():  buildBinder(hook.BuildAfter),
	hook.ServeBefore.Name(): serveBinder(hook.ServeBefore),
	hook.ServeAfter.Name():  serveBinder(hook.ServeAfter),
	hook.ProjectDetect.Name(): func(p *Plugin, e *hook.Engine, script string) error {
		return hook.Register(e, p.ID(), hook.ProjectDetect, func(ctx context.Context, payload hook.DetectPayload) (string, error) {
			vars := p.eventVars(hook.ProjectDetect.Name(), hook.Project{Dir: payload.Dir})
			out, err := p.outputHook(ctx, hook.ProjectDetect.Name(), script, payload.Dir, vars)
			if err != nil {
				return "", err
			}
			first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
			return strings.TrimSpace(first), nil
		})
	},
}

// Plugin adapts a manifest into a plugin.Plugin whose commands and hooks
// run shell scripts through the environment's runtime.
type Plugin struct {
	manifest *Manifest
	env      *app.Env
}

// NewPlugin binds m to the invocation environment.
func NewPlugin(m *Manifest, env *app.Env) *Plugin {
	return &Plugin{manifest: m, env: env}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return p.manifest.ID }

// Version implements plugin.Plugin.
func (p *Plugin) Version() string { return p.manifest.Version }

// Description implements plugin.Plugin.
func (p *Plugin) Description() string { return p.manifest.Description }

// Dependencies implements plugin.Dependent.
func (p *Plugin) Dependencies() []string { return slices.Clone(p.manifest.Dependencies) }

// Manifest returns the manifest the plugin was built from.
func (p *Plugin) Manifest() *Manifest { return p.manifest }

// Namespaces implements plugin.NamespaceContributor. A plugin without
// commands mounts nothing.
func (p *Plugin) Namespaces() []namespace.Mount {
	if len(p.manifest.Commands) == 0 {
		return nil
	}
	return []namespace.Mount{{Name: p.manifest.ID, Load: p.namespace}}
}

// RegisterHooks implements plugin.HookRegistrar.
func (p *Plugin) RegisterHooks(e *hook.Engine) error {
	for _, event := range slices.Sorted(maps.Keys(p.manifest.Hooks)) {
		bind, ok := hookBinders[event]
		if !ok {
			continue
		}
		if err := bind(p, e, p.manifest.Hooks[event]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plugin) namespace(context.Context) (*namespace.Namespace, error) {
	summary := p.manifest.Description
	if summary == "" {
		summary = "Commands of the " + p.manifest.ID + " plugin"
	}
	entries := make([]namespace.Entry, 0, len(p.manifest.Commands))
	for i := range p.manifest.Commands {
		spec := &p.manifest.Commands[i]
		cmd := namespace.Func(spec.Metadata(), p.runCommand(spec))
		entries = append(entries, namespace.Cmd(spec.Name, func(context.Context) (namespace.Command, error) { return cmd, nil }))
		for _, alias := range spec.Aliases {
			entries = append(entries, namespace.Alias(alias, spec.Name))
		}
	}
	return namespace.New(namespace.Meta{Name: p.manifest.ID, Summary: summary}, entries...)
}

// runCommand passes inputs, unknown options and separated tokens as
// positional parameters and declared options as NIMBUS_OPT_<NAME>.
func (p *Plugin) runCommand(spec *CommandSpec) namespace.RunFunc {
	return func(ctx context.Context, inv *namespace.Invocation) error {
		args := slices.Concat(inv.Inputs, inv.Unknown, inv.Separated)
		vars := p.baseVars()
		for name, value := range inv.Options {
			vars[OptionVar(name)] = formatOption(value)
		}
		dir := p.manifest.Dir
		if inv.Env.Project != nil {
			dir = inv.Env.Project.Dir
		}
		script := inv.Env.Script(p.manifest.ID+" "+spec.Name, spec.Script, dir, args, vars)
		return inv.Env.Runtime.Run(ctx, script)
	}
}

// OptionVar returns the environment variable carrying an option value.
func OptionVar(name string) string {
	return "NIMBUS_OPT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func formatOption(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return ""
	}
}

func (p *Plugin) baseVars() map[string]string {
	return map[string]string{
		"NIMBUS_PLUGIN_ID":  p.manifest.ID,
		"NIMBUS_PLUGIN_DIR": p.manifest.Dir,
	}
}

func (p *Plugin) eventVars(event string, proj hook.Project) map[string]string {
	vars := p.baseVars()
	vars["NIMBUS_EVENT"] = event
	vars["NIMBUS_PROJECT_NAME"] = proj.Name
	vars["NIMBUS_PROJECT_TYPE"] = proj.Type
	vars["NIMBUS_PROJECT_DIR"] = proj.Dir
	return vars
}

// runHook runs a hook script in dir, or in the plugin directory when dir
// is empty.
func (p *Plugin) runHook(ctx context.Context, event, script, dir string, vars map[string]string) error {
	if dir == "" {
		dir = p.manifest.Dir
	}
	p.env.Logger.Debug("running plugin hook", "plugin", p.manifest.ID, "event", event)
	return p.env.Runtime.Run(ctx, p.env.Script(p.manifest.ID+" "+event, script, dir, nil, vars))
}

func (p *Plugin) outputHook(ctx context.Context, event, script, dir string, vars map[string]string) (string, error) {
	if dir == "" {
		dir = p.manifest.Dir
	}
	var out bytes.Buffer
	s := p.env.Script(p.manifest.ID+" "+event, script, dir, nil, vars)
	s.Stdout = &out
	if err := p.env.Runtime.Run(ctx, s); err != nil {
		return "", err
	}
	return out.String(), nil
}

// infoItems reads "key=value" lines. Lines without '=' are ignored.
func (p *Plugin) infoItems(out string) []hook.InfoItem {
	var items []hook.InfoItem
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		items = append(items, hook.InfoItem{Group: p.manifest.ID, Key: key, Value: strings.TrimSpace(value)})
	}
	return items
}

func buildBinder(ev hook.Event[hook.BuildPayload, hook.None]) func(*Plugin, *hook.Engine, string) error {
	return func(p *Plugin, e *hook.Engine, script string) error {
		return hook.Register(e, p.ID(), ev, func(ctx context.Context, payload hook.BuildPayload) (hook.None, error) {
			vars := p.eventVars(ev.Name(), payload.Project)
			vars["NIMBUS_ENGINE"] = payload.Engine
			vars["NIMBUS_PLATFORM"] = payload.Platform
			vars["NIMBUS_PROD"] = strconv.FormatBool(payload.Prod)
			return hook.None{}, p.runHook(ctx, ev.Name(), script, payload.Project.Dir, vars)
		})
	}
}

func serveBinder(ev hook.Event[hook.ServePayload, hook.None]) func(*Plugin, *hook.Engine, string) error {
	return func(p *Plugin, e *hook.Engine, script string) error {
		return hook.Register(e, p.ID(), ev, func(ctx context.Context, payload hook.ServePayload) (hook.None, error) {
			vars := p.eventVars(ev.Name(), payload.Project)
			vars["NIMBUS_ENGINE"] = payload.Engine
			vars["NIMBUS_HOST"] = payload.Host
			vars["NIMBUS_PORT"] = payload.Port
			vars["NIMBUS_URL"] = payload.URL()
			vars["NIMBUS_OPEN"] = strconv.FormatBool(payload.Open)
			return hook.None{}, p.runHook(ctx, ev.Name(), script, payload.Project.Dir, vars)
		})
	}
}
