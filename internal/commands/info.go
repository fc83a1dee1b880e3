// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"encoding/json"
	"io"
	"os"
	goruntime "runtime"
	"slices"
	"strings"

	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

// infoGroupOrder lists the groups printed first, in this order. Groups
// reported by plugins under other names follow in first-seen order.
var infoGroupOrder = []string{
	hook.InfoGroupNimbus,
	hook.InfoGroupIntegration,
	hook.InfoGroupSystem,
	hook.InfoGroupEnvironment,
}

// infoEnvVars are reported in the environment group.
var infoEnvVars = []string{"ANDROID_HOME", "ANDROID_SDK_ROOT", "JAVA_HOME"}

func infoCommand() namespace.Command {
	return namespace.Func(command.Metadata{
		Name:        "info",
		Summary:     "Print project, plugin and system information",
		Description: "Collects information from nimbus and every installed plugin. Use --json for machine-readable output.",
		Examples:    []string{"nimbus info", "nimbus info --json"},
	}, runInfo)
}

func runInfo(ctx context.Context, inv *namespace.Invocation) error {
	env := inv.Env
	items := coreInfo(inv)

	results, err := hook.Fire(ctx, env.Hooks, hook.CommandInfo, hook.InfoPayload{Project: env.HookProject()})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		env.Logger.Warn("some plugins could not report information", "error", err)
	}
	for _, r := range results {
		items = append(items, r...)
	}

	if env.Globals.JSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	return writeInfo(env.Stdout, items)
}

func coreInfo(inv *namespace.Invocation) []hook.InfoItem {
	env := inv.Env
	items := []hook.InfoItem{{Group: hook.InfoGroupNimbus, Key: "version", Value: env.Version}}
	if env.Project != nil {
		items = append(items,
			hook.InfoItem{Group: hook.InfoGroupNimbus, Key: "project", Value: env.Project.Name},
			hook.InfoItem{Group: hook.InfoGroupNimbus, Key: "project dir", Value: env.Project.Dir},
		)
		if env.Project.Type != "" {
			items = append(items, hook.InfoItem{Group: hook.InfoGroupNimbus, Key: "project type", Value: env.Project.Type})
		}
	} else {
		items = append(items, hook.InfoItem{Group: hook.InfoGroupNimbus, Key: "project", Value: "none"})
	}

	items = append(items,
		hook.InfoItem{Group: hook.InfoGroupSystem, Key: "os", Value: goruntime.GOOS + "/" + goruntime.GOARCH},
		hook.InfoItem{Group: hook.InfoGroupSystem, Key: "go", Value: goruntime.Version()},
	)
	for _, name := range infoEnvVars {
		value := os.Getenv(name)
		if value == "" {
			value = "not set"
		}
		items = append(items, hook.InfoItem{Group: hook.InfoGroupEnvironment, Key: name, Value: value})
	}
	return items
}

// writeInfo prints items grouped under a title per group.
func writeInfo(w io.Writer, items []hook.InfoItem) error {
	groups := slices.Clone(infoGroupOrder)
	byGroup := make(map[string][]helpRow)
	for _, it := range items {
		group := it.Group
		if group == "" {
			group = "other"
		}
		if !slices.Contains(groups, group) {
			groups = append(groups, group)
		}
		byGroup[group] = append(byGroup[group], helpRow{label: it.Key, summary: it.Value})
	}

	var sb strings.Builder
	for _, g := range groups {
		rows := byGroup[g]
		if len(rows) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(TitleStyle.Render(strings.ToUpper(g[:1])+g[1:]+":") + "\n")
		width := 0
		for _, r := range rows {
			width = max(width, len(r.label))
		}
		for _, r := range rows {
			sb.WriteString("  " + padRight(r.label, width) + " : " + r.summary + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
