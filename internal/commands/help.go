// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

// helpRow is one line of a two-column help section.
type helpRow struct {
	label   string
	summary string
}

// NamespaceHelp writes the help page of ns: its visible children and the
// global options. Every child loader of ns runs.
func NamespaceHelp(ctx context.Context, w io.Writer, ns *namespace.Namespace) error {
	children, err := ns.Children(ctx)
	if err != nil {
		return err
	}
	path := strings.Join(ns.Path(), " ")

	var sb strings.Builder
	writeHeader(&sb, path, ns.Summary, ns.Description)

	writeSection(&sb, "Usage:")
	sb.WriteString("  " + path + " <command> [options]\n")

	var rows []helpRow
	for i := range children {
		child := &children[i]
		if !child.Visible() {
			continue
		}
		label := child.Name
		if child.Kind == namespace.KindNamespace {
			label += " ..."
		}
		summary := child.Summary
		if len(child.Aliases) > 0 {
			summary += " (alias: " + strings.Join(child.Aliases, ", ") + ")"
		}
		rows = append(rows, helpRow{label: label, summary: summary})
	}
	if len(rows) > 0 {
		writeSection(&sb, "Commands:")
		writeRows(&sb, rows)
	}

	writeSection(&sb, "Global options:")
	writeRows(&sb, optionRows(GlobalOptions, false))

	sb.WriteString("\n" + SubtitleStyle.Render("Run '"+path+" <command> --help' for details on a command.") + "\n")
	_, err = io.WriteString(w, sb.String())
	return err
}

// CommandHelp writes the help page of a command. path is the full command
// path, root name first. detailed also lists advanced options.
func CommandHelp(w io.Writer, path []string, meta *command.Metadata, detailed bool) error {
	var sb strings.Builder
	writeHeader(&sb, strings.Join(path, " "), meta.Summary, meta.Description)

	writeSection(&sb, "Usage:")
	sb.WriteString("  " + usageLine(path, meta) + "\n")

	var inputs []helpRow
	for _, in := range meta.Inputs {
		if in.Private {
			continue
		}
		summary := in.Summary
		if in.IsRequired() {
			summary += " (required)"
		}
		inputs = append(inputs, helpRow{label: in.Name, summary: summary})
	}
	if len(inputs) > 0 {
		writeSection(&sb, "Inputs:")
		writeRows(&sb, inputs)
	}

	if rows := optionRows(meta.Options, detailed); len(rows) > 0 {
		writeSection(&sb, "Options:")
		writeRows(&sb, rows)
	}

	if len(meta.Examples) > 0 {
		writeSection(&sb, "Examples:")
		for _, ex := range meta.Examples {
			sb.WriteString("  " + CmdStyle.Render(ex) + "\n")
		}
	}

	writeSection(&sb, "Global options:")
	writeRows(&sb, optionRows(WithGlobals(nil), false))

	_, err := io.WriteString(w, sb.String())
	return err
}

// usageLine renders "nimbus serve [<dir>] [options]" style usage.
// usageLine renders the invocation synopsis. Check keeps required inputs
// ahead of optional ones, so the first RequiredInputs inputs are mandatory.
func usageLine(path []string, meta *command.Metadata) string {
	parts := slices.Clone(path)
	required := meta.RequiredInputs()
	for i, in := range meta.Inputs {
		if in.Private {
			continue
		}
		if i < required {
			parts = append(parts, "<"+in.Name+">")
		} else {
			parts = append(parts, "[<"+in.Name+">]")
		}
	}
	if len(meta.Options) > 0 {
		parts = append(parts, "[options]")
	}
	return strings.Join(parts, " ")
}

func optionRows(options []command.Option, detailed bool) []helpRow {
	rows := make([]helpRow, 0, len(options))
	for i := range options {
		opt := &options[i]
		if opt.HasGroup(command.GroupHidden) || (opt.HasGroup(command.GroupAdvanced) && !detailed) {
			continue
		}
		rows = append(rows, helpRow{label: optionLabel(opt), summary: optionSummary(opt)})
	}
	return rows
}

func optionLabel(opt *command.Option) string {
	label := "--" + opt.Name
	if !opt.IsBoolean() {
		hint := opt.Hint
		if hint == "" {
			hint = opt.Name
		}
		label += "=<" + hint + ">"
	}
	for _, alias := range opt.Aliases {
		if len(alias) == 1 {
			label += ", -" + alias
		} else {
			label += ", --" + alias
		}
	}
	return label
}

func optionSummary(opt *command.Option) string {
	summary := opt.Summary
	switch def := opt.Default.(type) {
	case string:
		if def != "" {
			summary += " (default: " + def + ")"
		}
	case bool:
		if def {
			summary += " (default: true)"
		}
	}
	for _, g := range []command.Group{command.GroupExperimental, command.GroupDeprecated, command.GroupPaid} {
		if opt.HasGroup(g) {
			summary += " [" + string(g) + "]"
		}
	}
	return summary
}

func writeHeader(sb *strings.Builder, title, summary, description string) {
	sb.WriteString(TitleStyle.Render(title))
	if summary != "" {
		sb.WriteString(SubtitleStyle.Render(" - " + summary))
	}
	sb.WriteString("\n")
	if description != "" {
		sb.WriteString("\n" + strings.TrimSpace(description) + "\n")
	}
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(sectionStyle.Render(title) + "\n")
}

func writeRows(sb *strings.Builder, rows []helpRow) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "  %s  %s\n", CmdStyle.Render(fmt.Sprintf("%-*s", width, r.label)), r.summary)
	}
}
