// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"maps"
	"slices"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/argv"
	"nimbus-cli/pkg/command"
)

// GlobalOptions are accepted by every command unless the command declares
// an option with the same name.
var GlobalOptions = []command.Option{
	{Name: "help", Summary: "Show help for the command", Type: command.TypeBoolean, Aliases: []string{"h"}},
	{Name: "version", Summary: "Print the nimbus version", Type: command.TypeBoolean},
	{Name: "verbose", Summary: "Print debug output", Type: command.TypeBoolean},
	{Name: "quiet", Summary: "Only print errors", Type: command.TypeBoolean, Aliases: []string{"q"}},
	{Name: "json", Summary: "Print machine-readable output where supported", Type: command.TypeBoolean},
	{Name: "color", Summary: "Colorize output, --no-color to disable", Type: command.TypeBoolean, Default: true},
}

// ScanGlobals reads the global options from a raw argument vector before
// the command is known. Malformed global options yield the zero Globals;
// the typed parse reports them once the command is resolved.
func ScanGlobals(args []string) app.Globals {
	parsed, err := argv.Parse(args, GlobalOptions)
	if err != nil {
		return app.Globals{}
	}
	return GlobalsFrom(parsed.Options)
}

// GlobalsFrom extracts the global options from parsed option values.
func GlobalsFrom(opts command.Options) app.Globals {
	return app.Globals{
		Help:    opts.Bool("help"),
		Version: opts.Bool("version"),
		Verbose: opts.Bool("verbose"),
		Quiet:   opts.Bool("quiet"),
		JSON:    opts.Bool("json"),
		NoColor: opts.Has("color") && !opts.Bool("color"),
	}
}

// WithGlobals returns the command's options followed by every global option
// whose names do not clash with them.
func WithGlobals(options []command.Option) []command.Option {
	out := slices.Clone(options)
	for _, g := range GlobalOptions {
		if !clashes(options, &g) {
			out = append(out, g)
		}
	}
	return out
}

// StripGlobals removes the global options that WithGlobals added from opts.
func StripGlobals(options []command.Option, opts command.Options) command.Options {
	out := maps.Clone(opts)
	if out == nil {
		out = command.Options{}
	}
	for _, g := range GlobalOptions {
		if !clashes(options, &g) {
			delete(out, g.Name)
		}
	}
	return out
}

func clashes(options []command.Option, g *command.Option) bool {
	for i := range options {
		for _, name := range options[i].Names() {
			if slices.Contains(g.Names(), name) {
				return true
			}
		}
	}
	return false
}
