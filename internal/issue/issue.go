// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Catalog entries.
const (
	CommandNotFoundId Id = iota + 1
	ValidationFailedId
	PluginLoadFailedId
	ConfigLoadFailedId
	ProjectNotFoundId
	ScriptExecutionFailedId
	HookFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an entry.
	MarkdownMsg string

	// HttpLink is a documentation link.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the entry identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the entry body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns the documentation links of the entry.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the entry for the terminal. stylePath is a glamour style
// name such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

// Values returns every catalog entry, ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, nil if unknown.
func Get(id Id) *Issue { return issues[id] }

var (
	render = glamour.Render

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found

nimbus walked the command tree as far as it could, but the next word did not
name a command or a namespace.

## Things you can try:
- List what is available at that level:
~~~
$ nimbus help <namespace>
~~~
- Check the spelling. Suggestions are shown when a close match exists.
- If the command comes from a plugin, make sure the plugin is enabled:
~~~
$ nimbus plugins list
~~~`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/commands"},
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Invalid arguments

One or more inputs or options did not pass validation. Every problem found is
listed above so they can all be fixed at once.

## Things you can try:
- Show the inputs and options of the command:
~~~
$ nimbus <command> --help
~~~
- Use '--' to pass values that start with a dash to the underlying tool.`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/arguments"},
	}

	pluginLoadFailedIssue = &Issue{
		id: PluginLoadFailedId,
		mdMsg: `
# A plugin failed to load

nimbus could not install one of its plugins, so its commands and hooks are
unavailable.

## Things you can try:
- Check the plugin IDs listed under 'plugins.enabled' in your config file.
- For script plugins, validate the 'plugin.toml' manifest of each
  '*.nimbusplugin' directory in your search paths.
- Two plugins with the same ID cannot be installed together.`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/plugins"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show where nimbus looks for it:
~~~
$ nimbus config path
~~~
- Check the CUE syntax and the field names reported above.
- NIMBUS_* environment variables override file values.`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/config"},
	}

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No project found

This command needs a 'nimbus.cue' project file in the current directory or one
of its parents.

## Example nimbus.cue:
~~~cue
name: "my-app"
type: "capacitor"
scripts: {
	build: "npm run build"
	serve: "npm run dev -- --port $NIMBUS_PORT"
}
~~~`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/project"},
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed

A project script exited with an error. Its output is shown above.

## Things you can try:
- Run the script on its own:
~~~
$ nimbus run <script>
~~~
- Re-run with '--verbose' to see the environment passed to the script.`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/scripts"},
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# A plugin hook failed

One or more plugins reported an error while handling a lifecycle event. The
remaining plugins still ran.

## Things you can try:
- Disable the plugin named in the error by removing it from
  'plugins.enabled'.
- Re-run with '--verbose' to see which handlers ran.`,
		docLinks: []HttpLink{"https://nimbus.dev/docs/hooks"},
	}

	issues = map[Id]*Issue{
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		validationFailedIssue.Id():      validationFailedIssue,
		pluginLoadFailedIssue.Id():      pluginLoadFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		projectNotFoundIssue.Id():       projectNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		hookFailedIssue.Id():            hookFailedIssue,
	}
)
