// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"nimbus-cli/internal/app/execute"
	"nimbus-cli/internal/argv"
	"nimbus-cli/internal/commands"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/pkg/command"
)

// newCompletionCommand creates the `nimbus completion` command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for nimbus.

To enable shell completions, run one of the following commands:

` + commands.SubtitleStyle.Render("Bash:") + `
  # Add to ~/.bashrc:
  eval "$(nimbus completion bash)"

` + commands.SubtitleStyle.Render("Zsh:") + `
  # Add to ~/.zshrc:
  eval "$(nimbus completion zsh)"

` + commands.SubtitleStyle.Render("Fish:") + `
  nimbus completion fish > ~/.config/fish/completions/nimbus.fish

` + commands.SubtitleStyle.Render("PowerShell:") + `
  nimbus completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completeArgs completes command paths from the namespace tree and option
// names of the resolved command. Logging is discarded so nothing reaches
// the shell.
func completeArgs(opts execute.Options) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		opts.Stdout, opts.Stderr = io.Discard, io.Discard
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := execute.New(opts).Prepare(ctx, args)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		completions, err := complete(ctx, s.Root, s.Args, toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// complete returns "name\tsummary" candidates for toComplete after args.
func complete(ctx context.Context, root *namespace.Namespace, args []string, toComplete string) ([]string, error) {
	loc, err := namespace.Locate(ctx, root, argv.StripOptions(args, commands.GlobalOptions))
	if err != nil {
		return nil, err
	}

	if loc.Found() {
		if !strings.HasPrefix(toComplete, "-") {
			return nil, nil
		}
		meta, err := loc.Command.Metadata(ctx)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, opt := range commands.WithGlobals(meta.Options) {
			if opt.HasGroup(command.GroupHidden) {
				continue
			}
			if name := "--" + opt.Name; strings.HasPrefix(name, toComplete) {
				out = append(out, name+"\t"+opt.Summary)
			}
		}
		return out, nil
	}
	if len(loc.Args) > 0 {
		return nil, nil
	}

	children, err := loc.Namespace.Children(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for i := range children {
		child := &children[i]
		if !child.Visible() {
			continue
		}
		for _, name := range slices.Concat([]string{child.Name}, child.Aliases) {
			if strings.HasPrefix(name, toComplete) {
				out = append(out, name+"\t"+child.Summary)
			}
		}
	}
	return out, nil
}
