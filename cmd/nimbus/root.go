// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"nimbus-cli/internal/app/execute"
	"nimbus-cli/internal/commands"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand creates the root command. Flag parsing is disabled: every
// token after the program name goes to the executor unchanged.
func newRootCommand(opts execute.Options) *cobra.Command {
	root := &cobra.Command{
		Use:   commands.RootName + " [command] [options]",
		Short: "Build, serve and extend hybrid app projects",
		Long: commands.TitleStyle.Render(commands.RootName) + commands.SubtitleStyle.Render(" - Build, serve and extend hybrid app projects") + `

Commands come from nimbus itself, from the built-in cordova and capacitor
plugins and from script plugins in the plugins directory.

` + commands.SubtitleStyle.Render("Examples:") + `
  nimbus info               Show project, plugin and system information
  nimbus build --prod       Build the project for production
  nimbus serve -p 4200      Start the development server on port 4200
  nimbus help config get    Show help for a command`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		ValidArgsFunction:  completeArgs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	root.SetHelpCommand(newHelpCommand(opts))
	root.AddCommand(newCompletionCommand())
	return root
}

// newHelpCommand replaces Cobra's help command so `nimbus help ...` is
// answered from the namespace tree like any other command.
func newHelpCommand(opts execute.Options) *cobra.Command {
	return &cobra.Command{
		Use:                "help [command]",
		Short:              "Show help for a command",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, append([]string{"help"}, args...))
		},
	}
}

// run executes args and turns a failure into a rendered *ExitError.
func run(ctx context.Context, opts execute.Options, args []string) error {
	err := execute.New(opts).Execute(ctx, args)
	if err == nil {
		return nil
	}
	verbose := commands.ScanGlobals(args).Verbose
	code, issueID := classifyError(err)
	svcErr := newServiceError(err, issueID, styledMessage(err, verbose))
	renderServiceError(opts.Stderr, svcErr, verbose)
	return &ExitError{Code: code, Err: svcErr}
}

// Execute runs nimbus with the process arguments and exits with the
// code of the outcome.
func Execute() {
	opts := execute.Options{
		Version: Version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	if err := fang.Execute(
		context.Background(),
		newRootCommand(opts),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError leaves already rendered errors alone and lets fang style
// the rest, such as errors of the completion command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
