// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"nimbus-cli/internal/argv"
	"nimbus-cli/internal/commands"
	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/runtime"
	"nimbus-cli/pkg/command"
	"nimbus-cli/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps a failed invocation to its exit code and to the
// catalog entry explaining it. Usage errors exit with 2; script failures
// keep the script's exit status.
func classifyError(err error) (types.ExitCode, issue.Id) {
	switch {
	case errors.Is(err, commands.ErrCommandNotFound):
		return types.ExitUsage, issue.CommandNotFoundId
	case errors.Is(err, command.ErrValidation), errors.Is(err, argv.ErrInvalidArgument):
		return types.ExitUsage, issue.ValidationFailedId
	case errors.Is(err, runtime.ErrScriptFailed):
		return runtime.ExitCodeOf(err), issue.ScriptExecutionFailedId
	case errors.Is(err, context.Canceled):
		return types.ExitFailure, 0
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return types.ExitFailure, ae.Issue
	}
	return types.ExitFailure, 0
}
