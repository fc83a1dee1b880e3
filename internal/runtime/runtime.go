// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"nimbus-cli/pkg/types"
)

var (
	// ErrEmptyScript is returned when a script has no source to run.
	ErrEmptyScript = errors.New("script has no content")
	// ErrScriptSyntax is the sentinel error wrapped by SyntaxError.
	ErrScriptSyntax = errors.New("script syntax error")
	// ErrScriptFailed is the sentinel error wrapped by ExitStatusError.
	ErrScriptFailed = errors.New("script exited with non-zero status")
)

type (
	// Runner executes a Script. VirtualRuntime is the production implementation;
	// tests substitute recorders.
	Runner interface {
		Run(ctx context.Context, s Script) error
	}

	// Script is a unit of shell source plus the environment it runs in.
	Script struct {
		// Name identifies the script in errors and logs (e.g. "scripts.build")
		Name string
		// Source is the shell source text
		Source string
		// Dir is the working directory; empty means the process working directory
		Dir string
		// Env holds variables layered over the runtime's base environment
		Env map[string]string
		// Args become the positional parameters $1, $2, ...
		Args []string
		// Stdin, Stdout and Stderr default to empty input and discarded output
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// SyntaxError is returned when a script cannot be parsed.
	SyntaxError struct {
		Script string
		Err    error
	}

	// ExitStatusError is returned when a script exits with a non-zero status.
	ExitStatusError struct {
		Script string
		Code   types.ExitCode
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script '%s': %v", e.Script, e.Err)
}

// Unwrap returns both ErrScriptSyntax and the parser error.
func (e *SyntaxError) Unwrap() []error { return []error{ErrScriptSyntax, e.Err} }

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("script '%s' exited with status %s", e.Script, e.Code)
}

// Unwrap returns ErrScriptFailed for errors.Is() compatibility.
func (e *ExitStatusError) Unwrap() error { return ErrScriptFailed }

// ExitCodeOf extracts the exit code carried by err. It returns 0 for nil and
// 1 for errors that do not carry a script exit status.
func ExitCodeOf(err error) types.ExitCode {
	if err == nil {
		return 0
	}
	var exitErr *ExitStatusError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
