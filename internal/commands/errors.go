// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/namespace"
)

var (
	// ErrCommandNotFound is the sentinel error wrapped by CommandNotFoundError.
	ErrCommandNotFound = errors.New("command not found")
	// ErrUnknownConfigKey is returned by `config get` for keys Get rejects.
	ErrUnknownConfigKey = errors.New("unknown config key")
)

// CommandNotFoundError reports a token that names no child of the deepest
// namespace reached.
type CommandNotFoundError struct {
	// Path is the canonical path that did resolve, root name first.
	Path        []string
	Token       string
	Suggestions []string
}

// Error implements the error interface.
func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("unknown command '%s' for '%s'", e.Token, strings.Join(e.Path, " "))
}

// Unwrap returns ErrCommandNotFound for errors.Is() compatibility.
func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

// NotFound builds the actionable error for a walk that stopped on an
// unknown token.
func NotFound(loc *namespace.Location) error {
	token := ""
	if len(loc.Args) > 0 {
		token = loc.Args[0]
	}
	path := loc.Namespace.Path()
	nf := &CommandNotFoundError{Path: path, Token: token, Suggestions: loc.Namespace.Suggest(token)}

	ec := issue.NewErrorContext().
		WithOperation("resolve command").
		WithResource(joinPath(path, token)).
		WithIssue(issue.CommandNotFoundId)
	for _, s := range nf.Suggestions {
		ec = ec.WithSuggestion("Did you mean '" + joinPath(path, s) + "'?")
	}
	return ec.
		WithSuggestion("Run '" + joinPath(path, "--help") + "' to list the available commands").
		Wrap(nf).
		BuildError()
}

func joinPath(path []string, more ...string) string {
	return strings.Join(slices.Concat(path, more), " ")
}
