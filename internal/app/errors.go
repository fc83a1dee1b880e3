// SPDX-License-Identifier: MPL-2.0

package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingScript is the sentinel error wrapped by MissingScriptError.
var ErrMissingScript = errors.New("script not defined")

// MissingScriptError is returned when a command needs a project script that
// the project file does not declare.
type MissingScriptError struct {
	Name      string
	Project   string
	Available []string
}

// Error implements the error interface.
func (e *MissingScriptError) Error() string {
	msg := fmt.Sprintf("script '%s' is not defined in %s", e.Name, e.Project)
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}

// Unwrap returns ErrMissingScript for errors.Is() compatibility.
func (e *MissingScriptError) Unwrap() error { return ErrMissingScript }
