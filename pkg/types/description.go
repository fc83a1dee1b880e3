// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText is a human-readable summary for a command, input or
	// option. Empty is valid; a non-empty value must contain something other
	// than whitespace and fit on one line.
	DescriptionText string

	// InvalidDescriptionTextError is returned when a DescriptionText is
	// whitespace-only or spans several lines.
	InvalidDescriptionTextError struct {
		Value  DescriptionText
		Reason string
	}
)

// String returns the string representation of the DescriptionText.
func (d DescriptionText) String() string { return string(d) }

// IsValid returns whether the DescriptionText is valid, and the validation
// errors if it is not.
func (d DescriptionText) IsValid() (bool, []error) {
	switch {
	case d == "":
		return true, nil
	case strings.TrimSpace(string(d)) == "":
		return false, []error{&InvalidDescriptionTextError{Value: d, Reason: "must not be whitespace-only"}}
	case strings.ContainsAny(string(d), "\r\n"):
		return false, []error{&InvalidDescriptionTextError{Value: d, Reason: "must be a single line"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDescriptionTextError.
func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }
