// SPDX-License-Identifier: MPL-2.0

// Package command defines the static descriptor of an invocable command:
// its positional inputs, its typed options and the validators attached to
// them.
//
// Descriptors are plain data. Parsing a token vector against a descriptor is
// done by internal/argv; this package only validates already-normalized
// values. Validation never stops at the first problem: Validate returns every
// Violation so callers can report all of them at once.
package command
