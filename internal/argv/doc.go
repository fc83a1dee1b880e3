// SPDX-License-Identifier: MPL-2.0

// Package argv normalizes raw argument vectors.
//
// Normalization runs in two passes. StripOptions is a coarse pass that
// separates path candidates from option-looking tokens and the values of the
// global options, so the namespace tree can be walked before any command
// schema is known. Once the target command is resolved, DropPath removes the
// consumed path tokens and Parse re-reads the rest against the command's
// option schema using spf13/pflag.
package argv
