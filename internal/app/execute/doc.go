// SPDX-License-Identifier: MPL-2.0

// Package execute runs one nimbus invocation end to end: it loads the
// configuration and the project, installs the built-in and script plugins,
// builds the command tree, resolves the argument vector against it and runs
// the resolved command with normalized, validated arguments.
package execute
