// SPDX-License-Identifier: MPL-2.0

// Package cmd is the nimbus process shell.
//
// A single Cobra root command hands the raw argument vector to the executor
// in internal/app/execute, which resolves it against the namespace tree. The
// shell adds shell completion, renders errors and maps them to process exit
// codes.
package cmd
