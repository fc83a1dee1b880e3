// SPDX-License-Identifier: MPL-2.0

// Package app holds Env, the execution environment handed to every command.
//
// The executor builds one Env per invocation. Commands read configuration,
// the current project and global option state from it, fire hooks through
// it and run scripts with its runtime. Plugins receive the same Env through
// hook payloads and command invocations, never through globals.
package app
