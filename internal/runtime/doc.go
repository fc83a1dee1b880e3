// SPDX-License-Identifier: MPL-2.0

// Package runtime runs shell scripts for nimbus.
//
// Scripts come from three places: the project file's scripts block, the
// built-in cordova and capacitor commands, and script plugins. All of them
// run through VirtualRuntime, an embedded POSIX shell interpreter (mvdan/sh),
// so behavior does not depend on the host shell.
//
// A script that exits non-zero yields an *ExitStatusError carrying the exit
// code; the CLI shell propagates that code as the process exit status.
package runtime
