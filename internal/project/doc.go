// SPDX-License-Identifier: MPL-2.0

// Package project locates and parses nimbus.cue, the project file that marks
// the root of an app managed by nimbus.
//
// The file is validated against the embedded #Project schema. It names the
// project, optionally declares its type, maps script names to shell source
// run by "nimbus run", "nimbus build" and "nimbus serve", and configures
// integrations such as cordova and capacitor.
package project
