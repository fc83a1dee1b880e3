// SPDX-License-Identifier: MPL-2.0

// Package commands builds the root namespace of nimbus: the core commands,
// the namespaces mounted by installed plugins and the aliases configured by
// the user. It also renders help output.
package commands
