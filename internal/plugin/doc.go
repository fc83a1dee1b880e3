// SPDX-License-Identifier: MPL-2.0

// Package plugin defines what a nimbus plugin is and installs plugins into
// an invocation.
//
// A Plugin only has to identify itself. It opts into extension points by
// implementing the capability interfaces: HookRegistrar to handle events,
// NamespaceContributor to add command namespaces below the root, and
// Dependent to be installed after other plugins.
//
// Installation order is the order plugins were supplied in (the
// plugins.enabled config key, then script plugins), adjusted only as far as
// dependencies require.
package plugin
