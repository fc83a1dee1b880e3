// SPDX-License-Identifier: MPL-2.0

// Package discovery finds and loads script plugins.
//
// A script plugin is a directory named <id>.nimbusplugin holding a
// plugin.toml manifest. Directories are looked up in the configured
// plugins.search_paths and in <config dir>/plugins.
//
// File organization:
//   - manifest.go: manifest types, parsing and validation
//   - discovery.go: directory scanning, diagnostics and collision checks
//   - plugin.go: adaptation of a manifest into a plugin.Plugin
package discovery
