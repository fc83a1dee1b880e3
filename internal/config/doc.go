// SPDX-License-Identifier: MPL-2.0

// Package config handles nimbus configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/nimbus/config.cue (~/.config on
// Linux when unset, ~/Library/Application Support/nimbus/config.cue on macOS,
// %APPDATA%\nimbus\config.cue on Windows). Files are validated against the
// embedded #Config schema in config_schema.cue. Scalar settings can be
// overridden with NIMBUS_-prefixed environment variables, for example
// NIMBUS_UI_VERBOSE=true.
package config
