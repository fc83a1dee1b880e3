// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the nimbus packages:
// process exit codes, listen ports and human-readable description text.
//
// This package is a leaf dependency: it imports only the standard library.
package types
