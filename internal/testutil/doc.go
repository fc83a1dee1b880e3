// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers for process-wide state: environment
// variables, the home directory and on-disk fixtures. Tests using them must
// not call t.Parallel.
package testutil
