// SPDX-License-Identifier: MPL-2.0

// Package namespace implements the lazily materialized command tree.
//
// Every node holds an alias map of children. A child is either a
// sub-namespace or a command, and both are produced by a Loader that runs the
// first time resolution reaches the child. Successful loads are cached for the
// life of the process; failed loads are reported to the caller and retried on
// the next traversal.
//
// Locate walks a token vector left to right. Descent stops at the first
// command (the remaining tokens become its inputs) or at the first token that
// does not resolve, in which case the deepest namespace reached is returned
// together with every unconsumed token.
package namespace
