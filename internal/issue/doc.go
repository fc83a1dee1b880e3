// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Errors can reference an entry of the issue catalog, a set
// of Markdown help pages rendered with glamour when nimbus runs verbosely.
package issue
