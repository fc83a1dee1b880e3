// SPDX-License-Identifier: MPL-2.0

// Package aliasmap provides an immutable ordered map whose entries hold either
// a canonical value or an alias pointing at another key of the same map.
//
// Maps are built once from an ordered list of entries and are read-only
// afterwards. Alias chains are resolved transitively with the number of hops
// bounded by the size of the map, so dangling and cyclic chains resolve to
// "not found" instead of failing or looping.
//
//	m, err := aliasmap.New(
//		aliasmap.Canonical("serve", serveLoader),
//		aliasmap.Alias[string, Loader]("s", "serve"),
//	)
//	loader, ok := m.Resolve("s") // serveLoader, true
package aliasmap
