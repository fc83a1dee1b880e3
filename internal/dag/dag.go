// SPDX-License-Identifier: MPL-2.0

// Package dag orders nodes of a directed acyclic graph. The plugin installer
// uses it to install plugins after the plugins they depend on.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError indicates that the graph contains a cycle, preventing a
	// topological order.
	CycleError[K comparable] struct {
		// Cycle lists the nodes left unordered, in insertion order. Every cycle
		// is among them, along with the nodes that depend on one.
		Cycle []K
	}

	// Graph is a directed graph whose edges mean "must come before": an edge
	// from A to B places A ahead of B. Nodes keep their insertion order.
	Graph[K comparable] struct {
		successors map[K][]K
		indegree   map[K]int
		index      map[K]int
		nodes      []K
	}
)

// Error implements the error interface.
func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(parts, ", "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError[K]) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		successors: make(map[K][]K),
		indegree:   make(map[K]int),
		index:      make(map[K]int),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.indegree[n] = 0
}

// AddEdge records that from must come before to, adding either node if
// needed. Repeated edges are recorded once.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.successors[from], to) {
		return
	}
	g.successors[from] = append(g.successors[from], to)
	g.indegree[to]++
}

// Has reports whether n is a node of the graph.
func (g *Graph[K]) Has(n K) bool {
	_, ok := g.index[n]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// TopologicalSort returns every node such that each edge points forward.
// Among the nodes that are free to go next it always picks the one added
// first, so a graph without edges sorts into insertion order.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	indegree := make(map[K]int, len(g.indegree))
	for n, d := range g.indegree {
		indegree[n] = d
	}

	// ready holds insertion indexes of nodes with no pending predecessors,
	// kept sorted.
	var ready []int
	for i, n := range g.nodes {
		if indegree[n] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]K, 0, len(g.nodes))
	for len(ready) > 0 {
		n := g.nodes[ready[0]]
		ready = ready[1:]
		order = append(order, n)

		for _, next := range g.successors[n] {
			indegree[next]--
			if indegree[next] == 0 {
				idx := g.index[next]
				pos, _ := slices.BinarySearch(ready, idx)
				ready = slices.Insert(ready, pos, idx)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var stuck []K
		for _, n := range g.nodes {
			if indegree[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError[K]{Cycle: stuck}
	}
	return order, nil
}
