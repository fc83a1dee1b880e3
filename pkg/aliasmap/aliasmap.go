// SPDX-License-Identifier: MPL-2.0

package aliasmap

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is the sentinel error wrapped by DuplicateKeyError.
var ErrDuplicateKey = errors.New("duplicate key")

type (
	// Entry is a single map slot: either a canonical value or an alias to
	// another key. The zero value is not a valid entry; build entries with
	// Canonical or Alias.
	Entry[K comparable, V any] struct {
		key    K
		value  V
		target K
		alias  bool
	}

	// Map is an immutable, insertion-ordered collection of entries.
	Map[K comparable, V any] struct {
		entries []Entry[K, V]
		index   map[K]int
	}

	// DuplicateKeyError is returned by New when two entries share a key.
	// It wraps ErrDuplicateKey for errors.Is() compatibility.
	DuplicateKeyError struct {
		Key      string
		Position int
	}
)

// Canonical creates an entry holding a value under key.
func Canonical[K comparable, V any](key K, value V) Entry[K, V] {
	return Entry[K, V]{key: key, value: value}
}

// Alias creates an entry that resolves key to whatever target resolves to.
func Alias[K comparable, V any](key, target K) Entry[K, V] {
	return Entry[K, V]{key: key, target: target, alias: true}
}

// Key returns the entry key.
func (e Entry[K, V]) Key() K { return e.key }

// IsAlias reports whether the entry is an alias.
func (e Entry[K, V]) IsAlias() bool { return e.alias }

// Value returns the canonical value. ok is false for alias entries.
func (e Entry[K, V]) Value() (value V, ok bool) {
	if e.alias {
		return value, false
	}
	return e.value, true
}

// Target returns the aliased key. ok is false for canonical entries.
func (e Entry[K, V]) Target() (target K, ok bool) {
	if !e.alias {
		return target, false
	}
	return e.target, true
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at position %d", e.Key, e.Position)
}

// Unwrap returns ErrDuplicateKey for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// New builds a Map from entries in order. Keys must be unique; aliases may
// point at keys that are not (yet) present, such entries simply never resolve.
func New[K comparable, V any](entries ...Entry[K, V]) (*Map[K, V], error) {
	m := &Map[K, V]{
		entries: make([]Entry[K, V], 0, len(entries)),
		index:   make(map[K]int, len(entries)),
	}
	for i, e := range entries {
		if _, exists := m.index[e.key]; exists {
			return nil, &DuplicateKeyError{Key: fmt.Sprint(e.key), Position: i}
		}
		m.index[e.key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// Len returns the number of entries, aliases included.
func (m *Map[K, V]) Len() int { return len(m.entries) }

// Keys returns every key in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Entry returns the raw entry stored under key without following aliases.
func (m *Map[K, V]) Entry(key K) (Entry[K, V], bool) {
	i, ok := m.index[key]
	if !ok {
		return Entry[K, V]{}, false
	}
	return m.entries[i], true
}

// Resolve looks up key, following aliases until a canonical value is found.
// Dangling and cyclic alias chains yield ok == false.
func (m *Map[K, V]) Resolve(key K) (value V, ok bool) {
	e, ok := m.resolve(key)
	if !ok {
		return value, false
	}
	return e.value, true
}

// ResolveKey returns the canonical key that key resolves to.
func (m *Map[K, V]) ResolveKey(key K) (canonical K, ok bool) {
	e, ok := m.resolve(key)
	if !ok {
		return canonical, false
	}
	return e.key, true
}

// Aliases maps each canonical key to the alias keys that resolve to it, in
// insertion order. Aliases whose chain does not end at a canonical entry are
// left out.
func (m *Map[K, V]) Aliases() map[K][]K {
	out := make(map[K][]K)
	for _, e := range m.entries {
		if !e.alias {
			continue
		}
		target, ok := m.resolve(e.key)
		if !ok {
			continue
		}
		out[target.key] = append(out[target.key], e.key)
	}
	return out
}

// KeysWithoutAliases returns the keys holding canonical values, in insertion order.
func (m *Map[K, V]) KeysWithoutAliases() []K {
	keys := make([]K, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.alias {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// resolve walks the alias chain starting at key. A chain can visit at most
// len(entries) distinct slots, so any longer walk is a cycle.
func (m *Map[K, V]) resolve(key K) (Entry[K, V], bool) {
	for hops := 0; hops <= len(m.entries); hops++ {
		i, ok := m.index[key]
		if !ok {
			return Entry[K, V]{}, false
		}
		e := m.entries[i]
		if !e.alias {
			return e, true
		}
		key = e.target
	}
	return Entry[K, V]{}, false
}
