// SPDX-License-Identifier: MPL-2.0

package aliasmap

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func mustNew[K comparable, V any](t *testing.T, entries ...Entry[K, V]) *Map[K, V] {
	t.Helper()
	m, err := New(entries...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew_DuplicateKey(t *testing.T) {
	t.Parallel()

	_, err := New(
		Canonical("build", 1),
		Alias[string, int]("b", "build"),
		Canonical("build", 2),
	)
	if err == nil {
		t.Fatal("New() expected error for duplicate key")
	}
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("error does not wrap ErrDuplicateKey: %v", err)
	}
	var dupErr *DuplicateKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error is not *DuplicateKeyError: %T", err)
	}
	if dupErr.Key != "build" || dupErr.Position != 2 {
		t.Errorf("DuplicateKeyError = %+v, want key build at position 2", dupErr)
	}
}

func TestMap_Resolve(t *testing.T) {
	t.Parallel()

	m := mustNew(t,
		Canonical("A", "value-a"),
		Alias[string, string]("b", "A"),
		Alias[string, string]("c", "b"),
		Alias[string, string]("dangling", "missing"),
		Alias[string, string]("loop1", "loop2"),
		Alias[string, string]("loop2", "loop1"),
		Alias[string, string]("self", "self"),
	)

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: "A", want: "value-a", wantOK: true},
		{key: "b", want: "value-a", wantOK: true},
		{key: "c", want: "value-a", wantOK: true},
		{key: "dangling", wantOK: false},
		{key: "loop1", wantOK: false},
		{key: "loop2", wantOK: false},
		{key: "self", wantOK: false},
		{key: "unknown", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			got, ok := m.Resolve(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestMap_ResolveLongChain(t *testing.T) {
	t.Parallel()

	const n = 50
	entries := []Entry[string, int]{Canonical("k0", 42)}
	for i := 1; i <= n; i++ {
		entries = append(entries, Alias[string, int](fmt.Sprintf("k%d", i), fmt.Sprintf("k%d", i-1)))
	}
	m := mustNew(t, entries...)

	got, ok := m.Resolve(fmt.Sprintf("k%d", n))
	if !ok || got != 42 {
		t.Errorf("Resolve(k%d) = (%d, %v), want (42, true)", n, got, ok)
	}

	key, ok := m.ResolveKey(fmt.Sprintf("k%d", n))
	if !ok || key != "k0" {
		t.Errorf("ResolveKey(k%d) = (%q, %v), want (k0, true)", n, key, ok)
	}
}

func TestMap_AliasesAndKeys(t *testing.T) {
	t.Parallel()

	m := mustNew(t,
		Canonical("A", 1),
		Alias[string, int]("b", "A"),
	)

	aliases := m.Aliases()
	if len(aliases) != 1 || !slices.Equal(aliases["A"], []string{"b"}) {
		t.Errorf("Aliases() = %v, want map[A:[b]]", aliases)
	}
	if got := m.KeysWithoutAliases(); !slices.Equal(got, []string{"A"}) {
		t.Errorf("KeysWithoutAliases() = %v, want [A]", got)
	}
}

func TestMap_AliasesGroupsChainsAndDropsDangling(t *testing.T) {
	t.Parallel()

	m := mustNew(t,
		Alias[string, int]("p", "plugins"),
		Canonical("serve", 1),
		Canonical("plugins", 2),
		Alias[string, int]("s", "serve"),
		Alias[string, int]("plugin", "plugins"),
		Alias[string, int]("pl", "plugin"),
		Alias[string, int]("ghost", "nowhere"),
		Alias[string, int]("x", "y"),
		Alias[string, int]("y", "x"),
	)

	aliases := m.Aliases()
	want := map[string][]string{
		"serve":   {"s"},
		"plugins": {"p", "plugin", "pl"},
	}
	if len(aliases) != len(want) {
		t.Fatalf("Aliases() = %v, want %v", aliases, want)
	}
	for k, v := range want {
		if !slices.Equal(aliases[k], v) {
			t.Errorf("Aliases()[%q] = %v, want %v", k, aliases[k], v)
		}
	}

	if got := m.KeysWithoutAliases(); !slices.Equal(got, []string{"serve", "plugins"}) {
		t.Errorf("KeysWithoutAliases() = %v, want [serve plugins]", got)
	}
	if m.Len() != 9 {
		t.Errorf("Len() = %d, want 9", m.Len())
	}
	if got := m.Keys(); got[0] != "p" || got[len(got)-1] != "y" {
		t.Errorf("Keys() did not preserve insertion order: %v", got)
	}
}

func TestMap_Entry(t *testing.T) {
	t.Parallel()

	m := mustNew(t,
		Canonical("info", 7),
		Alias[string, int]("i", "info"),
	)

	e, ok := m.Entry("i")
	if !ok {
		t.Fatal("Entry(i) not found")
	}
	if !e.IsAlias() {
		t.Error("Entry(i).IsAlias() = false, want true")
	}
	if target, ok := e.Target(); !ok || target != "info" {
		t.Errorf("Entry(i).Target() = (%q, %v), want (info, true)", target, ok)
	}
	if _, ok := e.Value(); ok {
		t.Error("Entry(i).Value() ok = true for alias entry")
	}

	e, ok = m.Entry("info")
	if !ok {
		t.Fatal("Entry(info) not found")
	}
	if v, ok := e.Value(); !ok || v != 7 {
		t.Errorf("Entry(info).Value() = (%d, %v), want (7, true)", v, ok)
	}
	if _, ok := m.Entry("nope"); ok {
		t.Error("Entry(nope) found, want missing")
	}
}

func TestMap_Empty(t *testing.T) {
	t.Parallel()

	m := mustNew[string, int](t)
	if _, ok := m.Resolve("anything"); ok {
		t.Error("Resolve on empty map returned ok")
	}
	if len(m.Aliases()) != 0 || len(m.KeysWithoutAliases()) != 0 {
		t.Error("empty map reported aliases or keys")
	}
}
