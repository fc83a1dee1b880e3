// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"nimbus-cli/pkg/aliasmap"
	"nimbus-cli/pkg/command"
)

const (
	// KindNamespace marks a child that loads a sub-namespace.
	KindNamespace Kind = "namespace"
	// KindCommand marks a child that loads a command.
	KindCommand Kind = "command"
)

var (
	// ErrLoadFailed is the sentinel error wrapped by LoadError.
	ErrLoadFailed = errors.New("failed to load")
	// ErrInvalidNamespace is returned when a namespace cannot be constructed.
	ErrInvalidNamespace = errors.New("invalid namespace")
)

type (
	// Loader is a deferred factory for a namespace or a command.
	Loader[T any] func(ctx context.Context) (T, error)

	// Kind distinguishes namespace children from command children.
	Kind string

	// Entry is one child declaration: a canonical child or an alias to a sibling.
	Entry = aliasmap.Entry[string, *Child]

	// Meta is the descriptive part of a namespace.
	Meta struct {
		Name        string
		Summary     string
		Description string
		Groups      []command.Group
	}

	// Namespace is a node of the command tree.
	Namespace struct {
		Meta

		children *aliasmap.Map[string, *Child]

		mu     sync.Mutex
		parent *Namespace
	}

	// Child is the canonical payload of a namespace entry. It memoizes the
	// result of its loader.
	Child struct {
		kind          Kind
		loadNamespace Loader[*Namespace]
		loadCommand   Loader[Command]

		mu     sync.Mutex
		ns     *Namespace
		cmd    Command
		loaded bool
	}

	// LoadError reports a loader failure together with the path being resolved.
	// It wraps ErrLoadFailed for errors.Is() compatibility.
	LoadError struct {
		Path []string
		Kind Kind
		Err  error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s '%s': %v", e.Kind, strings.Join(e.Path, " "), e.Err)
}

// Unwrap returns both ErrLoadFailed and the loader's error.
func (e *LoadError) Unwrap() []error { return []error{ErrLoadFailed, e.Err} }

// New builds a namespace node. Child names must be unique; an alias may only
// point at a sibling.
func New(meta Meta, entries ...Entry) (*Namespace, error) {
	if meta.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidNamespace)
	}
	children, err := aliasmap.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrInvalidNamespace, meta.Name, err)
	}
	return &Namespace{Meta: meta, children: children}, nil
}

// Sub declares a sub-namespace child.
func Sub(name string, load Loader[*Namespace]) Entry {
	return aliasmap.Canonical(name, &Child{kind: KindNamespace, loadNamespace: load})
}

// Static declares a sub-namespace child that is already built.
func Static(ns *Namespace) Entry {
	return Sub(ns.Name, func(context.Context) (*Namespace, error) { return ns, nil })
}

// Cmd declares a command child.
func Cmd(name string, load Loader[Command]) Entry {
	return aliasmap.Canonical(name, &Child{kind: KindCommand, loadCommand: load})
}

// Alias declares name as an alternate name of the sibling target.
func Alias(name, target string) Entry {
	return aliasmap.Alias[string, *Child](name, target)
}

// Kind reports whether the child is a namespace or a command.
func (c *Child) Kind() Kind { return c.kind }

// Parent returns the namespace this node was reached from, nil for the root.
func (n *Namespace) Parent() *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent
}

// Path returns the names from the root down to n.
func (n *Namespace) Path() []string {
	var path []string
	for cur := n; cur != nil; cur = cur.Parent() {
		path = append(path, cur.Name)
	}
	slices.Reverse(path)
	return path
}

// Lookup resolves token against the direct children, following aliases. It
// returns the canonical name of the child.
func (n *Namespace) Lookup(token string) (child *Child, canonical string, ok bool) {
	child, ok = n.children.Resolve(token)
	if !ok {
		return nil, "", false
	}
	canonical, _ = n.children.ResolveKey(token)
	return child, canonical, true
}

// Names returns the canonical child names in declaration order.
func (n *Namespace) Names() []string { return n.children.KeysWithoutAliases() }

// AliasesOf returns the aliases of the canonical child name.
func (n *Namespace) AliasesOf(name string) []string { return n.children.Aliases()[name] }

// namespace loads (or returns the cached) sub-namespace and links it to parent.
func (c *Child) namespace(ctx context.Context, parent *Namespace) (*Namespace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.ns, nil
	}
	ns, err := c.loadNamespace(ctx)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		return nil, errors.New("loader returned no namespace")
	}
	ns.mu.Lock()
	ns.parent = parent
	ns.mu.Unlock()
	c.ns, c.loaded = ns, true
	return ns, nil
}

// command loads (or returns the cached) command.
func (c *Child) command(ctx context.Context) (Command, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.cmd, nil
	}
	cmd, err := c.loadCommand(ctx)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, errors.New("loader returned no command")
	}
	c.cmd, c.loaded = cmd, true
	return cmd, nil
}
