// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"nimbus-cli/pkg/command"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

type (
	// ChildInfo describes a direct child for help output.
	ChildInfo struct {
		Name    string
		Aliases []string
		Kind    Kind
		Summary string
		Groups  []command.Group
	}

	// CommandInfo describes a command reachable from a namespace.
	CommandInfo struct {
		// Path is the canonical path below the namespace Commands was called on.
		Path     []string
		Aliases  []string
		Metadata *command.Metadata
		Command  Command
	}
)

// Visible reports whether the child should be listed in help output.
func (c *ChildInfo) Visible() bool { return !slices.Contains(c.Groups, command.GroupHidden) }

// Children loads every direct child and describes it, in declaration order.
func (n *Namespace) Children(ctx context.Context) ([]ChildInfo, error) {
	aliases := n.children.Aliases()
	names := n.children.KeysWithoutAliases()
	out := make([]ChildInfo, 0, len(names))
	for _, name := range names {
		child, _ := n.children.Resolve(name)
		info := ChildInfo{Name: name, Aliases: aliases[name], Kind: child.Kind()}
		switch child.Kind() {
		case KindNamespace:
			ns, err := child.namespace(ctx, n)
			if err != nil {
				return nil, &LoadError{Path: append(n.relPath(), name), Kind: KindNamespace, Err: err}
			}
			info.Summary, info.Groups = ns.Summary, ns.Groups
		case KindCommand:
			meta, err := n.commandMetadata(ctx, child, name)
			if err != nil {
				return nil, err
			}
			info.Summary, info.Groups = meta.Summary, meta.Groups
		}
		out = append(out, info)
	}
	return out, nil
}

// Commands walks the subtree depth-first and describes every command, in
// declaration order. Every loader in the subtree runs.
func (n *Namespace) Commands(ctx context.Context) ([]CommandInfo, error) {
	var out []CommandInfo
	err := n.walk(ctx, nil, func(path []string, aliases []string, cmd Command, meta *command.Metadata) {
		out = append(out, CommandInfo{Path: path, Aliases: aliases, Metadata: meta, Command: cmd})
	})
	return out, err
}

func (n *Namespace) walk(ctx context.Context, prefix []string, visit func([]string, []string, Command, *command.Metadata)) error {
	aliases := n.children.Aliases()
	for _, name := range n.children.KeysWithoutAliases() {
		if err := ctx.Err(); err != nil {
			return err
		}
		child, _ := n.children.Resolve(name)
		path := append(slices.Clone(prefix), name)
		switch child.Kind() {
		case KindNamespace:
			ns, err := child.namespace(ctx, n)
			if err != nil {
				return &LoadError{Path: append(n.relPath(), name), Kind: KindNamespace, Err: err}
			}
			if err := ns.walk(ctx, path, visit); err != nil {
				return err
			}
		case KindCommand:
			cmd, err := child.command(ctx)
			if err != nil {
				return &LoadError{Path: append(n.relPath(), name), Kind: KindCommand, Err: err}
			}
			meta, err := cmd.Metadata(ctx)
			if err != nil {
				return &LoadError{Path: append(n.relPath(), name), Kind: KindCommand, Err: err}
			}
			visit(path, aliases[name], cmd, meta)
		}
	}
	return nil
}

func (n *Namespace) commandMetadata(ctx context.Context, child *Child, name string) (*command.Metadata, error) {
	cmd, err := child.command(ctx)
	if err != nil {
		return nil, &LoadError{Path: append(n.relPath(), name), Kind: KindCommand, Err: err}
	}
	meta, err := cmd.Metadata(ctx)
	if err != nil {
		return nil, &LoadError{Path: append(n.relPath(), name), Kind: KindCommand, Err: err}
	}
	return meta, nil
}

// relPath is the path below the root.
func (n *Namespace) relPath() []string {
	p := n.Path()
	return p[1:]
}

// Suggest returns the canonical names of the children closest to token,
// nearest first. Aliases count as matches for their canonical name. Hidden
// children are not filtered since that needs loading them.
func (n *Namespace) Suggest(token string) []string {
	if token == "" {
		return nil
	}
	type candidate struct {
		name  string
		dist  int
		order int
	}
	threshold := max(1, min(3, len(token)/2))
	best := make(map[string]candidate)
	for order, key := range n.children.Keys() {
		canonical, ok := n.children.ResolveKey(key)
		if !ok {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToLower(token), strings.ToLower(key))
		if strings.HasPrefix(key, token) {
			dist = min(dist, 1)
		}
		if dist > threshold {
			continue
		}
		if prev, seen := best[canonical]; seen && prev.dist <= dist {
			continue
		}
		best[canonical] = candidate{name: canonical, dist: dist, order: order}
	}

	ranked := make([]candidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	slices.SortFunc(ranked, func(a, b candidate) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return a.order - b.order
	})

	out := make([]string, 0, min(len(ranked), maxSuggestions))
	for _, c := range ranked[:min(len(ranked), maxSuggestions)] {
		out = append(out, c.name)
	}
	return out
}
