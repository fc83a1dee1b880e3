// SPDX-License-Identifier: MPL-2.0

package namespace

import "context"

type (
	// Segment is one consumed path token.
	Segment struct {
		// Token is the name as typed, possibly an alias.
		Token string
		// Name is the canonical child name.
		Name string
	}

	// Location is the result of walking the tree.
	Location struct {
		// Path lists the consumed tokens, root excluded.
		Path []Segment
		// Args are the unconsumed tokens.
		Args []string
		// Namespace is the deepest namespace reached. When Command is set it
		// is the namespace owning the command.
		Namespace *Namespace
		// Command is the resolved command, nil when the walk stopped short.
		Command Command
	}
)

// Found reports whether the walk ended on a command.
func (l *Location) Found() bool { return l.Command != nil }

// Tokens returns the consumed tokens as typed.
func (l *Location) Tokens() []string {
	out := make([]string, len(l.Path))
	for i, s := range l.Path {
		out[i] = s.Token
	}
	return out
}

// Names returns the canonical names of the consumed path.
func (l *Location) Names() []string {
	out := make([]string, len(l.Path))
	for i, s := range l.Path {
		out[i] = s.Name
	}
	return out
}

// Locate resolves tokens against the tree rooted at root.
//
// Tokens are processed left to right. A token naming a sub-namespace loads it
// and descends; a token naming a command loads it and stops, leaving every
// later token in Args. A token that names neither stops the walk and stays in
// Args together with all tokens after it. Loader failures are returned as a
// *LoadError.
func Locate(ctx context.Context, root *Namespace, tokens []string) (*Location, error) {
	loc := &Location{Namespace: root, Args: []string{}}
	for i, tok := range tokens {
		child, name, ok := loc.Namespace.Lookup(tok)
		if !ok {
			loc.Args = append(loc.Args, tokens[i:]...)
			return loc, nil
		}
		seg := Segment{Token: tok, Name: name}

		switch child.Kind() {
		case KindNamespace:
			ns, err := child.namespace(ctx, loc.Namespace)
			if err != nil {
				return nil, &LoadError{Path: append(loc.Names(), name), Kind: KindNamespace, Err: err}
			}
			loc.Path = append(loc.Path, seg)
			loc.Namespace = ns
		case KindCommand:
			cmd, err := child.command(ctx)
			if err != nil {
				return nil, &LoadError{Path: append(loc.Names(), name), Kind: KindCommand, Err: err}
			}
			loc.Path = append(loc.Path, seg)
			loc.Command = cmd
			loc.Args = append(loc.Args, tokens[i+1:]...)
			return loc, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return loc, nil
}
