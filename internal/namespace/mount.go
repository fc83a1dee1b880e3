// SPDX-License-Identifier: MPL-2.0

package namespace

// Mount is a namespace subtree contributed from outside the core, such as by
// a plugin. It becomes a child of the root.
type Mount struct {
	Name    string
	Aliases []string
	Load    Loader[*Namespace]
}

// Entries returns the child declarations for the mount.
func (m Mount) Entries() []Entry {
	out := []Entry{Sub(m.Name, m.Load)}
	for _, alias := range m.Aliases {
		out = append(out, Alias(alias, m.Name))
	}
	return out
}
