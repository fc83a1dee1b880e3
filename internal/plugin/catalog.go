// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"
	"slices"
)

type (
	// Factory creates a fresh plugin instance.
	Factory func() Plugin

	// Catalog maps plugin IDs to factories. The zero value is not usable;
	// call NewCatalog.
	Catalog struct {
		ids       []string
		factories map[string]Factory
	}
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Add registers factory under id.
func (c *Catalog) Add(id string, factory Factory) error {
	if _, exists := c.factories[id]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicatePlugin, id)
	}
	c.ids = append(c.ids, id)
	c.factories[id] = factory
	return nil
}

// IDs returns the registered IDs in registration order.
func (c *Catalog) IDs() []string { return slices.Clone(c.ids) }

// Select instantiates the plugins named by ids, in that order.
func (c *Catalog) Select(ids []string) ([]Plugin, error) {
	out := make([]Plugin, 0, len(ids))
	for _, id := range ids {
		factory, ok := c.factories[id]
		if !ok {
			return nil, &UnknownPluginError{ID: id, Available: c.IDs()}
		}
		out = append(out, factory())
	}
	return out, nil
}
