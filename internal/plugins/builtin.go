// SPDX-License-Identifier: MPL-2.0

// Package plugins assembles the catalog of built-in plugins.
package plugins

import (
	"nimbus-cli/internal/app"
	"nimbus-cli/internal/plugin"
	"nimbus-cli/internal/plugins/capacitor"
	"nimbus-cli/internal/plugins/cordova"
)

// Catalog returns the built-in plugins bound to env, keyed by ID.
func Catalog(env *app.Env) *plugin.Catalog {
	c := plugin.NewCatalog()
	// IDs are distinct constants; Add cannot fail here.
	_ = c.Add(cordova.ID, func() plugin.Plugin { return cordova.New() })
	_ = c.Add(capacitor.ID, func() plugin.Plugin { return capacitor.New(env) })
	return c
}
