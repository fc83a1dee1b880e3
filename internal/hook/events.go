// SPDX-License-Identifier: MPL-2.0

package hook

import "slices"

// Core events fired by nimbus.
var (
	// PluginsInit fires once after every plugin is installed.
	PluginsInit = NewEvent[PluginsInitPayload, None]("plugins:init")
	// CommandInfo collects environment details for `nimbus info`.
	CommandInfo = NewEvent[InfoPayload, []InfoItem]("command:info")
	// BuildBefore fires before the project build script runs.
	BuildBefore = NewEvent[BuildPayload, None]("build:before")
	// BuildAfter fires after the project build script succeeded.
	BuildAfter = NewEvent[BuildPayload, None]("build:after")
	// ServeBefore fires before the dev server starts.
	ServeBefore = NewEvent[ServePayload, None]("serve:before")
	// ServeAfter fires once the dev server script has exited.
	ServeAfter = NewEvent[ServePayload, None]("serve:after")
	// ProjectDetect asks plugins to identify the project type of a directory.
	// The first plugin answering wins.
	ProjectDetect = NewEvent[DetectPayload, string]("project:detect")
)

// Info groups used by the command:info event.
const (
	InfoGroupNimbus      = "nimbus"
	InfoGroupIntegration = "integration"
	InfoGroupSystem      = "system"
	InfoGroupEnvironment = "environment"
)

type (
	// PluginsInitPayload lists the installed plugins in installation order.
	PluginsInitPayload struct {
		Plugins []string
	}

	// Project identifies the project a hook runs for. Dir is empty when
	// nimbus runs outside a project.
	Project struct {
		Name string
		Type string
		Dir  string
		// Integrations lists the enabled integrations, sorted.
		Integrations []string
	}

	// InfoPayload is the payload of command:info.
	InfoPayload struct {
		Project Project
	}

	// InfoItem is one line of `nimbus info` output.
	InfoItem struct {
		Group string `json:"group"`
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// BuildPayload is the payload of build:before and build:after.
	BuildPayload struct {
		Project  Project
		Engine   string
		Platform string
		Prod     bool
	}

	// ServePayload is the payload of serve:before and serve:after.
	ServePayload struct {
		Project Project
		Engine  string
		Host    string
		Port    string
		Open    bool
	}

	// DetectPayload is the payload of project:detect.
	DetectPayload struct {
		Dir string
	}
)

// URL returns the address the dev server listens on.
func (p ServePayload) URL() string {
	return "http://" + p.Host + ":" + p.Port
}

// HasIntegration reports whether the named integration is enabled.
func (p Project) HasIntegration(name string) bool {
	return slices.Contains(p.Integrations, name)
}
