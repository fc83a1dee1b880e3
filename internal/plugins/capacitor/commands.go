// SPDX-License-Identifier: MPL-2.0

package capacitor

import "nimbus-cli/pkg/command"

var platforms = []string{"android", "ios"}

func platformInput(required bool) command.Input {
	validators := []command.Validator{command.Contains(platforms, false)}
	if required {
		validators = append([]command.Validator{command.Required}, validators...)
	}
	return command.Input{Name: "platform", Summary: "android or ios", Validators: validators}
}

func syncMetadata() command.Metadata {
	return command.Metadata{
		Name:    "sync",
		Summary: "Copy web assets and update native dependencies",
		Inputs:  []command.Input{platformInput(false)},
		Options: []command.Option{
			{Name: "deployment", Summary: "Use the lockfile versions of native dependencies", Type: command.TypeBoolean},
			{Name: "inline", Summary: "Inline JS source maps", Type: command.TypeBoolean, Groups: []command.Group{command.GroupAdvanced}},
		},
		Examples: []string{"android", "ios --deployment"},
	}
}

func copyMetadata() command.Metadata {
	return command.Metadata{
		Name:    "copy",
		Summary: "Copy web assets into the native projects",
		Inputs:  []command.Input{platformInput(false)},
		Options: []command.Option{
			{Name: "inline", Summary: "Inline JS source maps", Type: command.TypeBoolean, Groups: []command.Group{command.GroupAdvanced}},
		},
	}
}

func openMetadata() command.Metadata {
	return command.Metadata{
		Name:     "open",
		Summary:  "Open the native project in its IDE",
		Inputs:   []command.Input{platformInput(true)},
		Examples: []string{"ios"},
	}
}

func addMetadata() command.Metadata {
	return command.Metadata{
		Name:    "add",
		Summary: "Add a native platform project",
		Inputs:  []command.Input{platformInput(true)},
	}
}
