// SPDX-License-Identifier: MPL-2.0

package cordova

import (
	"strings"

	"nimbus-cli/pkg/command"
)

var platforms = []string{"android", "ios", "browser", "electron"}

func platformInput() command.Input {
	return command.Input{
		Name:       "platform",
		Summary:    "The platform to target (" + strings.Join(platforms, ", ") + ")",
		Validators: []command.Validator{command.Contains(platforms, false)},
	}
}

func buildOptions() []command.Option {
	return []command.Option{
		{Name: "release", Summary: "Perform a release build", Type: command.TypeBoolean},
		{Name: "debug", Summary: "Perform a debug build", Type: command.TypeBoolean, Groups: []command.Group{command.GroupAdvanced}},
		{Name: "device", Summary: "Target a connected device", Type: command.TypeBoolean},
		{Name: "emulator", Summary: "Target an emulator", Type: command.TypeBoolean},
		{Name: "buildConfig", Summary: "Path to a build configuration file", Hint: "file", Groups: []command.Group{command.GroupAdvanced}},
	}
}

func buildMetadata() command.Metadata {
	return command.Metadata{
		Name:        "build",
		Summary:     "Build the native app with Cordova",
		Description: "Runs `cordova build` in the cordova integration root.",
		Inputs:      []command.Input{platformInput()},
		Options:     buildOptions(),
		Examples:    []string{"android", "ios --release"},
	}
}

func runMetadata() command.Metadata {
	opts := append(buildOptions(),
		command.Option{Name: "list", Summary: "List available targets", Type: command.TypeBoolean},
		command.Option{Name: "target", Summary: "Deploy to a specific target", Hint: "id"},
	)
	return command.Metadata{
		Name:     "run",
		Summary:  "Run the app on a device or emulator with Cordova",
		Inputs:   []command.Input{platformInput()},
		Options:  opts,
		Examples: []string{"android --device", "ios --list"},
	}
}

func prepareMetadata() command.Metadata {
	return command.Metadata{
		Name:    "prepare",
		Summary: "Copy web assets and restore platforms and plugins",
		Inputs:  []command.Input{platformInput()},
	}
}

func platformMetadata() command.Metadata {
	return command.Metadata{
		Name:    "platform",
		Summary: "Manage Cordova platform targets",
		Inputs: []command.Input{
			{
				Name:       "action",
				Summary:    "add, remove, list or update",
				Validators: []command.Validator{command.Required, command.Contains([]string{"add", "remove", "rm", "list", "ls", "update", "up"}, false)},
			},
			{Name: "platform", Summary: "The platform to add, remove or update"},
		},
		Options: []command.Option{
			{Name: "nosave", Summary: "Do not record the change in package.json", Type: command.TypeBoolean},
		},
		Examples: []string{"add android", "ls"},
	}
}
