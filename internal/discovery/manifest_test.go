// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"nimbus-cli/pkg/command"
)

const deployManifest = `
id = "deploy"
version = "1.2.0"
description = "Deploy builds to hosting"
dependencies = ["cordova"]

[[commands]]
name = "push"
summary = "Upload the last build"
script = 'echo "pushing to $1"'
aliases = ["p"]
examples = ["nimbus deploy push staging"]

[[commands.inputs]]
name = "target"
summary = "Deployment target"
required = true
choices = ["staging", "production"]

[[commands.options]]
name = "dry-run"
summary = "Print what would be uploaded"
type = "boolean"
aliases = ["n"]

[[commands.options]]
name = "channel"
summary = "Release channel"
default = "stable"
pattern = '^[a-z]+$'

[[commands]]
name = "status"
summary = "Show deployment status"
script = "echo ok"
hidden = true

[hooks]
"build:after" = "echo built"
"command:info" = "echo target=staging"
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(deployManifest), "/plugins/deploy.nimbusplugin/plugin.toml")
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	if m.ID != "deploy" || m.Version != "1.2.0" || m.Description != "Deploy builds to hosting" {
		t.Errorf("header = %q %q %q", m.ID, m.Version, m.Description)
	}
	if !slices.Equal(m.Dependencies, []string{"cordova"}) {
		t.Errorf("Dependencies = %v", m.Dependencies)
	}
	if m.Path != "/plugins/deploy.nimbusplugin/plugin.toml" {
		t.Errorf("Path = %q", m.Path)
	}
	if len(m.Commands) != 2 {
		t.Fatalf("len(Commands) = %d, want 2", len(m.Commands))
	}
	if len(m.Hooks) != 2 || m.Hooks["build:after"] != "echo built" {
		t.Errorf("Hooks = %v", m.Hooks)
	}

	push := m.Commands[0].Metadata()
	if push.Name != "push" || push.Summary != "Upload the last build" {
		t.Errorf("push metadata = %+v", push)
	}
	if len(push.Inputs) != 1 || !push.Inputs[0].IsRequired() {
		t.Errorf("push inputs = %+v, want one required input", push.Inputs)
	}
	dryRun, ok := push.Option("n")
	if !ok || !dryRun.IsBoolean() {
		t.Errorf("Option(n) = %+v, %v, want boolean dry-run", dryRun, ok)
	}
	channel, ok := push.Option("channel")
	if !ok || channel.Default != "stable" || len(channel.Validators) != 1 {
		t.Errorf("Option(channel) = %+v, %v", channel, ok)
	}

	status := m.Commands[1].Metadata()
	if status.Visible() {
		t.Error("hidden command is visible")
	}
}

func TestParseManifest_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing id", content: `version = "1.0.0"`, wantErr: "id: failed 'required' check"},
		{name: "id not a slug", content: `id = "My Plugin"`, wantErr: `id "My Plugin"`},
		{name: "bad version", content: "id = \"x\"\nversion = \"1.0\"", wantErr: "version: failed 'semver' check"},
		{name: "unknown key", content: "id = \"x\"\ncolour = \"red\"", wantErr: "unknown keys: colour"},
		{name: "syntax error", content: `id = `, wantErr: "line 1"},
		{
			name:    "unknown event",
			content: "id = \"x\"\n[hooks]\n\"deploy:after\" = \"echo\"",
			wantErr: `unknown event "deploy:after"`,
		},
		{
			name:    "empty hook script",
			content: "id = \"x\"\n[hooks]\n\"build:before\" = \"  \"",
			wantErr: "hooks.build:before: script must not be empty",
		},
		{
			name:    "command without script",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"",
			wantErr: "commands[0].script: failed 'required' check",
		},
		{
			name:    "alias shadows command",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"\nscript = \"true\"\naliases = [\"b\"]\n[[commands]]\nname = \"b\"\nscript = \"true\"",
			wantErr: `name "b" already used by command "a"`,
		},
		{
			name:    "invalid pattern",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"\nscript = \"true\"\n[[commands.inputs]]\nname = \"v\"\npattern = \"(\"",
			wantErr: "invalid pattern",
		},
		{
			name:    "unknown option type",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"\nscript = \"true\"\n[[commands.options]]\nname = \"n\"\ntype = \"int\"",
			wantErr: "commands[0].options[0].type: failed 'oneof' check",
		},
		{
			name:    "boolean default on string option",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"\nscript = \"true\"\n[[commands.options]]\nname = \"n\"\ndefault = true",
			wantErr: "boolean default on string option",
		},
		{
			name:    "integer default",
			content: "id = \"x\"\n[[commands]]\nname = \"a\"\nscript = \"true\"\n[[commands.options]]\nname = \"n\"\ndefault = 3",
			wantErr: "unsupported default of type int64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseManifest([]byte(tt.content), "plugin.toml")
			if err == nil {
				t.Fatal("ParseManifest() succeeded, want error")
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("errors.Is(err, ErrInvalidManifest) = false for %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseManifest_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("id = \"x\"\n# " + strings.Repeat("a", MaxManifestSize))
	_, err := ParseManifest(data, "plugin.toml")
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("ParseManifest() error = %v, want size error", err)
	}
}

func TestCommandSpec_MetadataValidators(t *testing.T) {
	t.Parallel()

	spec := CommandSpec{
		Name:   "push",
		Script: "true",
		Inputs: []InputSpec{{Name: "target", Required: true, Choices: []string{"staging", "production"}}},
	}
	meta := spec.Metadata()

	if v := command.Validate(&meta, []string{"Staging"}, command.Options{}); len(v) != 0 {
		t.Errorf("Validate(Staging) = %v, want choices matched case-insensitively", v)
	}
	if v := command.Validate(&meta, []string{"qa"}, command.Options{}); len(v) != 1 {
		t.Errorf("Validate(qa) = %v, want one violation", v)
	}
	if v := command.Validate(&meta, nil, command.Options{}); len(v) == 0 {
		t.Error("Validate() accepted a missing required input")
	}
}
