// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go struct JSON tags and the embedded CUE schema in
// step, so a renamed field fails in CI instead of being silently ignored.

func cueFields(t *testing.T, def string) []string {
	t.Helper()

	val := cuecontext.New().CompileString(configSchema).LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("lookup %s: %v", def, val.Err())
	}
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("iterate %s: %v", def, err)
	}

	var names []string
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		names = append(names, strings.TrimSuffix(sel.String(), "?"))
	}
	slices.Sort(names)
	return names
}

func jsonTags(t *testing.T, typ reflect.Type) []string {
	t.Helper()

	var names []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{def: "#Config", typ: reflect.TypeFor[Config]()},
		{def: "#UIConfig", typ: reflect.TypeFor[UIConfig]()},
		{def: "#PluginsConfig", typ: reflect.TypeFor[PluginsConfig]()},
		{def: "#ShellConfig", typ: reflect.TypeFor[ShellConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			cueNames := cueFields(t, tt.def)
			goNames := jsonTags(t, tt.typ)
			if !slices.Equal(cueNames, goNames) {
				t.Errorf("%s fields %v do not match %s JSON tags %v", tt.def, cueNames, tt.typ.Name(), goNames)
			}
		})
	}
}
