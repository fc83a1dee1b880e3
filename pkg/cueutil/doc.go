// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes user-supplied CUE files against embedded schemas.
//
// Every CUE file nimbus reads (the user configuration, nimbus.cue project
// files) follows the same flow: compile the embedded schema, compile the user
// data, unify it with the schema's root definition, validate, and decode into
// a Go value. Errors carry the file name and a JSON-style path to the
// offending field.
//
//	//go:embed project_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Project](schema, data, "#Project",
//	    cueutil.WithFilename("nimbus.cue"))
package cueutil
