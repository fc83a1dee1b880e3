// SPDX-License-Identifier: MPL-2.0

package command

import "fmt"

// Options maps canonical option names to normalized values. Boolean options
// hold a bool, string options hold a string.
type Options map[string]any

// Has reports whether name has a value (supplied or defaulted).
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Bool returns the boolean value of name, false when absent.
func (o Options) Bool(name string) bool {
	switch v := o[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// String returns the string value of name, "" when absent.
func (o Options) String(name string) string {
	switch v := o[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Flags renders opts back into command-line tokens for the options m
// declares, in declaration order. Values equal to the option default are
// left out: a boolean renders as --name or --no-name, a string as
// --name=value.
func Flags(m *Metadata, opts Options) []string {
	var out []string
	for i := range m.Options {
		opt := &m.Options[i]
		if !opts.Has(opt.Name) {
			continue
		}
		if opt.IsBoolean() {
			def, _ := opt.Default.(bool)
			switch v := opts.Bool(opt.Name); {
			case v && !def:
				out = append(out, "--"+opt.Name)
			case !v && def:
				out = append(out, "--no-"+opt.Name)
			}
			continue
		}
		def, _ := opt.Default.(string)
		if v := opts.String(opt.Name); v != "" && v != def {
			out = append(out, "--"+opt.Name+"="+v)
		}
	}
	return out
}
