// SPDX-License-Identifier: MPL-2.0

package argv

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"nimbus-cli/pkg/command"
)

const negationPrefix = "no-"

// ErrInvalidArgument is the sentinel error wrapped by ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

type (
	// Parsed is the normalized form of an argument vector.
	Parsed struct {
		// Inputs are the positional tokens in order.
		Inputs []string
		// Options maps canonical option names to typed values. Options that
		// were neither supplied nor defaulted are absent.
		Options command.Options
		// Unknown holds option tokens not declared in the schema, verbatim.
		Unknown []string
		// Separated holds the tokens following "--".
		Separated []string
	}

	// ArgumentError reports a malformed option, such as a string option
	// without a value or a boolean option with a non-boolean value.
	ArgumentError struct {
		Option string
		Reason string
	}
)

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("option '--%s': %s", e.Option, e.Reason)
}

// Unwrap returns ErrInvalidArgument for errors.Is() compatibility.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// Parse normalizes args against the option schema.
//
// Boolean options given without a value become true; "--name=false",
// "--name false" and "--no-name" set them to false. Aliases fold onto the
// canonical name and the last occurrence wins. Declared defaults populate
// absent options. Undeclared option tokens are collected in Unknown and do
// not consume the following token.
func Parse(args []string, options []command.Option) (*Parsed, error) {
	fs := NewFlagSet("nimbus", options)
	index := indexOptions(options)

	parsed := &Parsed{Inputs: []string{}, Options: command.Options{}}
	normalized := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == Separator {
			parsed.Separated = append([]string(nil), args[i+1:]...)
			break
		}
		if !IsOption(tok) {
			parsed.Inputs = append(parsed.Inputs, tok)
			continue
		}

		name, value, hasValue := splitOption(tok)
		opt, negated := lookup(index, name)
		if opt == nil {
			if expanded, ok := expandShorthands(index, tok); ok {
				normalized = append(normalized, expanded...)
				continue
			}
			parsed.Unknown = append(parsed.Unknown, tok)
			continue
		}

		switch {
		case negated:
			if hasValue {
				return nil, &ArgumentError{Option: opt.Name, Reason: "negated option does not take a value"}
			}
			normalized = append(normalized, "--"+opt.Name+"=false")
		case opt.IsBoolean():
			if !hasValue && i+1 < len(args) && isBoolLiteral(args[i+1]) {
				i++
				value, hasValue = args[i], true
			}
			if hasValue {
				if _, err := strconv.ParseBool(value); err != nil {
					return nil, &ArgumentError{Option: opt.Name, Reason: fmt.Sprintf("invalid boolean value %q", value)}
				}
				normalized = append(normalized, "--"+name+"="+value)
			} else {
				normalized = append(normalized, "--"+name)
			}
		default:
			if !hasValue {
				if i+1 >= len(args) || args[i+1] == Separator {
					return nil, &ArgumentError{Option: opt.Name, Reason: "requires a value"}
				}
				i++
				value = args[i]
			}
			normalized = append(normalized, "--"+name+"="+value)
		}
	}

	// Only declared options reach the flag set, so a failure here is a
	// schema problem rather than a user error.
	if err := fs.Parse(normalized); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	for i := range options {
		opt := &options[i]
		if !fs.Changed(opt.Name) && opt.Default == nil {
			continue
		}
		if opt.IsBoolean() {
			v, err := fs.GetBool(opt.Name)
			if err != nil {
				return nil, &ArgumentError{Option: opt.Name, Reason: err.Error()}
			}
			parsed.Options[opt.Name] = v
			continue
		}
		v, err := fs.GetString(opt.Name)
		if err != nil {
			return nil, &ArgumentError{Option: opt.Name, Reason: err.Error()}
		}
		parsed.Options[opt.Name] = v
	}

	return parsed, nil
}

// NewFlagSet builds a pflag set for the schema. Aliases are folded onto the
// canonical name by the set's normalizer; the first one-character alias is
// also registered as the shorthand so usage output shows it.
func NewFlagSet(name string, options []command.Option) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(true)

	canonical := make(map[string]string)
	for i := range options {
		for _, alias := range options[i].Aliases {
			canonical[alias] = options[i].Name
		}
	}
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if c, ok := canonical[name]; ok {
			return pflag.NormalizedName(c)
		}
		return pflag.NormalizedName(name)
	})

	for i := range options {
		opt := &options[i]
		short := shorthand(opt)
		usage := opt.Summary
		if opt.IsBoolean() {
			def, _ := opt.Default.(bool)
			fs.BoolP(opt.Name, short, def, usage)
		} else {
			def, _ := opt.Default.(string)
			fs.StringP(opt.Name, short, def, usage)
		}
		if opt.HasGroup(command.GroupHidden) {
			_ = fs.MarkHidden(opt.Name)
		}
		if opt.HasGroup(command.GroupDeprecated) {
			_ = fs.MarkDeprecated(opt.Name, "it will be removed in a future release")
		}
	}
	return fs
}

func shorthand(opt *command.Option) string {
	for _, alias := range opt.Aliases {
		if len(alias) == 1 {
			return alias
		}
	}
	return ""
}

func indexOptions(options []command.Option) map[string]*command.Option {
	index := make(map[string]*command.Option)
	for i := range options {
		for _, name := range options[i].Names() {
			index[name] = &options[i]
		}
	}
	return index
}

// lookup resolves a typed option name, including the "no-" form of boolean
// options.
func lookup(index map[string]*command.Option, name string) (opt *command.Option, negated bool) {
	if opt, ok := index[name]; ok {
		return opt, false
	}
	if base, ok := strings.CutPrefix(name, negationPrefix); ok {
		if opt, ok := index[base]; ok && opt.IsBoolean() {
			return opt, true
		}
	}
	return nil, false
}

// expandShorthands turns "-abc" into "--a --b --c" when every letter is a
// boolean option.
func expandShorthands(index map[string]*command.Option, tok string) ([]string, bool) {
	if strings.HasPrefix(tok, "--") || strings.Contains(tok, "=") || len(tok) < 3 {
		return nil, false
	}
	letters := tok[1:]
	out := make([]string, 0, len(letters))
	for _, r := range letters {
		opt, ok := index[string(r)]
		if !ok || !opt.IsBoolean() {
			return nil, false
		}
		out = append(out, "--"+string(r))
	}
	return out, true
}

func splitOption(tok string) (name, value string, hasValue bool) {
	tok = strings.TrimLeft(tok, "-")
	if idx := strings.IndexByte(tok, '='); idx != -1 {
		return tok[:idx], tok[idx+1:], true
	}
	return tok, "", false
}

func isBoolLiteral(tok string) bool {
	return tok == "true" || tok == "false"
}
