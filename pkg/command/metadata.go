// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"slices"

	"nimbus-cli/pkg/types"
)

const (
	// TypeString is the default option type.
	TypeString Type = "string"
	// TypeBoolean options are switches: present means true.
	TypeBoolean Type = "boolean"

	// GroupHidden keeps a command or option out of help output.
	GroupHidden Group = "hidden"
	// GroupAdvanced marks options shown only in detailed help.
	GroupAdvanced Group = "advanced"
	// GroupExperimental marks unstable commands and options.
	GroupExperimental Group = "experimental"
	// GroupDeprecated marks commands and options scheduled for removal.
	GroupDeprecated Group = "deprecated"
	// GroupPaid marks features that need a paid account.
	GroupPaid Group = "paid"
)

var (
	// ErrInvalidType is returned when an option Type is not recognized.
	ErrInvalidType = errors.New("invalid option type")
	// ErrInvalidMetadata is the sentinel error wrapped by InvalidMetadataError.
	ErrInvalidMetadata = errors.New("invalid command metadata")
)

type (
	// Type is the value type of an option.
	Type string

	// Group is a visibility/grouping tag for commands and options.
	Group string

	// Input is a positional argument of a command.
	Input struct {
		// Name identifies the input in help and violations.
		Name string
		// Summary is the help text.
		Summary string
		// Validators run against the supplied value. Include Required to make
		// the input mandatory.
		Validators []Validator
		// Private inputs are accepted but not documented.
		Private bool
	}

	// Option is a named flag of a command.
	Option struct {
		// Name is the canonical long name, without dashes.
		Name string
		// Summary is the help text.
		Summary string
		// Type defaults to TypeString when empty.
		Type Type
		// Default is a string for string options and a bool for boolean options.
		Default any
		// Aliases are alternate names. Single-character aliases are usable as -x.
		Aliases []string
		// Groups tags the option (hidden, advanced, ...).
		Groups []Group
		// Validators run against the normalized value of string options.
		Validators []Validator
		// Hint is a short value placeholder shown in help, e.g. "port".
		Hint string
	}

	// Metadata describes a command.
	Metadata struct {
		Name        string
		Summary     string
		Description string
		Inputs      []Input
		Options     []Option
		Groups      []Group
		Examples    []string
	}

	// InvalidTypeError is returned when an option Type is not recognized.
	InvalidTypeError struct {
		Option string
		Value  Type
	}

	// InvalidMetadataError collects structural problems of a descriptor.
	// It wraps ErrInvalidMetadata for errors.Is() compatibility.
	InvalidMetadataError struct {
		Command     string
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("option %q: invalid type %q (valid: string, boolean)", e.Option, e.Value)
}

// Unwrap returns ErrInvalidType for errors.Is() compatibility.
func (e *InvalidTypeError) Unwrap() error { return ErrInvalidType }

// Error implements the error interface.
func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("command %q: %d metadata error(s): %v", e.Command, len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidMetadata for errors.Is() compatibility.
func (e *InvalidMetadataError) Unwrap() error { return ErrInvalidMetadata }

// EffectiveType returns the option type, defaulting to TypeString.
func (o *Option) EffectiveType() Type {
	if o.Type == "" {
		return TypeString
	}
	return o.Type
}

// IsBoolean reports whether the option is a switch.
func (o *Option) IsBoolean() bool { return o.EffectiveType() == TypeBoolean }

// HasGroup reports whether the option carries g.
func (o *Option) HasGroup(g Group) bool { return slices.Contains(o.Groups, g) }

// Names returns the canonical name followed by all aliases.
func (o *Option) Names() []string {
	return append([]string{o.Name}, o.Aliases...)
}

// IsRequired reports whether the input carries the Required validator.
func (in *Input) IsRequired() bool {
	return slices.ContainsFunc(in.Validators, isRequired)
}

func isRequired(v Validator) bool { return v.Name == requiredName }

// HasGroup reports whether the command carries g.
func (m *Metadata) HasGroup(g Group) bool { return slices.Contains(m.Groups, g) }

// Visible reports whether the command should be listed in help output.
func (m *Metadata) Visible() bool { return !m.HasGroup(GroupHidden) }

// Option returns the option declared under name or one of its aliases.
func (m *Metadata) Option(name string) (*Option, bool) {
	for i := range m.Options {
		if slices.Contains(m.Options[i].Names(), name) {
			return &m.Options[i], true
		}
	}
	return nil, false
}

// RequiredInputs returns the number of required inputs.
func (m *Metadata) RequiredInputs() int {
	n := 0
	for i := range m.Inputs {
		if m.Inputs[i].IsRequired() {
			n++
		}
	}
	return n
}

// Check validates the structure of the descriptor itself: names are set and
// unique, option types are known, defaults match their option type, and no
// required input follows an optional one.
func (m *Metadata) Check() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if valid, summaryErrs := types.DescriptionText(m.Summary).IsValid(); !valid {
		errs = append(errs, summaryErrs...)
	}

	seenInputs := make(map[string]bool, len(m.Inputs))
	sawOptional := false
	for i, in := range m.Inputs {
		if in.Name == "" {
			errs = append(errs, fmt.Errorf("inputs[%d]: name must not be empty", i))
		}
		if valid, summaryErrs := types.DescriptionText(in.Summary).IsValid(); !valid {
			errs = append(errs, fmt.Errorf("inputs[%d]: %w", i, errors.Join(summaryErrs...)))
		}
		if seenInputs[in.Name] {
			errs = append(errs, fmt.Errorf("inputs[%d]: duplicate input %q", i, in.Name))
		}
		seenInputs[in.Name] = true
		if in.IsRequired() && sawOptional {
			errs = append(errs, fmt.Errorf("inputs[%d]: required input %q follows an optional input", i, in.Name))
		}
		if !in.IsRequired() {
			sawOptional = true
		}
	}

	seenOptions := make(map[string]string)
	for i := range m.Options {
		opt := &m.Options[i]
		if opt.Name == "" {
			errs = append(errs, fmt.Errorf("options[%d]: name must not be empty", i))
			continue
		}
		if valid, summaryErrs := types.DescriptionText(opt.Summary).IsValid(); !valid {
			errs = append(errs, fmt.Errorf("options[%d]: %w", i, errors.Join(summaryErrs...)))
		}
		switch opt.Type {
		case TypeString, TypeBoolean, "":
		default:
			errs = append(errs, &InvalidTypeError{Option: opt.Name, Value: opt.Type})
		}
		for _, name := range opt.Names() {
			if owner, exists := seenOptions[name]; exists {
				errs = append(errs, fmt.Errorf("options[%d]: name %q already used by option %q", i, name, owner))
				continue
			}
			seenOptions[name] = opt.Name
		}
		if opt.Default == nil {
			continue
		}
		switch opt.Default.(type) {
		case bool:
			if !opt.IsBoolean() {
				errs = append(errs, fmt.Errorf("option %q: boolean default on %s option", opt.Name, opt.EffectiveType()))
			}
		case string:
			if opt.IsBoolean() {
				errs = append(errs, fmt.Errorf("option %q: string default on boolean option", opt.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("option %q: unsupported default of type %T", opt.Name, opt.Default))
		}
	}

	if len(errs) > 0 {
		return &InvalidMetadataError{Command: m.Name, FieldErrors: errs}
	}
	return nil
}
