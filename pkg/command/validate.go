// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// FieldInput marks a violation on a positional input.
	FieldInput FieldKind = "input"
	// FieldOption marks a violation on an option.
	FieldOption FieldKind = "option"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("validation failed")

type (
	// FieldKind tells inputs and options apart in a Violation.
	FieldKind string

	// Violation is one failed constraint.
	Violation struct {
		Kind      FieldKind
		Field     string
		Value     string
		Validator string
		Reason    string
	}

	// ValidationError aggregates every violation of one invocation.
	// It wraps ErrValidation for errors.Is() compatibility.
	ValidationError struct {
		Command    string
		Violations []Violation
	}
)

// String renders the violation for terminal output.
func (v Violation) String() string {
	if v.Kind == FieldOption {
		return fmt.Sprintf("--%s: %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("invalid arguments for command '%s':\n  %s", e.Command, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate checks normalized inputs and options against m and returns every
// violation found. A missing required input yields exactly one violation;
// other validators are skipped for empty values.
func Validate(m *Metadata, inputs []string, opts Options) []Violation {
	var violations []Violation

	for i := range m.Inputs {
		in := &m.Inputs[i]
		value := ""
		if i < len(inputs) {
			value = inputs[i]
		}
		if value == "" {
			if in.IsRequired() {
				violations = append(violations, Violation{
					Kind:      FieldInput,
					Field:     in.Name,
					Validator: requiredName,
					Reason:    fmt.Sprintf("missing required input '%s'", in.Name),
				})
			}
			continue
		}
		violations = append(violations, check(FieldInput, in.Name, value, in.Validators)...)
	}

	for i := range m.Options {
		opt := &m.Options[i]
		if opt.IsBoolean() || len(opt.Validators) == 0 {
			continue
		}
		value := opts.String(opt.Name)
		if value == "" {
			// Empty options only fail their Required validator.
			if slices.ContainsFunc(opt.Validators, isRequired) {
				violations = append(violations, Violation{
					Kind:      FieldOption,
					Field:     opt.Name,
					Validator: requiredName,
					Reason:    fmt.Sprintf("required option '--%s' was not provided", opt.Name),
				})
			}
			continue
		}
		violations = append(violations, check(FieldOption, opt.Name, value, opt.Validators)...)
	}

	return violations
}

func check(kind FieldKind, field, value string, validators []Validator) []Violation {
	var out []Violation
	for _, v := range validators {
		if v.Check == nil {
			continue
		}
		if err := v.Check(value); err != nil {
			out = append(out, Violation{
				Kind:      kind,
				Field:     field,
				Value:     value,
				Validator: v.Name,
				Reason:    err.Error(),
			})
		}
	}
	return out
}
