// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const requiredName = "required"

var (
	// Required rejects empty values. On an input it also makes the input mandatory.
	Required = Validator{
		Name: requiredName,
		Check: func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("must not be empty")
			}
			return nil
		},
	}

	// Numeric accepts integers and decimals.
	Numeric = tagValidator("numeric", "numeric", "must be a number")

	// Email accepts a single e-mail address.
	Email = tagValidator("email", "email", "must be a valid e-mail address")

	// URL accepts absolute URLs.
	URL = tagValidator("url", "url", "must be a valid URL")

	// Slug accepts lowercase identifiers made of letters, digits, '-' and '_'.
	Slug = Pattern("slug", `^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

	fieldValidator = sync.OnceValue(func() *validator.Validate { return validator.New() })
)

// Validator checks a single normalized value.
type Validator struct {
	// Name identifies the validator in help output.
	Name string
	// Check returns a human-readable reason when value is rejected.
	Check func(value string) error
}

// Contains accepts only one of values.
func Contains(values []string, caseSensitive bool) Validator {
	return Validator{
		Name: "contains",
		Check: func(value string) error {
			match := slices.Contains(values, value)
			if !caseSensitive {
				match = slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, value) })
			}
			if !match {
				return fmt.Errorf("must be one of: %s", strings.Join(values, ", "))
			}
			return nil
		},
	}
}

// Pattern accepts values matching expr. It panics if expr does not compile,
// so it is meant for descriptors declared in code.
func Pattern(name, expr string) Validator {
	re := regexp.MustCompile(expr)
	return Validator{
		Name: name,
		Check: func(value string) error {
			if !re.MatchString(value) {
				return fmt.Errorf("does not match required pattern '%s'", expr)
			}
			return nil
		},
	}
}

// tagValidator wraps a go-playground/validator tag.
func tagValidator(name, tag, reason string) Validator {
	return Validator{
		Name: name,
		Check: func(value string) error {
			if err := fieldValidator().Var(value, tag); err != nil {
				return errors.New(reason)
			}
			return nil
		},
	}
}
