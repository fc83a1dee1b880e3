// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"nimbus-cli/pkg/command"
	"nimbus-cli/pkg/cueutil"
)

const (
	// ManifestName is the manifest file inside a plugin directory.
	ManifestName = "plugin.toml"
	// DirSuffix marks a directory as a script plugin.
	DirSuffix = ".nimbusplugin"
	// MaxManifestSize bounds the manifest file size.
	MaxManifestSize = 1 << 20
)

var (
	// ErrInvalidManifest is the sentinel error wrapped by ManifestError.
	ErrInvalidManifest = errors.New("invalid plugin manifest")
	// ErrManifestNotFound is returned when a plugin directory has no manifest.
	ErrManifestNotFound = errors.New("plugin manifest not found")

	manifestValidator = sync.OnceValue(func() *validator.Validate {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		return v
	})
)

type (
	// Manifest is the content of a plugin.toml file.
	Manifest struct {
		ID           string        `toml:"id" validate:"required"`
		Version      string        `toml:"version" validate:"omitempty,semver"`
		Description  string        `toml:"description"`
		Dependencies []string      `toml:"dependencies"`
		Commands     []CommandSpec `toml:"commands" validate:"dive"`
		// Hooks maps event names to script source.
		Hooks map[string]string `toml:"hooks"`

		// Dir is the plugin directory.
		Dir string `toml:"-"`
		// Path is the manifest file.
		Path string `toml:"-"`
	}

	// CommandSpec declares a script command.
	CommandSpec struct {
		Name        string       `toml:"name" validate:"required"`
		Summary     string       `toml:"summary"`
		Description string       `toml:"description"`
		Script      string       `toml:"script" validate:"required"`
		Aliases     []string     `toml:"aliases"`
		Hidden      bool         `toml:"hidden"`
		Examples    []string     `toml:"examples"`
		Inputs      []InputSpec  `toml:"inputs" validate:"dive"`
		Options     []OptionSpec `toml:"options" validate:"dive"`
	}

	// InputSpec declares a positional input of a script command.
	InputSpec struct {
		Name     string   `toml:"name" validate:"required"`
		Summary  string   `toml:"summary"`
		Required bool     `toml:"required"`
		Choices  []string `toml:"choices"`
		Pattern  string   `toml:"pattern"`
	}

	// OptionSpec declares an option of a script command.
	OptionSpec struct {
		Name    string   `toml:"name" validate:"required"`
		Summary string   `toml:"summary"`
		Type    string   `toml:"type" validate:"omitempty,oneof=string boolean"`
		Default any      `toml:"default"`
		Aliases []string `toml:"aliases"`
		Choices []string `toml:"choices"`
		Pattern string   `toml:"pattern"`
		Hint    string   `toml:"hint"`
	}

	// ManifestError collects the problems of one manifest.
	// It wraps ErrInvalidManifest for errors.Is() compatibility.
	ManifestError struct {
		Path        string
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %d manifest error(s): %v", e.Path, len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *ManifestError) Unwrap() error { return ErrInvalidManifest }

// LoadManifest reads, parses and validates the manifest of the plugin
// directory dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read plugin manifest: %w", err)
	}
	m, err := ParseManifest(data, path)
	if err != nil {
		return nil, err
	}
	m.Dir = dir
	return m, nil
}

// ParseManifest decodes and validates manifest data. Unknown keys are
// rejected.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	if err := cueutil.CheckFileSize(data, MaxManifestSize, path); err != nil {
		return nil, err
	}

	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, &ManifestError{Path: path, FieldErrors: []error{decodeError(err)}}
	}
	m.Path = path
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// decodeError shortens go-toml errors to a position and a message.
func decodeError(err error) error {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Errorf("line %d, column %d: %s", row, col, decErr.Error())
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		keys := make([]string, 0, len(strictErr.Errors))
		for i := range strictErr.Errors {
			keys = append(keys, strings.Join(strictErr.Errors[i].Key(), "."))
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return err
}

// Validate checks the manifest: required fields are set, the ID is a slug,
// hook events exist, command names and aliases are unique, and every
// command converts to valid metadata.
func (m *Manifest) Validate() error {
	var errs []error
	if err := manifestValidator().Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			_, field, _ := strings.Cut(fe.Namespace(), ".")
			errs = append(errs, fmt.Errorf("%s: failed '%s' check", field, fe.Tag()))
		}
	}

	if m.ID != "" {
		if err := command.Slug.Check(m.ID); err != nil {
			errs = append(errs, fmt.Errorf("id %q: %w", m.ID, err))
		}
	}

	for _, event := range slices.Sorted(maps.Keys(m.Hooks)) {
		if _, ok := hookBinders[event]; !ok {
			errs = append(errs, fmt.Errorf("hooks: unknown event %q", event))
		}
		if strings.TrimSpace(m.Hooks[event]) == "" {
			errs = append(errs, fmt.Errorf("hooks.%s: script must not be empty", event))
		}
	}

	names := make(map[string]string)
	for i := range m.Commands {
		c := &m.Commands[i]
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			if name == "" {
				continue
			}
			if owner, exists := names[name]; exists {
				errs = append(errs, fmt.Errorf("commands[%d]: name %q already used by command %q", i, name, owner))
				continue
			}
			names[name] = c.Name
		}
		if patternErrs := c.checkPatterns(); len(patternErrs) > 0 {
			errs = append(errs, patternErrs...)
			continue
		}
		if c.Name == "" {
			continue
		}
		meta := c.Metadata()
		if err := meta.Check(); err != nil {
			errs = append(errs, fmt.Errorf("commands[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return &ManifestError{Path: m.Path, FieldErrors: errs}
	}
	return nil
}

func (c *CommandSpec) checkPatterns() []error {
	var errs []error
	for _, in := range c.Inputs {
		if _, err := regexp.Compile(in.Pattern); in.Pattern != "" && err != nil {
			errs = append(errs, fmt.Errorf("command %q input %q: invalid pattern: %w", c.Name, in.Name, err))
		}
	}
	for _, opt := range c.Options {
		if _, err := regexp.Compile(opt.Pattern); opt.Pattern != "" && err != nil {
			errs = append(errs, fmt.Errorf("command %q option %q: invalid pattern: %w", c.Name, opt.Name, err))
		}
	}
	return errs
}

// Metadata converts the spec into a command descriptor. Patterns must have
// been checked by Validate.
func (c *CommandSpec) Metadata() command.Metadata {
	meta := command.Metadata{
		Name:        c.Name,
		Summary:     c.Summary,
		Description: c.Description,
		Examples:    slices.Clone(c.Examples),
	}
	if c.Hidden {
		meta.Groups = []command.Group{command.GroupHidden}
	}
	for _, in := range c.Inputs {
		var validators []command.Validator
		if in.Required {
			validators = append(validators, command.Required)
		}
		validators = append(validators, valueValidators(in.Choices, in.Pattern)...)
		meta.Inputs = append(meta.Inputs, command.Input{Name: in.Name, Summary: in.Summary, Validators: validators})
	}
	for _, opt := range c.Options {
		meta.Options = append(meta.Options, command.Option{
			Name:       opt.Name,
			Summary:    opt.Summary,
			Type:       command.Type(opt.Type),
			Default:    opt.Default,
			Aliases:    slices.Clone(opt.Aliases),
			Validators: valueValidators(opt.Choices, opt.Pattern),
			Hint:       opt.Hint,
		})
	}
	return meta
}

func valueValidators(choices []string, pattern string) []command.Validator {
	var validators []command.Validator
	if len(choices) > 0 {
		validators = append(validators, command.Contains(choices, false))
	}
	if pattern != "" {
		validators = append(validators, command.Pattern("pattern", pattern))
	}
	return validators
}
