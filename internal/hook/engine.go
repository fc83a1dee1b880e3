// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	// ErrHookAlreadyRegistered is returned when a plugin registers a second
	// handler for the same event.
	ErrHookAlreadyRegistered = errors.New("hook already registered")
	// ErrEventTypeMismatch is returned when an event name is registered with
	// payload or result types that differ from earlier registrations.
	ErrEventTypeMismatch = errors.New("event type mismatch")
	// ErrInvalidRegistration is returned for empty plugin IDs, empty event
	// names and nil handlers.
	ErrInvalidRegistration = errors.New("invalid hook registration")
	// ErrHandlerPanicked marks a handler failure caused by a panic.
	ErrHandlerPanicked = errors.New("hook handler panicked")
)

type (
	// Engine is the registry of hook handlers.
	Engine struct {
		logger *log.Logger

		mu       sync.RWMutex
		handlers map[string][]registration
		types    map[string]reflect.Type
		order    []string
	}

	// Registration identifies one registered handler.
	Registration struct {
		PluginID string
		Event    string
	}

	registration struct {
		Registration
		handler any
	}

	// HandlerError attributes a handler failure to its plugin.
	HandlerError struct {
		PluginID string
		Event    string
		Err      error
	}

	// FireError collects the handler failures of one fire.
	FireError struct {
		Event    string
		Failures []*HandlerError
	}
)

// NewEngine creates an empty engine. Handler failures are logged to logger.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		logger:   logger,
		handlers: make(map[string][]registration),
		types:    make(map[string]reflect.Type),
	}
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("plugin '%s' failed handling '%s': %v", e.PluginID, e.Event, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *FireError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d handler(s) failed for '%s': %s", len(e.Failures), e.Event, strings.Join(msgs, "; "))
}

// Unwrap returns every handler failure for errors.Is/As traversal.
func (e *FireError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Plugins returns the IDs of the plugins whose handlers failed, in order.
func (e *FireError) Plugins() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.PluginID
	}
	return ids
}

// Names returns every event name with at least one handler, in the order the
// first handler for each was registered.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.order)
}

// Registrations returns the handlers registered for event, in firing order.
func (e *Engine) Registrations(event string) []Registration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	regs := e.handlers[event]
	out := make([]Registration, len(regs))
	for i, r := range regs {
		out[i] = r.Registration
	}
	return out
}

// EventsOf returns the events pluginID handles, in the order returned by Names.
func (e *Engine) EventsOf(pluginID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []string
	for _, event := range e.order {
		for _, r := range e.handlers[event] {
			if r.PluginID == pluginID {
				out = append(out, event)
				break
			}
		}
	}
	return out
}

func (e *Engine) add(pluginID, event string, typ reflect.Type, handler any) error {
	if pluginID == "" || event == "" {
		return fmt.Errorf("%w: plugin ID and event name must not be empty", ErrInvalidRegistration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if known, ok := e.types[event]; ok && known != typ {
		return fmt.Errorf("%w: '%s' is declared as %s, plugin '%s' registered %s", ErrEventTypeMismatch, event, known, pluginID, typ)
	}
	for _, r := range e.handlers[event] {
		if r.PluginID == pluginID {
			return fmt.Errorf("%w: plugin '%s' already handles '%s'", ErrHookAlreadyRegistered, pluginID, event)
		}
	}

	if _, ok := e.handlers[event]; !ok {
		e.order = append(e.order, event)
		e.types[event] = typ
	}
	e.handlers[event] = append(e.handlers[event], registration{
		Registration: Registration{PluginID: pluginID, Event: event},
		handler:      handler,
	})
	return nil
}

// snapshot copies the handler list so firing never holds the lock while
// handlers run.
func (e *Engine) snapshot(event string) []registration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.handlers[event])
}
