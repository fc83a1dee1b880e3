// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

type (
	// Event is a typed event tag.
	Event[P, R any] struct {
		name string
	}

	// Handler handles one event. It returns the handler's contribution to the
	// fire result.
	Handler[P, R any] func(ctx context.Context, payload P) (R, error)

	// None is the result type of events whose handlers return nothing.
	None = struct{}
)

// NewEvent declares an event. Plugins use it for private coordination points.
func NewEvent[P, R any](name string) Event[P, R] {
	return Event[P, R]{name: name}
}

// Name returns the event name.
func (ev Event[P, R]) Name() string { return ev.name }

// Register appends handler to the handlers of ev on behalf of pluginID.
// A plugin may register one handler per event: a second registration for the
// same plugin and event fails with ErrHookAlreadyRegistered, even when the
// handler differs. Plugins needing several steps compose them in one handler.
func Register[P, R any](e *Engine, pluginID string, ev Event[P, R], handler Handler[P, R]) error {
	if handler == nil {
		return fmt.Errorf("%w: nil handler for '%s'", ErrInvalidRegistration, ev.name)
	}
	return e.add(pluginID, ev.name, reflect.TypeFor[Handler[P, R]](), handler)
}

// Fire runs every handler of ev in registration order and returns the results
// of the handlers that succeeded, in the same order. A failing or panicking
// handler is logged and recorded, and the remaining handlers still run; the
// failures are returned as a *FireError. Cancellation of ctx is checked
// between handlers.
func Fire[P, R any](ctx context.Context, e *Engine, ev Event[P, R], payload P) ([]R, error) {
	var (
		results  []R
		failures []*HandlerError
	)
	for _, reg := range e.snapshot(ev.name) {
		if err := ctx.Err(); err != nil {
			return results, errors.Join(fireError(ev.name, failures), err)
		}
		r, err := invoke(ctx, e, reg, payload, ev)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		results = append(results, r)
	}
	return results, fireError(ev.name, failures)
}

// FireFirst runs the handlers of ev in registration order until one returns a
// non-zero result, and returns it with found set. Failures of handlers that
// ran before it are returned as a *FireError alongside the result.
func FireFirst[P, R any](ctx context.Context, e *Engine, ev Event[P, R], payload P) (result R, found bool, err error) {
	var failures []*HandlerError
	for _, reg := range e.snapshot(ev.name) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, false, errors.Join(fireError(ev.name, failures), ctxErr)
		}
		r, herr := invoke(ctx, e, reg, payload, ev)
		if herr != nil {
			failures = append(failures, herr)
			continue
		}
		if !isZero(r) {
			return r, true, fireError(ev.name, failures)
		}
	}
	return result, false, fireError(ev.name, failures)
}

func invoke[P, R any](ctx context.Context, e *Engine, reg registration, payload P, ev Event[P, R]) (result R, herr *HandlerError) {
	defer func() {
		if rec := recover(); rec != nil {
			herr = &HandlerError{PluginID: reg.PluginID, Event: ev.name, Err: fmt.Errorf("%w: %v", ErrHandlerPanicked, rec)}
			e.logger.Error("hook handler panicked", "event", ev.name, "plugin", reg.PluginID, "panic", rec)
		}
	}()

	// Register enforces one handler type per event name.
	handler := reg.handler.(Handler[P, R])
	e.logger.Debug("firing hook", "event", ev.name, "plugin", reg.PluginID)
	r, err := handler(ctx, payload)
	if err != nil {
		e.logger.Error("hook handler failed", "event", ev.name, "plugin", reg.PluginID, "err", err)
		return result, &HandlerError{PluginID: reg.PluginID, Event: ev.name, Err: err}
	}
	return r, nil
}

func fireError(event string, failures []*HandlerError) error {
	if len(failures) == 0 {
		return nil
	}
	return &FireError{Event: event, Failures: failures}
}

func isZero[R any](r R) bool {
	v := reflect.ValueOf(&r).Elem()
	return v.IsZero()
}
