// SPDX-License-Identifier: MPL-2.0

// Package hook implements the lifecycle event registry shared by the core and
// plugins.
//
// An Engine is created once per process run and passed explicitly to the code
// that registers or fires hooks. Events are typed: an Event[P, R] couples an
// event name with the payload type handlers receive and the result type they
// return. Core events are declared in this package; plugins may declare
// private events with NewEvent.
//
// Handlers run one at a time in registration order. Fire broadcasts to every
// handler and keeps going past failures; FireFirst stops at the first handler
// that returns a non-zero result.
package hook
