// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import "time"

// Context is the key/value bag a logger attaches to every event.
// A Context held by a logger or an event must not be modified.
type Context map[string]interface{}

// Clone returns a shallow copy of c, or nil if c is empty.
func (c Context) Clone() Context {
	if len(c) == 0 {
		return nil
	}
	n := make(Context, len(c))
	for k, v := range c {
		n[k] = v
	}
	return n
}

// Names of the event fields as seen by path resolution and templates.
const (
	FieldLogger    = "logger"
	FieldLevel     = "level"
	FieldMessage   = "message"
	FieldData      = "data"
	FieldContext   = "context"
	FieldTimestamp = "timestamp"
)

// Event is a single emitted log message with its metadata.
// Event is an immutable value; its accessors must not be used to
// modify the underlying data.
type Event struct {
	logger  string
	level   Level
	message string
	data    []interface{}
	context Context
	time    time.Time
}

// NewEvent returns an event. The data slice is owned by the event from
// now on and the context must be a snapshot that is no longer modified.
func NewEvent(logger string, level Level, message string, data []interface{}, ctx Context, ts time.Time) Event {
	return Event{
		logger:  logger,
		level:   level,
		message: message,
		data:    data,
		context: ctx,
		time:    ts,
	}
}

// Logger returns the name of the logger that emitted the event.
func (e Event) Logger() string { return e.logger }

// Level returns the severity of the event.
func (e Event) Level() Level { return e.level }

// Message returns the event message.
func (e Event) Message() string { return e.message }

// Data returns the auxiliary values passed along with the message.
func (e Event) Data() []interface{} { return e.data }

// Context returns the snapshot of the logger context at emission time.
func (e Event) Context() Context { return e.context }

// Time returns the emission timestamp.
func (e Event) Time() time.Time { return e.time }

// Fields returns the structured view of the event used
// by path resolution in filters and formatters.
func (e Event) Fields() map[string]interface{} {
	data := e.data
	if data == nil {
		data = []interface{}{}
	}
	ctx := map[string]interface{}(e.context)
	if ctx == nil {
		ctx = map[string]interface{}{}
	}
	return map[string]interface{}{
		FieldLogger:    e.logger,
		FieldLevel:     e.level.String(),
		FieldMessage:   e.message,
		FieldData:      data,
		FieldContext:   ctx,
		FieldTimestamp: e.time,
	}
}
