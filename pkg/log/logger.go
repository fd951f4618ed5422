// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"go.uber.org/atomic"
)

// Logger is a named handle through which application code emits events.
// Loggers are obtained from a Pipeline and are unique per name until the
// next Init; they are safe for concurrent use. Init gives handles obtained
// earlier the newly configured level, but further changes through
// SetLevel apply only to the handle they are made on. Logging methods never fail: delivery problems
// are reported through the pipeline error handler.
type Logger struct {
	// name is the dot-separated position of the logger in the hierarchy.
	name string

	// pipeline receives every emitted event.
	pipeline *Pipeline

	// level represents the current threshold of the logger.
	level atomic.Int32

	// mask caches the set of levels enabled by level, so the
	// emission check is a single load and bit test.
	mask atomic.Uint32

	// context holds the current Context snapshot.
	context atomic.Value
}

func newLogger(p *Pipeline, name string, level Level) *Logger {
	l := &Logger{name: name, pipeline: p}
	l.context.Store(Context(nil))
	l.SetLevel(level)
	return l
}

// Name returns the full name of the logger.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the current threshold of the logger.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the threshold of the logger. Invalid levels are ignored.
func (l *Logger) SetLevel(level Level) {
	if !level.Valid() {
		return
	}
	var mask LevelSet
	for _, e := range Levels() {
		if level.Enables(e) {
			mask = mask.With(e)
		}
	}
	l.level.Store(int32(level))
	l.mask.Store(uint32(mask))
}

// Enabled reports whether the logger emits at all, that is
// whether its level is not LevelOff.
func (l *Logger) Enabled() bool { return l.mask.Load() != 0 }

// IsEnabled reports whether an event of the given level would be emitted.
func (l *Logger) IsEnabled(level Level) bool {
	return LevelSet(l.mask.Load()).Has(level)
}

// IsFatal reports whether fatal events are emitted.
func (l *Logger) IsFatal() bool { return l.IsEnabled(LevelFatal) }

// IsError reports whether error events are emitted.
func (l *Logger) IsError() bool { return l.IsEnabled(LevelError) }

// IsWarn reports whether warn events are emitted.
func (l *Logger) IsWarn() bool { return l.IsEnabled(LevelWarn) }

// IsInfo reports whether info events are emitted.
func (l *Logger) IsInfo() bool { return l.IsEnabled(LevelInfo) }

// IsDebug reports whether debug events are emitted.
func (l *Logger) IsDebug() bool { return l.IsEnabled(LevelDebug) }

// IsTrack reports whether track events are emitted.
func (l *Logger) IsTrack() bool { return l.IsEnabled(LevelTrack) }

// IsTrace reports whether trace events are emitted.
func (l *Logger) IsTrace() bool { return l.IsEnabled(LevelTrace) }

// Context returns the current context snapshot. It must not be modified.
func (l *Logger) Context() Context {
	return l.context.Load().(Context)
}

// SetContext replaces the context attached to subsequent events.
// The given map is copied.
func (l *Logger) SetContext(ctx Context) {
	l.context.Store(ctx.Clone())
}

// Child returns the logger named by appending name to the name
// of l, separated by a dot.
func (l *Logger) Child(name string) *Logger {
	if l.name == "" {
		return l.pipeline.Logger(name)
	}
	return l.pipeline.Logger(l.name + "." + name)
}

// Fatal logs a fatal message with optional auxiliary data.
// Unlike some logging libraries, it does not terminate the process.
func (l *Logger) Fatal(msg string, data ...interface{}) { l.log(LevelFatal, msg, data) }

// Error logs an error message with optional auxiliary data.
func (l *Logger) Error(msg string, data ...interface{}) { l.log(LevelError, msg, data) }

// Warn logs a warning message with optional auxiliary data.
func (l *Logger) Warn(msg string, data ...interface{}) { l.log(LevelWarn, msg, data) }

// Info logs an informational message with optional auxiliary data.
func (l *Logger) Info(msg string, data ...interface{}) { l.log(LevelInfo, msg, data) }

// Debug logs a debug message with optional auxiliary data.
func (l *Logger) Debug(msg string, data ...interface{}) { l.log(LevelDebug, msg, data) }

// Track logs an analytics-class message with optional auxiliary data.
func (l *Logger) Track(msg string, data ...interface{}) { l.log(LevelTrack, msg, data) }

// Trace logs a trace message with optional auxiliary data.
func (l *Logger) Trace(msg string, data ...interface{}) { l.log(LevelTrace, msg, data) }

// Log logs a message at the given level with optional auxiliary data.
func (l *Logger) Log(level Level, msg string, data ...interface{}) { l.log(level, msg, data) }

// log checks the threshold before anything is built. The data is copied
// so the caller may reuse its slice.
func (l *Logger) log(level Level, msg string, data []interface{}) {
	if !LevelSet(l.mask.Load()).Has(level) {
		return
	}
	if len(data) > 0 {
		data = append([]interface{}(nil), data...)
	}
	p := l.pipeline
	p.dispatch(NewEvent(l.name, level, msg, data, l.Context(), p.opts.now()))
}
