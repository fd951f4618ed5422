// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"os"
	"time"

	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

// Hook that is fired when an event of the associated
// severity level is dispatched.
// Note, the call must be non-blocking.
type Hook interface {
	Fire(Level) error
}

// levelHooks is a helper type for storing and
// help triggering the hooks on a pipeline instance.
type levelHooks map[Level][]Hook

// fire triggers all the hooks for the given level.
func (lh levelHooks) fire(level Level) error {
	for _, hook := range lh[level] {
		if err := hook.Fire(level); err != nil {
			return err
		}
	}
	return nil
}

// Options specifies parameters that affect pipeline behavior.
type Options struct {
	registry       *plugin.Registry
	bufferCapacity int
	errorHandler   func(error)
	now            func() time.Time
	levelHooks     levelHooks
}

// Option represent Options parameters modifier.
type Option func(*Options)

// WithRegistry tells the pipeline to create its plugins through r
// instead of a private registry.
func WithRegistry(r *plugin.Registry) Option {
	return func(opts *Options) { opts.registry = r }
}

// WithBufferCapacity tells the pipeline how many events to keep
// while it is not initialized. Older events are dropped first.
func WithBufferCapacity(n int) Option {
	return func(opts *Options) { opts.bufferCapacity = n }
}

// WithErrorHandler tells the pipeline where to report isolated failures
// of appenders, filters and hooks. By default they are printed to stderr.
// The handler must not log through the same pipeline.
func WithErrorHandler(fn func(error)) Option {
	return func(opts *Options) { opts.errorHandler = fn }
}

// WithClock tells the pipeline how to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(opts *Options) { opts.now = now }
}

// WithLevelHooks tells the pipeline to register and execute hooks
// for the events of the levels in the given set.
func WithLevelHooks(levels LevelSet, hooks ...Hook) Option {
	return func(opts *Options) {
		if opts.levelHooks == nil {
			opts.levelHooks = make(levelHooks)
		}
		for _, l := range levels.Levels() {
			opts.levelHooks[l] = append(opts.levelHooks[l], hooks...)
		}
	}
}

func defaultErrorHandler(err error) {
	fmt.Fprintln(os.Stderr, err)
}
