// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"

	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

// ErrUnexpectedPlugin is returned when a factory creates an instance that
// does not implement the interface of its declared kind.
var ErrUnexpectedPlugin = errors.New("log: plugin does not implement its declared kind")

// Appender delivers events to an output destination.
type Appender interface {
	plugin.Plugin

	// Init is called once, before any other method, with the configuration,
	// the optional formatter and the filters created for the appender.
	// The pipeline evaluates the filters on behalf of the appender.
	Init(cfg AppenderConfig, formatter Formatter, filters []Filter) error

	// SupportedLevels returns the levels the appender accepts.
	SupportedLevels() LevelSet

	// Enabled reports whether the appender receives events.
	Enabled() bool

	// SetEnabled toggles whether the appender receives events.
	SetEnabled(enabled bool)

	// Priority orders appenders; higher values are written first.
	Priority() int

	// Write delivers the event. It must not log through the pipeline
	// that dispatched the event.
	Write(e Event) error

	// Flush delivers any buffered output.
	Flush() error
}

// Filter decides whether an event is eligible for logging.
type Filter interface {
	plugin.Plugin

	// Init is called once with the filter configuration.
	Init(cfg FilterConfig) error

	// Enabled reports whether the filter is consulted.
	Enabled() bool

	// SetEnabled toggles whether the filter is consulted.
	SetEnabled(enabled bool)

	// Filter reports whether the event passes.
	Filter(e Event) bool
}

// Formatter renders an event into an ordered sequence of output tokens.
type Formatter interface {
	plugin.Plugin

	// Init is called once with the formatter configuration.
	Init(cfg FormatterConfig) error

	// Format renders the event.
	Format(e Event) ([]interface{}, error)
}

// AppenderError describes a failure of an appender operation
// that was isolated from the rest of the pipeline.
type AppenderError struct {
	Appender string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *AppenderError) Error() string {
	return fmt.Sprintf("log: appender %q: %s: %v", e.Appender, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AppenderError) Unwrap() error {
	return e.Err
}

// createAppender instantiates and initializes the appender
// described by cfg together with its formatter and filters.
func createAppender(r *plugin.Registry, cfg AppenderConfig) (Appender, []Filter, error) {
	p, err := r.Create(plugin.KindAppender, cfg)
	if err != nil {
		return nil, nil, err
	}
	a, ok := p.(Appender)
	if !ok {
		return nil, nil, fmt.Errorf("appender %q: %w", cfg.Name, ErrUnexpectedPlugin)
	}

	var f Formatter
	if cfg.Formatter != nil {
		if f, err = createFormatter(r, *cfg.Formatter); err != nil {
			return nil, nil, fmt.Errorf("appender %q: %w", cfg.Name, err)
		}
	}

	filters, err := createFilters(r, cfg.Filters)
	if err != nil {
		return nil, nil, fmt.Errorf("appender %q: %w", cfg.Name, err)
	}

	if err := a.Init(cfg, f, filters); err != nil {
		return nil, nil, fmt.Errorf("init appender %q: %w", cfg.Name, err)
	}
	if cfg.Enabled != nil {
		a.SetEnabled(*cfg.Enabled)
	}
	return a, filters, nil
}

func createFormatter(r *plugin.Registry, cfg FormatterConfig) (Formatter, error) {
	p, err := r.Create(plugin.KindFormatter, cfg)
	if err != nil {
		return nil, err
	}
	f, ok := p.(Formatter)
	if !ok {
		return nil, fmt.Errorf("formatter %q: %w", cfg.Name, ErrUnexpectedPlugin)
	}
	if err := f.Init(cfg); err != nil {
		return nil, fmt.Errorf("init formatter %q: %w", cfg.Name, err)
	}
	return f, nil
}

func createFilters(r *plugin.Registry, cfgs []FilterConfig) ([]Filter, error) {
	filters := make([]Filter, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, err := r.Create(plugin.KindFilter, cfg)
		if err != nil {
			return nil, err
		}
		f, ok := p.(Filter)
		if !ok {
			return nil, fmt.Errorf("filter %q: %w", cfg.Name, ErrUnexpectedPlugin)
		}
		if err := f.Init(cfg); err != nil {
			return nil, fmt.Errorf("init filter %q: %w", cfg.Name, err)
		}
		if cfg.Enabled != nil {
			f.SetEnabled(*cfg.Enabled)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// accepts reports whether every enabled filter passes the event.
// A panicking filter rejects the event.
func accepts(filters []Filter, e Event) bool {
	for _, f := range filters {
		if f.Enabled() && !passes(f, e) {
			return false
		}
	}
	return true
}

func passes(f Filter, e Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return f.Filter(e)
}
