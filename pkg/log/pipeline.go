// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

// binding is an initialized appender together with its own filters.
type binding struct {
	name     string
	appender Appender
	filters  []Filter
}

// Pipeline owns the loggers, the plugin registry and the configured
// appenders, and routes every emitted event to them. Events emitted
// before Init are kept in a bounded buffer and delivered afterwards.
//
// A Pipeline is safe for concurrent use. Events are dispatched one at
// a time, so appenders observe them in a single total order.
type Pipeline struct {
	opts    Options
	metrics *metrics

	mu           sync.Mutex
	defaultLevel Level
	loggers      map[string]*Logger
	appenders    []binding
	filters      []Filter
	buffer       *ring
	initialized  bool
}

// New returns a new, uninitialized pipeline.
func New(opts ...Option) *Pipeline {
	o := Options{bufferCapacity: DefaultBufferCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = plugin.NewRegistry()
	}
	if o.errorHandler == nil {
		o.errorHandler = defaultErrorHandler
	}
	if o.now == nil {
		o.now = time.Now
	}

	p := &Pipeline{
		opts:         o,
		metrics:      newLogMetrics(),
		defaultLevel: LevelInfo,
		loggers:      make(map[string]*Logger),
		buffer:       newRing(o.bufferCapacity),
	}
	return p
}

// Registry returns the plugin registry of the pipeline.
func (p *Pipeline) Registry() *plugin.Registry {
	return p.opts.registry
}

// Register adds a plugin factory to the registry of the pipeline.
func (p *Pipeline) Register(f plugin.Factory) error {
	return p.opts.registry.Register(f)
}

// Logger returns the logger with the given name, creating it with the
// default level on first use. The same instance is returned for the same
// name until the next Init or Dispose.
func (p *Pipeline) Logger(name string) *Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger(name)
}

func (p *Pipeline) logger(name string) *Logger {
	if l, ok := p.loggers[name]; ok {
		return l
	}
	l := newLogger(p, name, p.defaultLevel)
	p.loggers[name] = l
	return l
}

// DefaultLevel returns the level given to newly created loggers.
func (p *Pipeline) DefaultLevel() Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultLevel
}

// Initialized reports whether the pipeline delivers events to appenders.
func (p *Pipeline) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Init configures the pipeline. Previously created appenders are flushed
// and disposed, and the logger cache is cleared. Loggers obtained before
// are given their newly configured level. Any buffered events are
// delivered to the new appenders before Init returns.
//
// On error no appender is active and the pipeline stays uninitialized,
// so later events keep being buffered.
func (p *Pipeline) Init(cfg Config) error {
	p.mu.Lock()
	stale := p.loggers
	errs := p.reset()

	level := LevelInfo
	if cfg.Level != "" {
		if l, err := ParseLevel(cfg.Level); err == nil {
			level = l
		} else {
			errs = append(errs, fmt.Errorf("log: default level: %w", err))
		}
	}
	p.defaultLevel = level

	overrides := make(map[string]Level, len(cfg.Loggers))
	for name, s := range cfg.Loggers {
		l, err := ParseLevel(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("log: logger %q: %w", name, err))
			continue
		}
		overrides[name] = l
		p.logger(name).SetLevel(l)
	}

	// Handles obtained before Init follow the new configuration.
	for name, l := range stale {
		if o, ok := overrides[name]; ok {
			l.SetLevel(o)
			continue
		}
		l.SetLevel(level)
	}

	if err := p.build(cfg); err != nil {
		errs = append(errs, p.abort()...)
		p.mu.Unlock()
		p.report(errs...)
		return fmt.Errorf("log: init: %w", err)
	}
	p.initialized = true

	for _, e := range p.buffer.drain() {
		errs = append(errs, p.route(e)...)
	}
	p.mu.Unlock()

	p.report(errs...)
	return nil
}

// build creates the global filters and the appenders described by cfg.
func (p *Pipeline) build(cfg Config) error {
	r := p.opts.registry

	filters, err := createFilters(r, cfg.Filters)
	if err != nil {
		return err
	}

	cfgs := cfg.Appenders
	if cfgs == nil {
		cfgs = []AppenderConfig{{Name: DefaultAppender}}
	}

	bindings := make([]binding, 0, len(cfgs))
	for _, c := range cfgs {
		a, fs, err := createAppender(r, c)
		if err != nil {
			return err
		}
		bindings = append(bindings, binding{name: c.Name, appender: a, filters: fs})
	}
	sort.SliceStable(bindings, func(i, j int) bool {
		return bindings[i].appender.Priority() > bindings[j].appender.Priority()
	})

	p.filters = filters
	p.appenders = bindings
	p.metrics.ActiveAppenders.Set(float64(len(bindings)))
	return nil
}

// abort disposes everything a failed build has created.
func (p *Pipeline) abort() []error {
	p.appenders = nil
	p.filters = nil
	p.metrics.ActiveAppenders.Set(0)
	p.initialized = false
	if err := p.opts.registry.DisposeAll(); err != nil {
		return []error{err}
	}
	return nil
}

// reset flushes and disposes the active appenders and brings the pipeline
// back to its uninitialized state. Buffered events are kept.
func (p *Pipeline) reset() []error {
	var errs []error
	for _, b := range p.appenders {
		if err := flush(b); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.opts.registry.DisposeAll(); err != nil {
		errs = append(errs, err)
	}
	p.appenders = nil
	p.filters = nil
	p.metrics.ActiveAppenders.Set(0)
	p.loggers = make(map[string]*Logger)
	p.defaultLevel = LevelInfo
	p.initialized = false
	return errs
}

// Dispose flushes and disposes all appenders, filters and formatters,
// unregisters all factories and clears the logger cache. Events emitted
// afterwards are buffered until the next Init. Dispose is idempotent.
func (p *Pipeline) Dispose() error {
	p.mu.Lock()
	errs := p.reset()
	p.opts.registry.ClearFactories()
	p.mu.Unlock()

	p.report(errs...)

	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// dispatch buffers or routes the event. It never panics.
func (p *Pipeline) dispatch(e Event) {
	var errs []error
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Errorf("log: dispatch: %v", r))
		}
		p.report(errs...)
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		if p.buffer.push(e) {
			p.metrics.DroppedCount.Inc()
		}
		return
	}
	for _, b := range p.buffer.drain() {
		errs = append(errs, p.route(b)...)
	}
	errs = append(errs, p.route(e)...)
}

// route delivers the event to every eligible appender in priority order.
// Failures of one appender do not affect the others.
func (p *Pipeline) route(e Event) (errs []error) {
	if err := p.metrics.Fire(e.Level()); err != nil {
		errs = append(errs, err)
	}
	if err := p.opts.levelHooks.fire(e.Level()); err != nil {
		errs = append(errs, fmt.Errorf("log: hook: %w", err))
	}

	if !accepts(p.filters, e) {
		p.metrics.FilteredCount.Inc()
		return errs
	}

	for _, b := range p.appenders {
		a := b.appender
		if !a.Enabled() || !a.SupportedLevels().Has(e.Level()) {
			continue
		}
		if !accepts(b.filters, e) {
			p.metrics.FilteredCount.Inc()
			continue
		}
		if err := write(b, e); err != nil {
			p.metrics.AppenderErrorCount.WithLabelValues(b.name, "write").Inc()
			errs = append(errs, err)
		}
	}
	return errs
}

func write(b binding, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AppenderError{Appender: b.name, Op: "write", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := b.appender.Write(e); err != nil {
		return &AppenderError{Appender: b.name, Op: "write", Err: err}
	}
	return nil
}

func flush(b binding) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AppenderError{Appender: b.name, Op: "flush", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := b.appender.Flush(); err != nil {
		return &AppenderError{Appender: b.name, Op: "flush", Err: err}
	}
	return nil
}

func (p *Pipeline) report(errs ...error) {
	for _, err := range errs {
		if err != nil {
			p.opts.errorHandler(err)
		}
	}
}

// Appenders returns the names of the active appenders in delivery order.
func (p *Pipeline) Appenders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.appenders))
	for i, b := range p.appenders {
		names[i] = b.name
	}
	return names
}

// EnableAppender enables every appender with the given name.
// Unknown names are ignored.
func (p *Pipeline) EnableAppender(name string) { p.setAppender(name, true) }

// DisableAppender disables every appender with the given name.
// Unknown names are ignored.
func (p *Pipeline) DisableAppender(name string) { p.setAppender(name, false) }

func (p *Pipeline) setAppender(name string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.appenders {
		if b.name == name {
			b.appender.SetEnabled(enabled)
		}
	}
}

// EnableFilter enables the filters with the given name. With an empty
// appender name the global filters are affected, otherwise the filters
// of the named appender.
func (p *Pipeline) EnableFilter(name, appender string) { p.setFilter(name, appender, true) }

// DisableFilter disables the filters with the given name. The appender
// argument has the same meaning as for EnableFilter.
func (p *Pipeline) DisableFilter(name, appender string) { p.setFilter(name, appender, false) }

func (p *Pipeline) setFilter(name, appender string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set := func(filters []Filter) {
		for _, f := range filters {
			if f.Descriptor().Name == name {
				f.SetEnabled(enabled)
			}
		}
	}
	if appender == "" {
		set(p.filters)
		return
	}
	for _, b := range p.appenders {
		if b.name == appender {
			set(b.filters)
		}
	}
}

// FlushAppender flushes every appender with the given name.
// Failures are reported and returned.
func (p *Pipeline) FlushAppender(name string) error {
	return p.flush(func(b binding) bool { return b.name == name })
}

// FlushAppenders flushes all appenders. Failures are reported
// and returned; a failing appender does not stop the others.
func (p *Pipeline) FlushAppenders() error {
	return p.flush(func(binding) bool { return true })
}

func (p *Pipeline) flush(match func(binding) bool) error {
	var errs []error
	p.mu.Lock()
	for _, b := range p.appenders {
		if !match(b) {
			continue
		}
		if err := flush(b); err != nil {
			p.metrics.AppenderErrorCount.WithLabelValues(b.name, "flush").Inc()
			errs = append(errs, err)
		}
	}
	p.mu.Unlock()

	p.report(errs...)

	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// String implements fmt.Stringer.
func (p *Pipeline) String() string {
	return fmt.Sprintf("log.Pipeline{level: %s, appenders: [%s]}",
		p.DefaultLevel(), strings.Join(p.Appenders(), " "))
}
