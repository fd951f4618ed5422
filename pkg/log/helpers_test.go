// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

// journal records the deliveries of all recorder appenders of a test.
type journal struct {
	mu      sync.Mutex
	entries []string
	events  []Event
	flushed []string
	dispose []string
}

func (j *journal) add(appender string, e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, appender+":"+e.Message())
	j.events = append(j.events, e)
}

func (j *journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// recorder is an appender that writes to a journal.
// Options: "fail" makes Write return an error, "panic" makes it panic,
// "failFlush" makes Flush return an error.
type recorder struct {
	name      string
	journal   *journal
	enabled   bool
	priority  int
	levels    LevelSet
	fail      bool
	panics    bool
	failFlush bool
}

func (r *recorder) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{Name: r.name, Version: "1.0.0", Kind: plugin.KindAppender}
}

func (r *recorder) Init(cfg AppenderConfig, _ Formatter, _ []Filter) (err error) {
	r.enabled = true
	if cfg.Priority != nil {
		r.priority = *cfg.Priority
	}
	r.levels = AllLevels
	if len(cfg.Levels) > 0 {
		if r.levels, err = ParseLevelSet(cfg.Levels); err != nil {
			return err
		}
	}
	if r.fail, err = cfg.Options.Bool("fail", false); err != nil {
		return err
	}
	if r.panics, err = cfg.Options.Bool("panic", false); err != nil {
		return err
	}
	r.failFlush, err = cfg.Options.Bool("failFlush", false)
	return err
}

func (r *recorder) SupportedLevels() LevelSet { return r.levels }
func (r *recorder) Enabled() bool             { return r.enabled }
func (r *recorder) SetEnabled(enabled bool)   { r.enabled = enabled }
func (r *recorder) Priority() int             { return r.priority }

func (r *recorder) Write(e Event) error {
	if r.panics {
		panic("recorder: boom")
	}
	if r.fail {
		return errors.New("recorder: write failed")
	}
	r.journal.add(r.name, e)
	return nil
}

func (r *recorder) Flush() error {
	r.journal.mu.Lock()
	r.journal.flushed = append(r.journal.flushed, r.name)
	r.journal.mu.Unlock()
	if r.failFlush {
		return errors.New("recorder: flush failed")
	}
	return nil
}

func (r *recorder) Dispose() error {
	r.journal.mu.Lock()
	r.journal.dispose = append(r.journal.dispose, r.name)
	r.journal.mu.Unlock()
	return nil
}

func recorderFactory(name string, j *journal) plugin.Factory {
	desc := plugin.Descriptor{Name: name, Version: "1.0.0", Kind: plugin.KindAppender}
	return plugin.NewFactory(desc, func(plugin.Config) (plugin.Plugin, error) {
		return &recorder{name: name, journal: j}, nil
	})
}

// substringFilter rejects events whose message contains the "deny" option.
type substringFilter struct {
	name    string
	deny    string
	enabled bool
}

func (f *substringFilter) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{Name: f.name, Version: "1.0.0", Kind: plugin.KindFilter}
}

func (f *substringFilter) Init(cfg FilterConfig) (err error) {
	f.enabled = true
	f.deny, err = cfg.Options.String("deny", "")
	return err
}

func (f *substringFilter) Enabled() bool           { return f.enabled }
func (f *substringFilter) SetEnabled(enabled bool) { f.enabled = enabled }
func (f *substringFilter) Dispose() error          { return nil }

func (f *substringFilter) Filter(e Event) bool {
	if f.deny == "panic" {
		panic("substringFilter: boom")
	}
	return f.deny == "" || !strings.Contains(e.Message(), f.deny)
}

func substringFilterFactory(name string) plugin.Factory {
	desc := plugin.Descriptor{Name: name, Version: "1.0.0", Kind: plugin.KindFilter}
	return plugin.NewFactory(desc, func(plugin.Config) (plugin.Plugin, error) {
		return &substringFilter{name: name}, nil
	})
}

// errorSink collects the errors reported by a pipeline.
type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) handle(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *errorSink) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// newTestPipeline returns a pipeline with recorder appenders registered
// under the given names and a filter factory named "substring".
func newTestPipeline(t *testing.T, names []string, opts ...Option) (*Pipeline, *journal, *errorSink) {
	t.Helper()

	j := new(journal)
	sink := new(errorSink)
	p := New(append([]Option{WithErrorHandler(sink.handle)}, opts...)...)
	for _, name := range names {
		if err := p.Register(recorderFactory(name, j)); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	if err := p.Register(substringFilterFactory("substring")); err != nil {
		t.Fatalf("Register(substring): %v", err)
	}
	return p, j, sink
}
