// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelinePriorityOrder(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"low", "high", "mid", "same"})
	err := p.Init(Config{
		Appenders: []AppenderConfig{
			{Name: "low"},
			{Name: "high", Priority: Int(10)},
			{Name: "same"},
			{Name: "mid", Priority: Int(5)},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if diff := cmp.Diff([]string{"high", "mid", "low", "same"}, p.Appenders()); diff != "" {
		t.Fatalf("Appenders() mismatch (-want +have):\n%s", diff)
	}

	p.Logger("app").Info("hello")

	want := []string{"high:hello", "mid:hello", "low:hello", "same:hello"}
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Fatalf("delivery order mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineBuffersBeforeInit(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"rec"})
	log := p.Logger("app")
	log.Info("one")
	log.Warn("two")
	log.Debug("not emitted")
	log.Error("three")

	if have := len(j.Entries()); have != 0 {
		t.Fatalf("delivered before Init: %d entries", have)
	}
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	p.Logger("app").Info("four")

	want := []string{"rec:one", "rec:two", "rec:three", "rec:four"}
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineBufferOverflow(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"rec"}, WithBufferCapacity(2))
	log := p.Logger("app")
	for i := 0; i < 5; i++ {
		log.Info(fmt.Sprint(i))
	}
	if have := testutil.ToFloat64(p.metrics.DroppedCount); have != 3 {
		t.Fatalf("dropped: want 3; have %v", have)
	}
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if diff := cmp.Diff([]string{"rec:3", "rec:4"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineFaultIsolation(t *testing.T) {
	t.Parallel()

	p, j, sink := newTestPipeline(t, []string{"panics", "fails", "works"})
	err := p.Init(Config{
		Appenders: []AppenderConfig{
			{Name: "panics", Priority: Int(3), Options: plugin.Options{"panic": true}},
			{Name: "fails", Priority: Int(2), Options: plugin.Options{"fail": true}},
			{Name: "works", Priority: Int(1)},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	p.Logger("app").Error("survives")

	if diff := cmp.Diff([]string{"works:survives"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}

	errs := sink.Errors()
	if len(errs) != 2 {
		t.Fatalf("reported errors: want 2; have %d: %v", len(errs), errs)
	}
	var names []string
	for _, err := range errs {
		var aerr *AppenderError
		if !errors.As(err, &aerr) {
			t.Fatalf("want *AppenderError; have %T", err)
		}
		names = append(names, aerr.Appender)
	}
	if diff := cmp.Diff([]string{"panics", "fails"}, names); diff != "" {
		t.Fatalf("failing appenders mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineSupportedLevels(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"errors", "all"})
	err := p.Init(Config{
		Level: "debug",
		Appenders: []AppenderConfig{
			{Name: "errors", Priority: Int(1), Levels: []string{"fatal", "error"}},
			{Name: "all"},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := p.Logger("app")
	log.Error("bad")
	log.Debug("detail")

	want := []string{"errors:bad", "all:bad", "all:detail"}
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineFilters(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"a", "b"})
	err := p.Init(Config{
		Filters: []FilterConfig{{Name: "substring", Options: plugin.Options{"deny": "secret"}}},
		Appenders: []AppenderConfig{
			{Name: "a", Priority: Int(1), Filters: []FilterConfig{{Name: "substring", Options: plugin.Options{"deny": "noisy"}}}},
			{Name: "b"},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := p.Logger("app")
	log.Info("secret stuff")
	log.Info("noisy stuff")
	log.Info("plain")

	want := []string{"b:noisy stuff", "a:plain", "b:plain"}
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}

	p.DisableFilter("substring", "a")
	log.Info("noisy again")
	p.DisableFilter("substring", "")
	log.Info("secret again")
	p.EnableFilter("substring", "")
	log.Info("secret hidden")

	want = append(want, "a:noisy again", "b:noisy again", "a:secret again", "b:secret again")
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
	if have := testutil.ToFloat64(p.metrics.FilteredCount); have != 3 {
		t.Fatalf("filtered: want 3; have %v", have)
	}
}

func TestPipelinePanickingFilterRejects(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"a", "b"})
	err := p.Init(Config{
		Appenders: []AppenderConfig{
			{Name: "a", Priority: Int(1), Filters: []FilterConfig{{Name: "substring", Options: plugin.Options{"deny": "panic"}}}},
			{Name: "b"},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	p.Logger("app").Info("hello")

	if diff := cmp.Diff([]string{"b:hello"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineEnableDisableAppender(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"a", "b"})
	err := p.Init(Config{
		Appenders: []AppenderConfig{
			{Name: "a", Priority: Int(1)},
			{Name: "b", Enabled: Bool(false)},
		},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := p.Logger("app")
	log.Info("1")
	p.DisableAppender("a")
	p.EnableAppender("b")
	p.EnableAppender("unknown")
	log.Info("2")

	if diff := cmp.Diff([]string{"a:1", "b:2"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineInitErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		config Config
		check  func(t *testing.T, err error)
	}{{
		name:   "unknown appender",
		config: Config{Appenders: []AppenderConfig{{Name: "rec"}, {Name: "missing"}}},
		check: func(t *testing.T, err error) {
			var nerr *plugin.FactoryNotFoundError
			if !errors.As(err, &nerr) || nerr.Name != "missing" {
				t.Fatalf("want *FactoryNotFoundError for %q; have %v", "missing", err)
			}
		},
	}, {
		name:   "unknown filter",
		config: Config{Filters: []FilterConfig{{Name: "missing"}}, Appenders: []AppenderConfig{{Name: "rec"}}},
		check: func(t *testing.T, err error) {
			var nerr *plugin.FactoryNotFoundError
			if !errors.As(err, &nerr) || nerr.Kind != plugin.KindFilter {
				t.Fatalf("want *FactoryNotFoundError for a filter; have %v", err)
			}
		},
	}, {
		name:   "kind mismatch",
		config: Config{Appenders: []AppenderConfig{{Name: "substring"}}},
		check: func(t *testing.T, err error) {
			var nerr *plugin.FactoryNotFoundError
			if !errors.As(err, &nerr) || nerr.Kind != plugin.KindAppender {
				t.Fatalf("want *FactoryNotFoundError for an appender; have %v", err)
			}
		},
	}, {
		name:   "invalid appender levels",
		config: Config{Appenders: []AppenderConfig{{Name: "rec", Levels: []string{"loud"}}}},
		check: func(t *testing.T, err error) {
			if err == nil {
				t.Fatal("want error")
			}
		},
	}}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, j, _ := newTestPipeline(t, []string{"rec"})
			p.Logger("app").Info("early")

			err := p.Init(tc.config)
			tc.check(t, err)

			if p.Initialized() {
				t.Fatal("pipeline initialized after failed Init")
			}
			if have := p.Registry().Instances(); have != 0 {
				t.Fatalf("instances left after failed Init: %d", have)
			}
			if have := len(p.Appenders()); have != 0 {
				t.Fatalf("appenders left after failed Init: %d", have)
			}

			if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if diff := cmp.Diff([]string{"rec:early"}, j.Entries()); diff != "" {
				t.Fatalf("entries mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestPipelineDefaultAppender(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{DefaultAppender})
	if err := p.Init(Config{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if diff := cmp.Diff([]string{DefaultAppender}, p.Appenders()); diff != "" {
		t.Fatalf("Appenders() mismatch (-want +have):\n%s", diff)
	}

	p.Logger("app").Info("hi")
	if diff := cmp.Diff([]string{"console:hi"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}

	p2, _, _ := newTestPipeline(t, []string{"rec"})
	if err := p2.Init(Config{Appenders: []AppenderConfig{}}); err != nil {
		t.Fatalf("Init with no appenders: %v", err)
	}
	if have := len(p2.Appenders()); have != 0 {
		t.Fatalf("explicitly empty appenders: have %d", have)
	}
}

func TestPipelineReinit(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"a", "b"})
	if err := p.Init(Config{Level: "debug", Appenders: []AppenderConfig{{Name: "a"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	first := p.Logger("app")
	first.Debug("1")

	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "b"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	second := p.Logger("app")
	if first == second {
		t.Fatal("logger cache not cleared by Init")
	}
	second.Debug("2")
	second.Info("3")

	if diff := cmp.Diff([]string{"a:1", "b:3"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, j.dispose); diff != "" {
		t.Fatalf("disposed mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineDispose(t *testing.T) {
	t.Parallel()

	p, j, sink := newTestPipeline(t, []string{"a", "b"})
	err := p.Init(Config{Appenders: []AppenderConfig{
		{Name: "a", Options: plugin.Options{"failFlush": true}},
		{Name: "b"},
	}})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if have := testutil.ToFloat64(p.metrics.ActiveAppenders); have != 2 {
		t.Fatalf("active appenders: want 2; have %v", have)
	}

	if err := p.Dispose(); err == nil {
		t.Fatal("Dispose: want flush error")
	}
	if have := testutil.ToFloat64(p.metrics.ActiveAppenders); have != 0 {
		t.Fatalf("active appenders after Dispose: want 0; have %v", have)
	}
	if diff := cmp.Diff([]string{"a", "b"}, j.flushed); diff != "" {
		t.Fatalf("flushed mismatch (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, j.dispose); diff != "" {
		t.Fatalf("disposed mismatch (-want +have):\n%s", diff)
	}
	if have := len(sink.Errors()); have != 1 {
		t.Fatalf("reported errors: want 1; have %d", have)
	}

	if err := p.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
	if have := len(p.Registry().Factories()); have != 0 {
		t.Fatalf("factories after Dispose: %d", have)
	}

	p.Logger("app").Info("after dispose")
	if have := len(j.Entries()); have != 0 {
		t.Fatalf("delivered after Dispose: %v", j.Entries())
	}

	// Events emitted after Dispose reach the appenders of the next Init.
	if err := p.Register(recorderFactory("c", j)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "c"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if diff := cmp.Diff([]string{"c:after dispose"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineFlushAppenders(t *testing.T) {
	t.Parallel()

	p, j, sink := newTestPipeline(t, []string{"a", "b"})
	err := p.Init(Config{Appenders: []AppenderConfig{
		{Name: "a", Priority: Int(1), Options: plugin.Options{"failFlush": true}},
		{Name: "b"},
	}})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := p.FlushAppender("b"); err != nil {
		t.Fatalf("FlushAppender(b): %v", err)
	}
	err = p.FlushAppenders()
	var aerr *AppenderError
	if !errors.As(err, &aerr) || aerr.Appender != "a" || aerr.Op != "flush" {
		t.Fatalf("FlushAppenders: want flush error of %q; have %v", "a", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "b"}, j.flushed); diff != "" {
		t.Fatalf("flushed mismatch (-want +have):\n%s", diff)
	}
	if have := len(sink.Errors()); have != 1 {
		t.Fatalf("reported errors: want 1; have %d", have)
	}
}

type countingHook struct {
	mu     sync.Mutex
	counts map[Level]int
	err    error
}

func (h *countingHook) Fire(l Level) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.counts == nil {
		h.counts = make(map[Level]int)
	}
	h.counts[l]++
	return h.err
}

func TestPipelineLevelHooks(t *testing.T) {
	t.Parallel()

	hook := &countingHook{err: errors.New("hook failed")}
	p, j, sink := newTestPipeline(t, []string{"rec"}, WithLevelHooks(NewLevelSet(LevelError), hook))
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := p.Logger("app")
	log.Error("e1")
	log.Info("i1")
	log.Error("e2")

	if have := hook.counts[LevelError]; have != 2 {
		t.Fatalf("hook fired: want 2; have %d", have)
	}
	if have := len(j.Entries()); have != 3 {
		t.Fatalf("hook error stopped delivery: %v", j.Entries())
	}
	if have := len(sink.Errors()); have != 2 {
		t.Fatalf("reported errors: want 2; have %d", have)
	}
	if have := testutil.ToFloat64(p.metrics.ErrorCount); have != 2 {
		t.Fatalf("error count: want 2; have %v", have)
	}
}

func TestPipelineConcurrentLogging(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"rec"})
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	const workers, events = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			log := p.Logger(fmt.Sprintf("worker.%d", w))
			for i := 0; i < events; i++ {
				log.Info("tick")
			}
		}(w)
	}
	wg.Wait()

	if have := len(j.Entries()); have != workers*events {
		t.Fatalf("entries: want %d; have %d", workers*events, have)
	}
}

func TestPipelineEventFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 12, 30, 45, 123e6, time.UTC)
	p, j, _ := newTestPipeline(t, []string{"rec"}, WithClock(func() time.Time { return ts }))
	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := p.Logger("svc")
	log.SetContext(Context{"req": "r-1"})
	log.Warn("msg", 1, "two")

	if len(j.events) != 1 {
		t.Fatalf("events: want 1; have %d", len(j.events))
	}
	want := map[string]interface{}{
		"logger":    "svc",
		"level":     "warn",
		"message":   "msg",
		"data":      []interface{}{1, "two"},
		"context":   map[string]interface{}{"req": "r-1"},
		"timestamp": ts,
	}
	if diff := cmp.Diff(want, j.events[0].Fields()); diff != "" {
		t.Fatalf("Fields() mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineBufferedEventKeepsData(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"rec"})
	data := []interface{}{"original"}
	p.Logger("app").Info("m", data...)
	data[0] = "mutated"

	if err := p.Init(Config{Appenders: []AppenderConfig{{Name: "rec"}}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(j.events) != 1 {
		t.Fatalf("events: want 1; have %d", len(j.events))
	}
	if diff := cmp.Diff([]interface{}{"original"}, j.events[0].Data()); diff != "" {
		t.Fatalf("Data() mismatch (-want +have):\n%s", diff)
	}
}

func TestPipelineInitConfiguresEarlierLoggers(t *testing.T) {
	t.Parallel()

	p, j, _ := newTestPipeline(t, []string{"rec"})
	app := p.Logger("app")
	other := p.Logger("other")

	err := p.Init(Config{
		Level:     "warn",
		Loggers:   map[string]string{"app": "trace"},
		Appenders: []AppenderConfig{{Name: "rec"}},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if have := app.Level(); have != LevelTrace {
		t.Fatalf("app level: want trace; have %s", have)
	}
	if have := other.Level(); have != LevelWarn {
		t.Fatalf("other level: want warn; have %s", have)
	}

	app.Debug("shown")
	other.Info("hidden")

	if diff := cmp.Diff([]string{"rec:shown"}, j.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +have):\n%s", diff)
	}
}
