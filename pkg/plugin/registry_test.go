// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

type mockPlugin struct {
	desc     plugin.Descriptor
	disposed *[]string
	err      error
	panics   bool
}

func (m *mockPlugin) Descriptor() plugin.Descriptor { return m.desc }

func (m *mockPlugin) Dispose() error {
	*m.disposed = append(*m.disposed, m.desc.Name)
	if m.panics {
		panic("dispose panic")
	}
	return m.err
}

func newMockFactory(name string, kind plugin.Kind, disposed *[]string, err error) plugin.Factory {
	desc := plugin.Descriptor{Name: name, Version: "1.0.0", Kind: kind}
	return plugin.NewFactory(desc, func(plugin.Config) (plugin.Plugin, error) {
		return &mockPlugin{desc: desc, disposed: disposed, err: err}, nil
	})
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	var disposed []string
	r := plugin.NewRegistry()
	if err := r.Register(newMockFactory("console", plugin.KindAppender, &disposed, nil)); err != nil {
		t.Fatal(err)
	}

	// Same name, different kind, must still collide.
	err := r.Register(newMockFactory("console", plugin.KindFilter, &disposed, nil))
	var dup *plugin.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("Register(...): want *DuplicateNameError, have %v", err)
	}
	if dup.Name != "console" || dup.Kind != plugin.KindAppender {
		t.Fatalf("unexpected error fields: %+v", dup)
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	var disposed []string
	r := plugin.NewRegistry()
	if err := r.Register(newMockFactory("console", plugin.KindAppender, &disposed, nil)); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name    string
		kind    plugin.Kind
		cfg     plugin.Config
		wantErr bool
	}{
		{name: "bare name", kind: plugin.KindAppender, cfg: plugin.Name("console")},
		{name: "missing factory", kind: plugin.KindAppender, cfg: plugin.Name("file"), wantErr: true},
		{name: "kind mismatch", kind: plugin.KindFormatter, cfg: plugin.Name("console"), wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p, err := r.Create(tc.kind, tc.cfg)
			if tc.wantErr {
				var nf *plugin.FactoryNotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("Create(...): want *FactoryNotFoundError, have %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create(...): unexpected error: %v", err)
			}
			if have, want := p.Descriptor().Name, "console"; have != want {
				t.Fatalf("Descriptor().Name: have %q; want %q", have, want)
			}
		})
	}
}

func TestCreateFactoryError(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	desc := plugin.Descriptor{Name: "broken", Kind: plugin.KindFilter}
	errBoom := errors.New("boom")
	if err := r.Register(plugin.NewFactory(desc, func(plugin.Config) (plugin.Plugin, error) {
		return nil, errBoom
	})); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Create(plugin.KindFilter, plugin.Name("broken")); !errors.Is(err, errBoom) {
		t.Fatalf("Create(...): want %v, have %v", errBoom, err)
	}
	if have := r.Instances(); have != 0 {
		t.Fatalf("Instances(): have %d; want 0", have)
	}
}

func TestDisposeAll(t *testing.T) {
	t.Parallel()

	var disposed []string
	r := plugin.NewRegistry()
	errFail := errors.New("fail")
	factories := []plugin.Factory{
		newMockFactory("a", plugin.KindAppender, &disposed, nil),
		newMockFactory("b", plugin.KindFilter, &disposed, errFail),
		newMockFactory("c", plugin.KindFormatter, &disposed, nil),
	}
	for _, f := range factories {
		if err := r.Register(f); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range factories {
		d := f.Descriptor()
		if _, err := r.Create(d.Kind, plugin.Name(d.Name)); err != nil {
			t.Fatal(err)
		}
	}

	err := r.DisposeAll()
	if !errors.Is(err, errFail) {
		t.Fatalf("DisposeAll(): want %v, have %v", errFail, err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, disposed); diff != "" {
		t.Fatalf("dispose order mismatch (-want +have):\n%s", diff)
	}
	if have := r.Instances(); have != 0 {
		t.Fatalf("Instances(): have %d; want 0", have)
	}

	// Factories survive disposal.
	if have := len(r.Factories()); have != 3 {
		t.Fatalf("len(Factories()): have %d; want 3", have)
	}
	if err := r.DisposeAll(); err != nil {
		t.Fatalf("second DisposeAll(): unexpected error: %v", err)
	}

	r.ClearFactories()
	if have := len(r.Factories()); have != 0 {
		t.Fatalf("len(Factories()): have %d; want 0", have)
	}
}

func TestDisposeAllRecoversPanic(t *testing.T) {
	t.Parallel()

	var disposed []string
	r := plugin.NewRegistry()
	desc := plugin.Descriptor{Name: "panicky", Kind: plugin.KindAppender}
	if err := r.Register(plugin.NewFactory(desc, func(plugin.Config) (plugin.Plugin, error) {
		return &mockPlugin{desc: desc, disposed: &disposed, panics: true}, nil
	})); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(newMockFactory("calm", plugin.KindAppender, &disposed, nil)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"panicky", "calm"} {
		if _, err := r.Create(plugin.KindAppender, plugin.Name(name)); err != nil {
			t.Fatal(err)
		}
	}

	err := r.DisposeAll()
	if err == nil || !strings.Contains(err.Error(), "dispose panic") {
		t.Fatalf("DisposeAll(): want panic to be surfaced, have %v", err)
	}
	if diff := cmp.Diff([]string{"panicky", "calm"}, disposed); diff != "" {
		t.Fatalf("dispose order mismatch (-want +have):\n%s", diff)
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := plugin.Options{
		"path":   "/var/log/app.log",
		"burst":  "10",
		"every":  "250ms",
		"pretty": "true",
		"bad":    []int{1},
	}

	if s, err := opts.String("path", ""); err != nil || s != "/var/log/app.log" {
		t.Fatalf("String(path): have %q, %v", s, err)
	}
	if i, err := opts.Int("burst", 1); err != nil || i != 10 {
		t.Fatalf("Int(burst): have %d, %v", i, err)
	}
	if d, err := opts.Duration("every", time.Second); err != nil || d != 250*time.Millisecond {
		t.Fatalf("Duration(every): have %v, %v", d, err)
	}
	if b, err := opts.Bool("pretty", false); err != nil || !b {
		t.Fatalf("Bool(pretty): have %v, %v", b, err)
	}
	if i, err := opts.Int("missing", 7); err != nil || i != 7 {
		t.Fatalf("Int(missing): have %d, %v", i, err)
	}
	if _, err := opts.Int("bad", 0); err == nil {
		t.Fatal("Int(bad): want error")
	}
}
