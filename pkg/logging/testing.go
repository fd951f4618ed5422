// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"testing"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/appender"
)

// NewTestLogger returns logger used for testing.
// This logger uses t.Log as sink for log outputs and emits every level.
// The pipeline behind it is disposed when the test finishes.
func NewTestLogger(t testing.TB, opts ...log.Option) *log.Logger {
	t.Helper()

	p, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Register(appender.NewTestingFactory(t)); err != nil {
		t.Fatal(err)
	}
	err = p.Init(log.Config{
		Level:     log.LevelTrace.String(),
		Appenders: []log.AppenderConfig{{Name: appender.TestingName}},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := p.Dispose(); err != nil {
			t.Error(err)
		}
	})

	return p.Logger(t.Name())
}
