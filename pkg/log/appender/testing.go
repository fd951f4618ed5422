// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package appender

import (
	"testing"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

var _ log.Appender = (*Testing)(nil)

// Testing is an appender used for testing.
// This appender uses t.Log as sink for log outputs.
type Testing struct {
	Base
	t testing.TB
}

// NewTesting returns an appender logging through t.
func NewTesting(t testing.TB) *Testing {
	return &Testing{t: t}
}

// Init implements the log.Appender interface.
func (a *Testing) Init(cfg log.AppenderConfig, f log.Formatter, filters []log.Filter) error {
	return a.Setup(TestingName, cfg, f, filters, log.FormatterConfig{Name: formatter.DefaultName})
}

// Write implements the log.Appender interface.
func (a *Testing) Write(e log.Event) error {
	a.t.Helper()
	a.t.Log(a.Line(e))
	return nil
}

// Flush implements the log.Appender interface.
func (a *Testing) Flush() error { return nil }

// Dispose implements the plugin.Plugin interface.
func (a *Testing) Dispose() error { return nil }

// NewTestingFactory returns the factory of appenders logging through t.
func NewTestingFactory(t testing.TB) plugin.Factory {
	return plugin.NewFactory(descriptor(TestingName), func(plugin.Config) (plugin.Plugin, error) {
		return NewTesting(t), nil
	})
}
