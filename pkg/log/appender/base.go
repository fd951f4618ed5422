// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appender contains the built-in output destinations and the
// Base type they share.
package appender

import (
	"fmt"
	"io"
	"os"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/spf13/afero"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/atomic"
)

// Names of the built-in appenders.
const (
	ConsoleName = log.DefaultAppender
	FileName    = "file"
	LogrusName  = "logrus"
	TestingName = "testing"
)

const version = "1.0.0"

// Base implements the bookkeeping parts of log.Appender: the enabled
// flag, priority, supported levels and formatter. Appenders embed it and
// call Setup from their Init.
type Base struct {
	name      string
	enabled   atomic.Bool
	priority  int
	levels    log.LevelSet
	formatter log.Formatter
	custom    bool
	filters   []log.Filter
	fallback  formatter.RenderOptions
}

// Setup configures the base from the appender configuration. When f is
// nil, a default formatter configured with defaults is used.
func (b *Base) Setup(name string, cfg log.AppenderConfig, f log.Formatter, filters []log.Filter, defaults log.FormatterConfig) error {
	b.name = name
	b.enabled.Store(true)
	b.priority = 0
	if cfg.Priority != nil {
		b.priority = *cfg.Priority
	}

	b.levels = log.AllLevels
	if len(cfg.Levels) > 0 {
		levels, err := log.ParseLevelSet(cfg.Levels)
		if err != nil {
			return fmt.Errorf("%s appender: levels: %w", name, err)
		}
		b.levels = levels
	}

	b.fallback = formatter.RenderOptions{TimestampFormat: defaults.TimestampFormat}
	b.custom = f != nil
	if f == nil {
		d := new(formatter.Default)
		if err := d.Init(defaults); err != nil {
			return fmt.Errorf("%s appender: formatter: %w", name, err)
		}
		f = d
	}
	b.formatter = f
	b.filters = filters
	return nil
}

// Descriptor implements the plugin.Plugin interface.
func (b *Base) Descriptor() plugin.Descriptor {
	return descriptor(b.name)
}

// Enabled implements the log.Appender interface.
func (b *Base) Enabled() bool { return b.enabled.Load() }

// SetEnabled implements the log.Appender interface.
func (b *Base) SetEnabled(enabled bool) { b.enabled.Store(enabled) }

// Priority implements the log.Appender interface.
func (b *Base) Priority() int { return b.priority }

// SupportedLevels implements the log.Appender interface.
func (b *Base) SupportedLevels() log.LevelSet { return b.levels }

// Filters returns the filters attached to the appender.
// They are evaluated by the pipeline.
func (b *Base) Filters() []log.Filter { return b.filters }

// CustomFormatter reports whether a formatter was configured explicitly.
func (b *Base) CustomFormatter() bool { return b.custom }

// Render formats the event. A failing or panicking formatter
// degrades to formatter.DefaultLayout.
func (b *Base) Render(e log.Event) (out []interface{}) {
	defer func() {
		if r := recover(); r != nil {
			out = formatter.DefaultLayout(e, b.fallback)
		}
	}()

	out, err := b.formatter.Format(e)
	if err != nil {
		return formatter.DefaultLayout(e, b.fallback)
	}
	return out
}

// WriteLine renders the event as a single line of space separated
// tokens terminated by a newline and writes it to w.
func (b *Base) WriteLine(w io.Writer, e log.Event) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendTokens(buf, b.Render(e))
	_ = buf.WriteByte('\n')
	_, err := w.Write(buf.B)
	return err
}

// Line renders the event as a single line without the trailing newline.
func (b *Base) Line(e log.Event) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendTokens(buf, b.Render(e))
	return buf.String()
}

func appendTokens(buf *bytebufferpool.ByteBuffer, tokens []interface{}) {
	for i, t := range tokens {
		if i > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(formatter.Stringify(t))
	}
}

func descriptor(name string) plugin.Descriptor {
	return plugin.Descriptor{Name: name, Version: version, Kind: plugin.KindAppender}
}

// Factories returns the factories of the built-in appenders that write
// to the standard streams and the OS file system.
func Factories() []plugin.Factory {
	return FactoriesFor(os.Stdout, os.Stderr, afero.NewOsFs())
}

// FactoriesFor returns the factories of the built-in appenders that write
// to the given streams and open files on fs.
func FactoriesFor(stdout, stderr io.Writer, fs afero.Fs) []plugin.Factory {
	return []plugin.Factory{
		NewConsoleFactoryWithStreams(stdout, stderr),
		NewFileFactory(fs),
		NewLogrusFactoryWithOutput(stderr),
	}
}
