// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package appender

import (
	"io"
	"os"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/sirupsen/logrus"
)

var _ log.Appender = (*Logrus)(nil)

// Logrus hands events over to a logrus logger. The event logger name,
// context and data become entry fields. Level gating is left to the
// pipeline, and fatal events never terminate the process.
//
// Options: "json" (bool) switches the logrus formatter to JSON.
type Logrus struct {
	Base
	logger *logrus.Logger
}

// NewLogrusLogger returns a logrus logger writing text with full
// timestamps to w.
func NewLogrusLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.TraceLevel)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	return l
}

// NewLogrus returns an appender writing to l.
func NewLogrus(l *logrus.Logger) *Logrus {
	return &Logrus{logger: l}
}

// Init implements the log.Appender interface.
func (a *Logrus) Init(cfg log.AppenderConfig, f log.Formatter, filters []log.Filter) error {
	asJSON, err := cfg.Options.Bool("json", false)
	if err != nil {
		return err
	}
	if asJSON {
		// The logger may be shared with other appenders, so the JSON
		// formatter goes on a copy writing to the same output.
		l := logrus.New()
		l.SetOutput(a.logger.Out)
		l.SetLevel(a.logger.GetLevel())
		l.Hooks = a.logger.Hooks
		l.Formatter = &logrus.JSONFormatter{}
		a.logger = l
	}
	return a.Setup(LogrusName, cfg, f, filters, log.FormatterConfig{Name: formatter.DefaultName})
}

var logrusLevels = map[log.Level]logrus.Level{
	log.LevelFatal: logrus.FatalLevel,
	log.LevelError: logrus.ErrorLevel,
	log.LevelWarn:  logrus.WarnLevel,
	log.LevelInfo:  logrus.InfoLevel,
	log.LevelDebug: logrus.DebugLevel,
	log.LevelTrack: logrus.DebugLevel,
	log.LevelTrace: logrus.TraceLevel,
}

// Write implements the log.Appender interface.
// With a configured formatter the rendered line becomes the message.
func (a *Logrus) Write(e log.Event) error {
	fields := make(logrus.Fields, len(e.Context())+2)
	for k, v := range e.Context() {
		fields[k] = v
	}
	fields[log.FieldLogger] = e.Logger()
	if len(e.Data()) > 0 {
		fields[log.FieldData] = e.Data()
	}
	if e.Level() == log.LevelTrack {
		fields["track"] = true
	}

	msg := e.Message()
	if a.CustomFormatter() {
		msg = a.Line(e)
	}

	logrus.NewEntry(a.logger).WithFields(fields).WithTime(e.Time()).Log(logrusLevels[e.Level()], msg)
	return nil
}

// Flush implements the log.Appender interface.
func (a *Logrus) Flush() error { return nil }

// Dispose implements the plugin.Plugin interface.
func (a *Logrus) Dispose() error { return nil }

// NewLogrusFactory returns the factory of logrus appenders. Every
// appender writes through its own logger to os.Stderr.
func NewLogrusFactory() plugin.Factory {
	return NewLogrusFactoryWithOutput(os.Stderr)
}

// NewLogrusFactoryWithOutput returns the factory of logrus appenders.
// Every appender writes through its own logger to w.
func NewLogrusFactoryWithOutput(w io.Writer) plugin.Factory {
	return plugin.NewFactory(descriptor(LogrusName), func(plugin.Config) (plugin.Plugin, error) {
		return NewLogrus(NewLogrusLogger(w)), nil
	})
}

// NewLogrusFactoryWithLogger returns the factory of logrus appenders
// sharing l.
func NewLogrusFactoryWithLogger(l *logrus.Logger) plugin.Factory {
	return plugin.NewFactory(descriptor(LogrusName), func(plugin.Config) (plugin.Plugin, error) {
		return NewLogrus(l), nil
	})
}
