// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package appender

import (
	"fmt"
	"io"
	"os"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"golang.org/x/term"
)

var _ log.Appender = (*Console)(nil)

// Console writes one line per event to the standard streams.
// Fatal, error and warn events go to stderr unless "split" is false.
//
// Options: "color" ("auto", "always" or "never"; auto colours the level
// label when stdout is a terminal), "split" (bool, default true).
type Console struct {
	Base
	stdout, stderr io.Writer
	terminal       bool
	split          bool
}

// NewConsole returns a console appender writing to the given streams.
func NewConsole(stdout, stderr io.Writer) *Console {
	return &Console{
		stdout:   log.Lock(stdout),
		stderr:   log.Lock(stderr),
		terminal: isTerminal(stdout),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Init implements the log.Appender interface.
func (c *Console) Init(cfg log.AppenderConfig, f log.Formatter, filters []log.Filter) (err error) {
	mode, err := cfg.Options.String("color", "auto")
	if err != nil {
		return err
	}
	var color bool
	switch mode {
	case "auto":
		color = c.terminal
	case "always", "true":
		color = true
	case "never", "false":
	default:
		return fmt.Errorf("console appender: invalid color mode %q", mode)
	}

	if c.split, err = cfg.Options.Bool("split", true); err != nil {
		return err
	}

	return c.Setup(ConsoleName, cfg, f, filters, log.FormatterConfig{
		Name:  formatter.DefaultName,
		Color: color,
	})
}

// Write implements the log.Appender interface.
func (c *Console) Write(e log.Event) error {
	w := c.stdout
	if c.split && e.Level().AtLeastAsSevereAs(log.LevelWarn) {
		w = c.stderr
	}
	return c.WriteLine(w, e)
}

// Flush implements the log.Appender interface.
// Console output is not buffered.
func (c *Console) Flush() error { return nil }

// Dispose implements the plugin.Plugin interface.
func (c *Console) Dispose() error { return nil }

// NewConsoleFactory returns the factory of console appenders
// writing to os.Stdout and os.Stderr.
func NewConsoleFactory() plugin.Factory {
	return NewConsoleFactoryWithStreams(os.Stdout, os.Stderr)
}

// NewConsoleFactoryWithStreams returns the factory of console
// appenders writing to the given streams.
func NewConsoleFactoryWithStreams(stdout, stderr io.Writer) plugin.Factory {
	return plugin.NewFactory(descriptor(ConsoleName), func(plugin.Config) (plugin.Plugin, error) {
		return NewConsole(stdout, stderr), nil
	})
}
