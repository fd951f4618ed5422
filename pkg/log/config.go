// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import "github.com/ncoderz/log-m8-sub000/pkg/plugin"

// DefaultAppender is the appender used when a configuration names none.
const DefaultAppender = "console"

// Config is the configuration accepted by Pipeline.Init.
type Config struct {
	// Level is the default threshold of loggers without an override.
	// Unresolvable values fall back to info.
	Level string

	// Loggers maps logger names to level overrides.
	Loggers map[string]string

	// Appenders lists the output destinations in configuration order.
	// A nil slice yields a single console appender.
	Appenders []AppenderConfig

	// Filters are evaluated for every event before the appender filters.
	Filters []FilterConfig
}

// AppenderConfig configures a single output destination.
type AppenderConfig struct {
	Name string

	// Enabled defaults to true.
	Enabled *bool

	// Priority orders appenders, higher first. It defaults to 0.
	Priority *int

	// Levels restricts the levels delivered to the appender.
	// Empty means the levels the appender supports.
	Levels []string

	// Formatter renders events for the appender. When nil the appender
	// uses its own default rendering.
	Formatter *FormatterConfig

	// Filters are consulted, in order, before the appender writes.
	Filters []FilterConfig

	Options plugin.Options
}

// PluginName implements the plugin.Config interface.
func (c AppenderConfig) PluginName() string { return c.Name }

// FilterConfig configures an event filter.
type FilterConfig struct {
	Name string

	// Enabled defaults to true.
	Enabled *bool

	// Allow rules (path -> expected value) must all match.
	Allow map[string]interface{}

	// Deny rules (path -> expected value) reject on any match.
	Deny map[string]interface{}

	Options plugin.Options
}

// PluginName implements the plugin.Config interface.
func (c FilterConfig) PluginName() string { return c.Name }

// FormatterConfig configures an event formatter.
type FormatterConfig struct {
	Name string

	// Format holds one template per output token. Empty selects
	// the built-in layout.
	Format []string

	// TimestampFormat is "iso", "locale" or a date/time pattern.
	TimestampFormat string

	// Color enables ANSI colors for the level label.
	Color bool

	Options plugin.Options
}

// PluginName implements the plugin.Config interface.
func (c FormatterConfig) PluginName() string { return c.Name }

// Bool returns a pointer to b, for the optional configuration fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for the optional configuration fields.
func Int(i int) *int { return &i }

