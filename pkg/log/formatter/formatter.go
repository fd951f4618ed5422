// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

// Names of the built-in formatters.
const (
	DefaultName = "default-formatter"
	JSONName    = "json-formatter"
)

const version = "1.0.0"

var _ log.Formatter = (*Default)(nil)

// Default renders events through a template, or through DefaultLayout
// when no format is configured.
type Default struct {
	tmpl *Template
	opts RenderOptions
}

// Descriptor implements the plugin.Plugin interface.
func (*Default) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{Name: DefaultName, Version: version, Kind: plugin.KindFormatter}
}

// Init implements the log.Formatter interface.
func (f *Default) Init(cfg log.FormatterConfig) error {
	if len(cfg.Format) > 0 {
		f.tmpl = Parse(cfg.Format...)
	}
	f.opts = RenderOptions{TimestampFormat: cfg.TimestampFormat, Color: cfg.Color}
	return nil
}

// Format implements the log.Formatter interface.
func (f *Default) Format(e log.Event) ([]interface{}, error) {
	if f.tmpl == nil {
		return DefaultLayout(e, f.opts), nil
	}
	return f.tmpl.Render(e, f.opts), nil
}

// Dispose implements the plugin.Plugin interface.
func (*Default) Dispose() error { return nil }

// NewDefaultFactory returns the factory of the default formatter.
func NewDefaultFactory() plugin.Factory {
	return plugin.NewFactory((*Default)(nil).Descriptor(), func(plugin.Config) (plugin.Plugin, error) {
		return new(Default), nil
	})
}

var _ log.Formatter = (*JSON)(nil)

// JSON renders each event as a single JSON object string.
// Options: "pretty" (bool) indents the output.
type JSON struct {
	timestampFormat string
	pretty          bool
}

// record fixes the field order of the JSON output.
type record struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger"`
	Message   string                 `json:"message"`
	Data      []interface{}          `json:"data,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Descriptor implements the plugin.Plugin interface.
func (*JSON) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{Name: JSONName, Version: version, Kind: plugin.KindFormatter}
}

// Init implements the log.Formatter interface.
func (f *JSON) Init(cfg log.FormatterConfig) (err error) {
	f.timestampFormat = cfg.TimestampFormat
	if f.timestampFormat == "" {
		f.timestampFormat = TimestampISO
	}
	f.pretty, err = cfg.Options.Bool("pretty", false)
	return err
}

// Format implements the log.Formatter interface.
func (f *JSON) Format(e log.Event) ([]interface{}, error) {
	r := record{
		Timestamp: FormatTimestamp(e.Time(), f.timestampFormat),
		Level:     e.Level().String(),
		Logger:    e.Logger(),
		Message:   e.Message(),
		Data:      e.Data(),
		Context:   e.Context(),
	}

	var (
		b   []byte
		err error
	)
	if f.pretty {
		b, err = json.MarshalIndent(r, "", "  ")
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return nil, fmt.Errorf("json formatter: %w", err)
	}
	return []interface{}{string(b)}, nil
}

// Dispose implements the plugin.Plugin interface.
func (*JSON) Dispose() error { return nil }

// NewJSONFactory returns the factory of the JSON formatter.
func NewJSONFactory() plugin.Factory {
	return plugin.NewFactory((*JSON)(nil).Descriptor(), func(plugin.Config) (plugin.Plugin, error) {
		return new(JSON), nil
	})
}
