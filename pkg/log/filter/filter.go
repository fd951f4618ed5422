// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter contains the built-in event filters.
package filter

import (
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"go.uber.org/atomic"
)

// Names of the built-in filters.
const (
	MatchName     = "match-filter"
	ExprName      = "expr-filter"
	RateLimitName = "ratelimit-filter"
)

const version = "1.0.0"

// base holds the state shared by all built-in filters.
type base struct {
	name    string
	enabled atomic.Bool
}

func newBase(name string) base {
	b := base{name: name}
	b.enabled.Store(true)
	return b
}

// Descriptor implements the plugin.Plugin interface.
func (b *base) Descriptor() plugin.Descriptor {
	return descriptor(b.name)
}

// Enabled implements the log.Filter interface.
func (b *base) Enabled() bool { return b.enabled.Load() }

// SetEnabled implements the log.Filter interface.
func (b *base) SetEnabled(enabled bool) { b.enabled.Store(enabled) }

// Dispose implements the plugin.Plugin interface.
func (b *base) Dispose() error { return nil }

// Factories returns the factories of all built-in filters.
func Factories() []plugin.Factory {
	return []plugin.Factory{
		NewMatchFactory(),
		NewExprFactory(),
		NewRateLimitFactory(),
	}
}

func descriptor(name string) plugin.Descriptor {
	return plugin.Descriptor{Name: name, Version: version, Kind: plugin.KindFilter}
}
