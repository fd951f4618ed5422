// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plugin provides the registry that maps plugin names to factories
// and tracks every instance created through it, so that all of them can be
// disposed of together when the owning pipeline is torn down.
package plugin

// Kind categorizes a plugin by the role it plays in the logging pipeline.
type Kind string

const (
	// KindAppender delivers formatted events to a sink.
	KindAppender Kind = "appender"
	// KindFilter decides per-event eligibility.
	KindFilter Kind = "filter"
	// KindFormatter renders an event into output tokens.
	KindFormatter Kind = "formatter"
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	return string(k)
}

// Descriptor identifies a plugin or a plugin factory.
type Descriptor struct {
	Name    string
	Version string
	Kind    Kind
}

// Plugin is the part of the contract shared by every plugin instance.
type Plugin interface {
	// Descriptor returns the identity of the plugin.
	Descriptor() Descriptor
	// Dispose releases the resources held by the plugin.
	// It is called exactly once, when the owning registry is disposed.
	Dispose() error
}

// Config is the configuration handed to a factory. Every configuration
// carries at least the name used to look up the matching factory; the
// kind-specific fields are defined by the packages that declare the plugin
// interfaces.
type Config interface {
	PluginName() string
}

// Name is a Config that consists of the plugin name only.
type Name string

// PluginName implements the Config interface.
func (n Name) PluginName() string {
	return string(n)
}

// Factory creates plugin instances of a single name and kind.
type Factory interface {
	// Descriptor returns the name, version and kind of the created plugins.
	Descriptor() Descriptor
	// Create returns a new plugin instance for the given configuration.
	Create(cfg Config) (Plugin, error)
}

// FactoryFunc adapts a plain constructor function to the Factory interface.
type FactoryFunc func(cfg Config) (Plugin, error)

type factory struct {
	desc Descriptor
	fn   FactoryFunc
}

// NewFactory returns a Factory described by desc which delegates
// instance creation to fn.
func NewFactory(desc Descriptor, fn FactoryFunc) Factory {
	return &factory{desc: desc, fn: fn}
}

// Descriptor implements the Factory interface.
func (f *factory) Descriptor() Descriptor { return f.desc }

// Create implements the Factory interface.
func (f *factory) Create(cfg Config) (Plugin, error) { return f.fn(cfg) }
