// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Registry maps plugin names to factories and keeps track
// of all plugin instances created through it.
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances []Plugin
}

// NewRegistry returns an empty registry ready to use.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds the factory to the registry. A *DuplicateNameError is
// returned if a factory with the same name exists, whatever its kind.
func (r *Registry) Register(f Factory) error {
	desc := f.Descriptor()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.factories[desc.Name]; ok {
		return &DuplicateNameError{Name: desc.Name, Kind: prev.Descriptor().Kind}
	}
	r.factories[desc.Name] = f
	return nil
}

// Create instantiates the plugin named by cfg using the registered factory.
// A *FactoryNotFoundError is returned if no factory has that name or if the
// factory creates plugins of a kind other than the requested one.
// The created instance is tracked until DisposeAll is called.
func (r *Registry) Create(kind Kind, cfg Config) (Plugin, error) {
	name := cfg.PluginName()

	r.mu.Lock()
	f, ok := r.factories[name]
	r.mu.Unlock()

	if !ok || f.Descriptor().Kind != kind {
		return nil, &FactoryNotFoundError{Name: name, Kind: kind}
	}

	// The factory runs outside of the lock so it may consult the registry.
	p, err := f.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("plugin: create %s %q: %w", kind, name, err)
	}
	if p == nil {
		return nil, fmt.Errorf("plugin: create %s %q: factory returned no instance", kind, name)
	}

	r.mu.Lock()
	r.instances = append(r.instances, p)
	r.mu.Unlock()

	return p, nil
}

// DisposeAll disposes every tracked instance in creation order and forgets
// about them. A failing (or panicking) instance does not prevent the rest
// from being disposed; all failures are returned together.
// Registered factories are kept.
func (r *Registry) DisposeAll() error {
	r.mu.Lock()
	instances := r.instances
	r.instances = nil
	r.mu.Unlock()

	var merr *multierror.Error
	for _, p := range instances {
		if err := dispose(p); err != nil {
			merr = multierror.Append(merr, &DisposeError{Plugin: p.Descriptor(), Err: err})
		}
	}
	return merr.ErrorOrNil()
}

// ClearFactories drops all registered factories.
// Tracked instances are left untouched.
func (r *Registry) ClearFactories() {
	r.mu.Lock()
	r.factories = make(map[string]Factory)
	r.mu.Unlock()
}

// Factories returns the descriptors of all registered factories sorted by name.
func (r *Registry) Factories() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	descs := make([]Descriptor, 0, len(r.factories))
	for _, f := range r.factories {
		descs = append(descs, f.Descriptor())
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs
}

// Instances returns the number of tracked plugin instances.
func (r *Registry) Instances() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

func dispose(p Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Dispose()
}
