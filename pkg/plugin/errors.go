// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import "fmt"

// DuplicateNameError denotes registering a factory under a name
// that is already taken, regardless of the plugin kind.
type DuplicateNameError struct {
	Name string
	Kind Kind
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("plugin: factory %q already registered as %s", e.Name, e.Kind)
}

// FactoryNotFoundError denotes a request for a plugin whose name is not
// registered or whose registered factory is of a different kind.
type FactoryNotFoundError struct {
	Name string
	Kind Kind
}

// Error implements the error interface.
func (e *FactoryNotFoundError) Error() string {
	return fmt.Sprintf("plugin: %s factory %q not found", e.Kind, e.Name)
}

// DisposeError wraps a failure of a single plugin instance during disposal.
type DisposeError struct {
	Plugin Descriptor
	Err    error
}

// Error implements the error interface.
func (e *DisposeError) Error() string {
	return fmt.Sprintf("plugin: dispose %s %q: %v", e.Plugin.Kind, e.Plugin.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *DisposeError) Unwrap() error {
	return e.Err
}
