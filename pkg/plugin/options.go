// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Options holds the plugin specific configuration fields
// that are not covered by the well-known ones.
type Options map[string]interface{}

// Has reports whether the key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the option value as a string, or def if it is absent.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def, optionError(key, err)
	}
	return s, nil
}

// Int returns the option value as an int, or def if it is absent.
func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def, optionError(key, err)
	}
	return i, nil
}

// Bool returns the option value as a bool, or def if it is absent.
func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, optionError(key, err)
	}
	return b, nil
}

// Duration returns the option value as a time.Duration, or def if it is
// absent. Plain numbers are interpreted as nanoseconds and strings are
// parsed with time.ParseDuration.
func (o Options) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return def, optionError(key, err)
	}
	return d, nil
}

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

func optionError(key string, err error) error {
	return fmt.Errorf("plugin: option %q: %w", key, err)
}
