// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"
	"time"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/pathval"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/ncoderz/log-m8-sub000/pkg/ratelimit"
)

var _ log.Filter = (*RateLimit)(nil)

// RateLimit lets through at most burst events per key at once, refilled
// at one event per period. The key is the value at a path of the event
// fields, the logger name by default. Time is taken from the events.
type RateLimit struct {
	base
	key     pathval.Path
	limiter *ratelimit.Limiter
}

// NewRateLimit returns an uninitialized rate limiting filter.
func NewRateLimit() *RateLimit {
	return &RateLimit{base: newBase(RateLimitName)}
}

// Init implements the log.Filter interface.
// Options: "every" (duration, default 1s), "burst" (int, default 10),
// "key" (path, default "logger") and "maxKeys" (int).
func (f *RateLimit) Init(cfg log.FilterConfig) error {
	every, err := cfg.Options.Duration("every", time.Second)
	if err != nil {
		return err
	}
	burst, err := cfg.Options.Int("burst", 10)
	if err != nil {
		return err
	}
	key, err := cfg.Options.String("key", log.FieldLogger)
	if err != nil {
		return err
	}
	maxKeys, err := cfg.Options.Int("maxKeys", ratelimit.DefaultMaxKeys)
	if err != nil {
		return err
	}
	if every <= 0 || burst <= 0 {
		return fmt.Errorf("ratelimit filter: every and burst must be positive")
	}

	f.key = pathval.ParsePath(key)
	f.limiter = ratelimit.New(every, burst, maxKeys)
	return nil
}

// Filter implements the log.Filter interface.
func (f *RateLimit) Filter(e log.Event) bool {
	key := fmt.Sprint(f.key.Resolve(e.Fields()))
	return f.limiter.AllowAt(key, 1, e.Time())
}

// Dispose implements the plugin.Plugin interface.
func (f *RateLimit) Dispose() error {
	if f.limiter != nil {
		f.limiter.Reset()
	}
	return nil
}

// NewRateLimitFactory returns the factory of the rate limiting filter.
func NewRateLimitFactory() plugin.Factory {
	return plugin.NewFactory(descriptor(RateLimitName), func(plugin.Config) (plugin.Plugin, error) {
		return NewRateLimit(), nil
	})
}
