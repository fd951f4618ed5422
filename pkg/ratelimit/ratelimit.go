// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ratelimit provides a mechanism to rate limit events based on a string key,
// refill rate and burst amount. Under the hood, it's a token bucket of size burst amount,
// that refills at the refill rate. Only the most recently used keys are tracked.
package ratelimit

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// DefaultMaxKeys is the number of keys tracked when no bound is given.
const DefaultMaxKeys = 1024

type Limiter struct {
	mux      sync.Mutex
	limiters *lru.Cache
	rate     rate.Limit
	burst    int
}

// New returns a new Limiter that refills one token every r, holds at most
// b tokens per key and tracks up to maxKeys keys. A key evicted from the
// tracked set starts over with a full bucket.
func New(r time.Duration, b, maxKeys int) *Limiter {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	limiters, _ := lru.New(maxKeys)
	return &Limiter{
		limiters: limiters,
		rate:     rate.Every(r),
		burst:    b,
	}
}

// Allow checks if the limiter that belongs to 'key' has not exceeded the limit.
func (l *Limiter) Allow(key string, count int) bool {
	return l.AllowAt(key, count, time.Now())
}

// AllowAt is like Allow but takes the tokens at the given instant.
func (l *Limiter) AllowAt(key string, count int, t time.Time) bool {
	l.mux.Lock()
	defer l.mux.Unlock()

	var limiter *rate.Limiter
	if v, ok := l.limiters.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(key, limiter)
	}

	return limiter.AllowN(t, count)
}

// Clear deletes the limiter that belongs to 'key'
func (l *Limiter) Clear(key string) {
	l.limiters.Remove(key)
}

// Reset deletes all limiters.
func (l *Limiter) Reset() {
	l.limiters.Purge()
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	return l.limiters.Len()
}
