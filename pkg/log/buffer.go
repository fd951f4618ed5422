// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

// DefaultBufferCapacity is the number of events kept before initialization.
const DefaultBufferCapacity = 100

// ring is a bounded FIFO of events. When full, pushing
// an event evicts the oldest one.
type ring struct {
	events []Event
	head   int
	size   int
}

func newRing(capacity int) *ring {
	if capacity < 0 {
		capacity = 0
	}
	return &ring{events: make([]Event, capacity)}
}

// push appends e and reports whether the oldest event was dropped to make
// room for it. A ring without capacity drops every event.
func (r *ring) push(e Event) (dropped bool) {
	n := len(r.events)
	if n == 0 {
		return true
	}
	if r.size == n {
		r.events[r.head] = e
		r.head = (r.head + 1) % n
		return true
	}
	r.events[(r.head+r.size)%n] = e
	r.size++
	return false
}

// drain removes and returns all events in FIFO order.
func (r *ring) drain() []Event {
	if r.size == 0 {
		return nil
	}
	n := len(r.events)
	out := make([]Event, r.size)
	for i := range out {
		j := (r.head + i) % n
		out[i] = r.events[j]
		r.events[j] = Event{}
	}
	r.head, r.size = 0, 0
	return out
}

func (r *ring) len() int {
	return r.size
}
