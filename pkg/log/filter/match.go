// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"sort"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/pathval"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

var _ log.Filter = (*Match)(nil)

// rule expects the value at path to deeply equal want.
type rule struct {
	path pathval.Path
	want interface{}
}

func (r rule) matches(fields map[string]interface{}) bool {
	return pathval.Equal(r.path.Resolve(fields), r.want)
}

func compileRules(m map[string]interface{}) []rule {
	rules := make([]rule, 0, len(m))
	for p, want := range m {
		rules = append(rules, rule{path: pathval.ParsePath(p), want: want})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].path.String() < rules[j].path.String() })
	return rules
}

// Match accepts events by comparing event fields against expected values.
// All allow rules must match, and an event matching any deny rule is
// rejected even when it passes the allow rules. Empty rule sets impose
// no constraint.
type Match struct {
	base
	allow []rule
	deny  []rule
}

// NewMatch returns an uninitialized match filter.
func NewMatch() *Match {
	return &Match{base: newBase(MatchName)}
}

// Init implements the log.Filter interface.
func (f *Match) Init(cfg log.FilterConfig) error {
	f.allow = compileRules(cfg.Allow)
	f.deny = compileRules(cfg.Deny)
	return nil
}

// Filter implements the log.Filter interface.
// Any failure while evaluating the rules rejects the event.
func (f *Match) Filter(e log.Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	fields := e.Fields()
	for _, r := range f.allow {
		if !r.matches(fields) {
			return false
		}
	}
	for _, r := range f.deny {
		if r.matches(fields) {
			return false
		}
	}
	return true
}

// NewMatchFactory returns the factory of the match filter.
func NewMatchFactory() plugin.Factory {
	return plugin.NewFactory(descriptor(MatchName), func(plugin.Config) (plugin.Plugin, error) {
		return NewMatch(), nil
	})
}
