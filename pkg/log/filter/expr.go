// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
)

var _ log.Filter = (*Expr)(nil)

// ErrMissingExpression is returned by Init when no expression is configured.
var ErrMissingExpression = errors.New("expr filter: missing expression option")

// Expr accepts events for which a boolean expression over the event
// fields holds, for example `level == "error" && context.user != "bot"`.
// An expression that fails at runtime or yields a non-boolean rejects
// the event.
type Expr struct {
	base
	source  string
	program *vm.Program
}

// NewExpr returns an uninitialized expression filter.
func NewExpr() *Expr {
	return &Expr{base: newBase(ExprName)}
}

// exprEnv is the compile-time shape of the event fields.
var exprEnv = log.NewEvent("", log.LevelInfo, "", nil, nil, time.Time{}).Fields()

// Init implements the log.Filter interface.
// Options: "expression" (string, required).
func (f *Expr) Init(cfg log.FilterConfig) error {
	source, err := cfg.Options.String("expression", "")
	if err != nil {
		return err
	}
	if source == "" {
		return ErrMissingExpression
	}
	program, err := expr.Compile(source, expr.Env(exprEnv), expr.AsBool())
	if err != nil {
		return fmt.Errorf("expr filter: compile %q: %w", source, err)
	}
	f.source = source
	f.program = program
	return nil
}

// Filter implements the log.Filter interface.
func (f *Expr) Filter(e log.Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	out, err := expr.Run(f.program, e.Fields())
	if err != nil {
		return false
	}
	ok, _ = out.(bool)
	return ok
}

// String returns the source of the expression.
func (f *Expr) String() string {
	return f.source
}

// NewExprFactory returns the factory of the expression filter.
func NewExprFactory() plugin.Factory {
	return plugin.NewFactory(descriptor(ExprName), func(plugin.Config) (plugin.Plugin, error) {
		return NewExpr(), nil
	})
}
