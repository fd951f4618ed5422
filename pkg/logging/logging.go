// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging wires the built-in plugins into a pipeline and provides
// the conventional process-wide instance for programs that do not manage
// their own *log.Pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/appender"
	"github.com/ncoderz/log-m8-sub000/pkg/log/filter"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/spf13/afero"
)

// Builtins returns the factories of all built-in plugins.
func Builtins() []plugin.Factory {
	return BuiltinsFor(os.Stdout, os.Stderr, afero.NewOsFs())
}

// BuiltinsFor returns the factories of all built-in plugins with the
// appenders writing to the given streams and opening files on fs.
func BuiltinsFor(stdout, stderr io.Writer, fs afero.Fs) []plugin.Factory {
	factories := appender.FactoriesFor(stdout, stderr, fs)
	factories = append(factories, formatter.NewDefaultFactory(), formatter.NewJSONFactory())
	factories = append(factories, filter.Factories()...)
	return factories
}

// Register registers the given factories with the pipeline. All
// registration failures are returned together.
func Register(p *log.Pipeline, factories ...plugin.Factory) error {
	var result *multierror.Error
	for _, f := range factories {
		if err := p.Register(f); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// New returns a pipeline with all built-in plugins registered.
func New(opts ...log.Option) (*log.Pipeline, error) {
	p := log.New(opts...)
	if err := Register(p, Builtins()...); err != nil {
		return nil, err
	}
	return p, nil
}

var (
	defaultOnce     sync.Once
	defaultPipeline *log.Pipeline
)

// Default returns the process-wide pipeline. It is created on first use
// with the built-in plugins registered, and buffers events until Init is
// called on it.
func Default() *log.Pipeline {
	defaultOnce.Do(func() {
		p := log.New()
		if err := Register(p, Builtins()...); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		defaultPipeline = p
	})
	return defaultPipeline
}

// Init initializes the process-wide pipeline. The built-in plugins are
// registered again if a Dispose has cleared them.
func Init(cfg log.Config) error {
	p := Default()
	if len(p.Registry().Factories()) == 0 {
		if err := Register(p, Builtins()...); err != nil {
			return err
		}
	}
	return p.Init(cfg)
}

// Logger returns the logger with the given name from the
// process-wide pipeline.
func Logger(name string) *log.Logger {
	return Default().Logger(name)
}
