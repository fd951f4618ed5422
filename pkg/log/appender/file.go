// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package appender

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrick/logrotate/rotator"
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/log/formatter"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/spf13/afero"
)

var _ log.Appender = (*File)(nil)

// ErrMissingFilename is returned by Init when no file name is configured.
var ErrMissingFilename = errors.New("file appender: missing filename option")

// File writes one line per event to a file. Output is buffered
// until Flush or Dispose.
//
// Options: "filename" (required), "append" (bool, default true),
// "maxSizeKB" (int; when positive the file is rotated on the OS file
// system once it grows beyond the size, keeping "maxRolls" gzipped
// rolls, default 3).
type File struct {
	Base
	fs afero.Fs

	mu  sync.Mutex
	out io.WriteCloser
	buf *bufio.Writer
}

// NewFile returns a file appender that opens its file on fs.
func NewFile(fs afero.Fs) *File {
	return &File{fs: fs}
}

// Init implements the log.Appender interface.
func (a *File) Init(cfg log.AppenderConfig, f log.Formatter, filters []log.Filter) error {
	opts := cfg.Options
	filename, err := opts.String("filename", "")
	if err != nil {
		return err
	}
	if filename == "" {
		return ErrMissingFilename
	}
	appendMode, err := opts.Bool("append", true)
	if err != nil {
		return err
	}
	maxSizeKB, err := opts.Int("maxSizeKB", 0)
	if err != nil {
		return err
	}
	maxRolls, err := opts.Int("maxRolls", 3)
	if err != nil {
		return err
	}

	if err := a.Setup(FileName, cfg, f, filters, log.FormatterConfig{
		Name:            formatter.DefaultName,
		TimestampFormat: formatter.TimestampISO,
	}); err != nil {
		return err
	}

	if maxSizeKB > 0 {
		if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
			return fmt.Errorf("file appender: %w", err)
		}
		r, err := rotator.New(filename, int64(maxSizeKB), false, maxRolls)
		if err != nil {
			return fmt.Errorf("file appender: create rotator: %w", err)
		}
		a.setOutput(r)
		return nil
	}

	if err := a.fs.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("file appender: %w", err)
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !appendMode {
		flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	out, err := a.fs.OpenFile(filename, flag, 0644)
	if err != nil {
		return fmt.Errorf("file appender: %w", err)
	}
	a.setOutput(out)
	return nil
}

func (a *File) setOutput(out io.WriteCloser) {
	a.mu.Lock()
	a.out = out
	a.buf = bufio.NewWriter(out)
	a.mu.Unlock()
}

// Write implements the log.Appender interface.
func (a *File) Write(e log.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil {
		return os.ErrClosed
	}
	return a.WriteLine(a.buf, e)
}

// Flush implements the log.Appender interface.
func (a *File) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil {
		return nil
	}
	return a.buf.Flush()
}

// Dispose implements the plugin.Plugin interface.
// Buffered output is flushed and the file is closed.
func (a *File) Dispose() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.out == nil {
		return nil
	}
	ferr := a.buf.Flush()
	cerr := a.out.Close()
	a.out, a.buf = nil, nil
	if ferr != nil {
		return ferr
	}
	return cerr
}

// NewFileFactory returns the factory of file appenders that
// open their files on fs.
func NewFileFactory(fs afero.Fs) plugin.Factory {
	return plugin.NewFactory(descriptor(FileName), func(plugin.Config) (plugin.Plugin, error) {
		return NewFile(fs), nil
	})
}
