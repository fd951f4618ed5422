// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package formatter renders log events into output tokens using
// brace-delimited templates.
package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/pathval"
)

// Special tokens.
const (
	TokenLevel     = "LEVEL"
	TokenTimestamp = log.FieldTimestamp
	TokenData      = log.FieldData
)

var tokenRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Segment is either a literal run of text or a token reference.
type Segment struct {
	Literal string
	Token   string
	path    pathval.Path
}

// IsToken reports whether the segment references a token.
func (s Segment) IsToken() bool { return s.Token != "" }

// Template is a parsed, immutable output format.
type Template struct {
	lines [][]Segment
}

// RenderOptions controls how special tokens are rendered.
type RenderOptions struct {
	TimestampFormat string
	Color           bool
}

var templateCache = mustCache(256)

// Parse parses each line into literal and token segments.
// Parsed templates are cached by their source.
func Parse(lines ...string) *Template {
	key := fmt.Sprintf("%q", lines)
	if v, ok := templateCache.Get(key); ok {
		return v.(*Template)
	}

	t := &Template{lines: make([][]Segment, len(lines))}
	for i, line := range lines {
		t.lines[i] = parseLine(line)
	}
	templateCache.Add(key, t)
	return t
}

func parseLine(line string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Literal: line[last:m[0]]})
		}
		token := line[m[2]:m[3]]
		segs = append(segs, Segment{Token: token, path: pathval.ParsePath(token)})
		last = m[1]
	}
	if last < len(line) {
		segs = append(segs, Segment{Literal: line[last:]})
	}
	return segs
}

// Lines returns the parsed segments of every line.
func (t *Template) Lines() [][]Segment {
	return t.lines
}

// Render renders the event into an output sequence with one element per
// line. A line made of a single token contributes the native value of the
// token, except for the data token whose values are spliced into the
// output. Any other line contributes one string.
func (t *Template) Render(e log.Event, opts RenderOptions) []interface{} {
	fields := e.Fields()
	out := make([]interface{}, 0, len(t.lines))
	for _, segs := range t.lines {
		if len(segs) == 1 && segs[0].IsToken() {
			if segs[0].Token == TokenData {
				out = append(out, e.Data()...)
				continue
			}
			out = append(out, resolve(segs[0], e, fields, opts))
			continue
		}

		var b strings.Builder
		for _, s := range segs {
			if !s.IsToken() {
				b.WriteString(s.Literal)
				continue
			}
			b.WriteString(Stringify(resolve(s, e, fields, opts)))
		}
		out = append(out, b.String())
	}
	return out
}

func resolve(s Segment, e log.Event, fields map[string]interface{}, opts RenderOptions) interface{} {
	switch s.Token {
	case TokenLevel:
		return Level(e.Level(), opts.Color)
	case TokenTimestamp:
		return FormatTimestamp(e.Time(), opts.TimestampFormat)
	}
	v := s.path.Resolve(fields)
	if pathval.IsUndefined(v) {
		return ""
	}
	return v
}

const colorReset = "\x1b[0m"

var levelColors = map[log.Level]string{
	log.LevelFatal: "\x1b[1;31m",
	log.LevelError: "\x1b[31m",
	log.LevelWarn:  "\x1b[33m",
	log.LevelInfo:  "\x1b[32m",
	log.LevelDebug: "\x1b[36m",
	log.LevelTrack: "\x1b[35m",
	log.LevelTrace: "\x1b[90m",
}

// Level returns the fixed-width label of l, wrapped in ANSI
// colour codes when color is set.
func Level(l log.Level, color bool) string {
	label := l.Label()
	if c, ok := levelColors[l]; ok && color {
		return c + label + colorReset
	}
	return label
}

// Stringify converts a resolved token value into its textual form.
// Composite values are rendered as JSON.
func Stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// DefaultLayout renders the event as timestamp, level label, logger name,
// message, the data values and, when not empty, the context as JSON.
func DefaultLayout(e log.Event, opts RenderOptions) []interface{} {
	out := make([]interface{}, 0, 5+len(e.Data()))
	out = append(out,
		FormatTimestamp(e.Time(), opts.TimestampFormat),
		Level(e.Level(), opts.Color),
		e.Logger(),
		e.Message(),
	)
	out = append(out, e.Data()...)
	if ctx := e.Context(); len(ctx) > 0 {
		out = append(out, Stringify(map[string]interface{}(ctx)))
	}
	return out
}
