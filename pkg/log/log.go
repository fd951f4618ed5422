// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Level specifies the severity of an event and the verbosity threshold of
// a logger. Levels are ordered from the most severe to the most verbose;
// LevelOff silences a logger and is never the level of an event.
type Level int32

const (
	// LevelOff disables all logging.
	LevelOff Level = iota
	// LevelFatal is for errors that terminate the application.
	LevelFatal
	// LevelError is for errors the application can recover from.
	LevelError
	// LevelWarn is for unexpected but harmless conditions.
	LevelWarn
	// LevelInfo is for regular operational messages.
	LevelInfo
	// LevelDebug is for diagnostic messages.
	LevelDebug
	// LevelTrack is for analytics-class events. It sits between debug and
	// trace so that tracking can be enabled without full trace verbosity.
	LevelTrack
	// LevelTrace is the most verbose level.
	LevelTrace

	numLevels = int(LevelTrace) + 1
)

var levelNames = [numLevels]string{
	LevelOff:   "off",
	LevelFatal: "fatal",
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
	LevelTrack: "track",
	LevelTrace: "trace",
}

// levelLabels holds the upper-case names padded to the longest level name.
var levelLabels = func() (labels [numLevels]string) {
	width := 0
	for _, n := range levelNames {
		if len(n) > width {
			width = len(n)
		}
	}
	for i, n := range levelNames {
		labels[i] = fmt.Sprintf("%-*s", width, strings.ToUpper(n))
	}
	return labels
}()

// Levels returns all levels an event can be emitted at,
// from the most severe to the most verbose.
func Levels() []Level {
	return []Level{LevelFatal, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrack, LevelTrace}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelOff && l <= LevelTrace
}

// String implements the fmt.Stringer interface.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int32(l))
	}
	return levelNames[l]
}

// Label returns the upper-case level name padded to a fixed width.
func (l Level) Label() string {
	if !l.Valid() {
		return strings.ToUpper(l.String())
	}
	return levelLabels[l]
}

// AtLeastAsSevereAs reports whether l is at least as severe as o.
// LevelOff is not comparable and always yields false.
func (l Level) AtLeastAsSevereAs(o Level) bool {
	if l == LevelOff || o == LevelOff || !l.Valid() || !o.Valid() {
		return false
	}
	return l <= o
}

// Enables reports whether a logger with threshold l emits events of the
// given level.
func (l Level) Enables(event Level) bool {
	return event.AtLeastAsSevereAs(l)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("log: invalid level %d", int32(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLevel returns the Level named by s. The match is case-insensitive
// and "warning" is accepted as an alias of "warn".
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("log: unknown level %q", s)
}

// LevelSet is a set of levels.
type LevelSet uint16

// AllLevels contains every level an event can be emitted at.
var AllLevels = NewLevelSet(Levels()...)

// NewLevelSet returns a set containing the given levels.
// LevelOff and invalid levels are ignored.
func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		s = s.With(l)
	}
	return s
}

// Has reports whether l is in the set.
func (s LevelSet) Has(l Level) bool {
	return l.Valid() && s&(1<<uint(l)) != 0
}

// With returns a copy of the set with l added.
func (s LevelSet) With(l Level) LevelSet {
	if l == LevelOff || !l.Valid() {
		return s
	}
	return s | 1<<uint(l)
}

// Levels returns the members of the set from the most severe to the most verbose.
func (s LevelSet) Levels() []Level {
	var out []Level
	for _, l := range Levels() {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// ParseLevelSet parses a list of level names into a set.
func ParseLevelSet(names []string) (LevelSet, error) {
	var s LevelSet
	for _, n := range names {
		l, err := ParseLevel(n)
		if err != nil {
			return 0, err
		}
		s = s.With(l)
	}
	return s, nil
}

// Lock wraps io.Writer in a mutex to make it safe for concurrent use.
// In particular, *os.Files must be locked before use.
func Lock(w io.Writer) io.Writer {
	if _, ok := w.(*lockWriter); ok {
		return w // No need to layer on another lock.
	}
	return &lockWriter{w: w}
}

// lockWriter attaches mutex to io.Writer for convince of usage.
type lockWriter struct {
	sync.Mutex
	w io.Writer
}

// Write implements the io.Writer interface.
func (ls *lockWriter) Write(bs []byte) (int, error) {
	ls.Lock()
	n, err := ls.w.Write(bs)
	ls.Unlock()
	return n, err
}
