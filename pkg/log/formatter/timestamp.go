// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formatter

import (
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Preset timestamp formats.
const (
	TimestampISO    = "iso"
	TimestampLocale = "locale"

	// DefaultTimestampFormat is used when no format is configured.
	DefaultTimestampFormat = "hh:mm:ss.SSS"
)

const (
	isoLayout    = "2006-01-02T15:04:05.000Z"
	localeLayout = "01/02/2006, 15:04:05"
)

// placeholders are ordered longest first so that a longer token
// is never matched as a repetition of a shorter one.
var placeholders = []string{"yyyy", "SSS", "yy", "MM", "dd", "hh", "mm", "ss", "SS", "S"}

// pattern is a compiled custom timestamp pattern.
// Even elements are literals, odd elements are placeholders.
type pattern []string

var patternCache = mustCache(256)

func mustCache(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return c
}

func compilePattern(format string) pattern {
	if v, ok := patternCache.Get(format); ok {
		return v.(pattern)
	}

	var (
		p   pattern
		lit strings.Builder
	)
	for i := 0; i < len(format); {
		token := ""
		for _, ph := range placeholders {
			if strings.HasPrefix(format[i:], ph) {
				token = ph
				break
			}
		}
		if token == "" {
			lit.WriteByte(format[i])
			i++
			continue
		}
		p = append(p, lit.String(), token)
		lit.Reset()
		i += len(token)
	}
	p = append(p, lit.String())

	patternCache.Add(format, p)
	return p
}

// FormatTimestamp renders t according to format, which is either one of
// the presets "iso" (UTC, millisecond precision) and "locale", or a custom
// pattern built from yyyy, yy, MM, dd, hh (24h), mm, ss, SSS, SS and S.
// Every placeholder is zero-padded to its width; SS and S are the leading
// digits of the milliseconds. An empty format selects DefaultTimestampFormat.
func FormatTimestamp(t time.Time, format string) string {
	switch format {
	case "":
		format = DefaultTimestampFormat
	case TimestampISO:
		return t.UTC().Format(isoLayout)
	case TimestampLocale:
		return t.Local().Format(localeLayout)
	}

	p := compilePattern(format)
	var b strings.Builder
	for i, s := range p {
		if i%2 == 0 {
			b.WriteString(s)
			continue
		}
		b.WriteString(placeholder(t, s))
	}
	return b.String()
}

func placeholder(t time.Time, token string) string {
	ms := t.Nanosecond() / int(time.Millisecond)
	switch token {
	case "yyyy":
		return pad(t.Year(), 4)
	case "yy":
		return pad(t.Year()%100, 2)
	case "MM":
		return pad(int(t.Month()), 2)
	case "dd":
		return pad(t.Day(), 2)
	case "hh":
		return pad(t.Hour(), 2)
	case "mm":
		return pad(t.Minute(), 2)
	case "ss":
		return pad(t.Second(), 2)
	case "SSS":
		return pad(ms, 3)
	case "SS":
		return pad(ms/10, 2)
	case "S":
		return pad(ms/100, 1)
	}
	return token
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
