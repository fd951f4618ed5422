// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pathval resolves dot/bracket paths such as `data[0].items[2].id`
// against arbitrary structured values and compares the resolved values
// for deep equality.
//
// Resolution walks maps with string (or integer) keys, slices and arrays
// (numeric segments), exported struct fields (by field name or json tag)
// and dereferences pointers and interfaces on the way. Resolution never
// panics; a missing segment yields the Undefined sentinel.
package pathval

import (
	"reflect"
	"strconv"
	"strings"
)

type undefined struct{}

// String implements the fmt.Stringer interface.
func (undefined) String() string { return "undefined" }

// Undefined is returned by Resolve when the path cannot be resolved.
// It is distinct from a resolved nil value.
var Undefined interface{} = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v interface{}) bool {
	_, ok := v.(undefined)
	return ok
}

// Path is a parsed dot/bracket path.
type Path []string

// ParsePath splits s into its segments. Both `a.b[0]` and `a["b.c"]` forms
// are understood; quotes inside brackets are stripped and empty segments
// are skipped. An empty string yields an empty path which resolves to
// the root itself.
func ParsePath(s string) Path {
	var (
		segs []string
		cur  strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(s[i+1:], ']')
			if end < 0 {
				// Unterminated bracket, treat the remainder literally.
				cur.WriteString(s[i:])
				i = len(s)
				continue
			}
			seg := s[i+1 : i+1+end]
			if len(seg) >= 2 && (seg[0] == '"' || seg[0] == '\'') && seg[len(seg)-1] == seg[0] {
				seg = seg[1 : len(seg)-1]
			}
			if seg != "" {
				segs = append(segs, seg)
			}
			i += end + 1
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return segs
}

// String returns the dot form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup resolves the path against root and reports whether it was found.
func (p Path) Lookup(root interface{}) (v interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()

	v = root
	for _, seg := range p {
		if v, ok = step(v, seg); !ok {
			return nil, false
		}
	}
	return v, true
}

// Resolve resolves the path against root, returning Undefined
// if any segment is missing or root is not traversable.
func (p Path) Resolve(root interface{}) interface{} {
	if v, ok := p.Lookup(root); ok {
		return v
	}
	return Undefined
}

// Lookup parses path and resolves it against root.
func Lookup(root interface{}, path string) (interface{}, bool) {
	return ParsePath(path).Lookup(root)
}

// Resolve parses path and resolves it against root,
// returning Undefined if the path cannot be resolved.
func Resolve(root interface{}, path string) interface{} {
	return ParsePath(path).Resolve(root)
}

// step resolves a single segment against cur.
func step(cur interface{}, seg string) (interface{}, bool) {
	// Fast paths for the shapes produced by decoders and log events.
	switch v := cur.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		r, ok := v[seg]
		return r, ok
	case []interface{}:
		i, ok := index(seg)
		if !ok || i >= len(v) {
			return nil, false
		}
		return v[i], true
	case map[interface{}]interface{}:
		r, ok := v[seg]
		return r, ok
	}

	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		key, ok := mapKey(rv.Type().Key(), seg)
		if !ok {
			return nil, false
		}
		mv := rv.MapIndex(key)
		if !mv.IsValid() || !mv.CanInterface() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := index(seg)
		if !ok || i >= rv.Len() {
			return nil, false
		}
		ev := rv.Index(i)
		if !ev.CanInterface() {
			return nil, false
		}
		return ev.Interface(), true
	case reflect.Struct:
		return field(rv, seg)
	}
	return nil, false
}

// index parses seg as a canonical non-negative array index.
func index(seg string) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return i, true
}

func mapKey(kt reflect.Type, seg string) (reflect.Value, bool) {
	switch kt.Kind() {
	case reflect.String:
		return reflect.ValueOf(seg).Convert(kt), true
	case reflect.Interface:
		if reflect.TypeOf(seg).Implements(kt) {
			return reflect.ValueOf(seg), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(seg, 10, kt.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(kt), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(seg, 10, kt.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(kt), true
		}
	}
	return reflect.Value{}, false
}

// field looks up an exported struct field by name or by json tag name.
func field(rv reflect.Value, seg string) (interface{}, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if n := strings.Split(tag, ",")[0]; n != "" && n != "-" {
				name = n
			}
		}
		if name == seg || f.Name == seg {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
