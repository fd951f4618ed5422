// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathval

import (
	"math"
	"reflect"
	"time"
)

// MaxDepth bounds the nesting level Equal descends into.
// Values nested deeper than MaxDepth compare unequal.
const MaxDepth = 64

var timeType = reflect.TypeOf(time.Time{})

// visit identifies a pair of reference values being compared.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// Equal reports whether a and b are deeply equal:
//   - numbers compare by value across all Go numeric kinds, NaN equals NaN;
//   - strings and booleans compare by value;
//   - time.Time values compare by instant;
//   - slices and arrays compare by length, then element-wise;
//   - maps compare by key set, then value-wise;
//   - anything else compares by identity (pointer identity or ==).
//
// Cyclic values and values nested deeper than MaxDepth compare unequal.
// Equal never panics.
func Equal(a, b interface{}) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = false
		}
	}()
	return equal(reflect.ValueOf(a), reflect.ValueOf(b), make(map[visit]struct{}), 0)
}

func equal(a, b reflect.Value, visiting map[visit]struct{}, depth int) bool {
	if depth > MaxDepth {
		return false
	}

	a, b = indirect(a), indirect(b)
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	if na, ok := number(a); ok {
		nb, ok := number(b)
		return ok && na.equal(nb)
	}

	ka, kb := a.Kind(), b.Kind()
	switch {
	case ka == reflect.String && kb == reflect.String:
		return a.String() == b.String()
	case ka == reflect.Bool && kb == reflect.Bool:
		return a.Bool() == b.Bool()
	case a.Type() == timeType && b.Type() == timeType:
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	case isList(ka) && isList(kb):
		return equalList(a, b, visiting, depth)
	case ka == reflect.Map && kb == reflect.Map:
		return equalMap(a, b, visiting, depth)
	}
	return identical(a, b)
}

// indirect unwraps interfaces; nil interfaces become the invalid value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isList(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}

// enter records the comparison of two reference values and reports
// whether the same pair is already being compared higher up the stack.
func enter(a, b reflect.Value, visiting map[visit]struct{}) (visit, bool) {
	if a.Kind() == reflect.Array || b.Kind() == reflect.Array {
		return visit{}, false
	}
	v := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
	if v.a == 0 || v.b == 0 {
		return visit{}, false
	}
	if _, ok := visiting[v]; ok {
		return v, true
	}
	visiting[v] = struct{}{}
	return v, false
}

func equalList(a, b reflect.Value, visiting map[visit]struct{}, depth int) bool {
	if a.Len() != b.Len() {
		return false
	}
	v, cyclic := enter(a, b, visiting)
	if cyclic {
		return false
	}
	defer delete(visiting, v)

	for i := 0; i < a.Len(); i++ {
		if !equal(a.Index(i), b.Index(i), visiting, depth+1) {
			return false
		}
	}
	return true
}

func equalMap(a, b reflect.Value, visiting map[visit]struct{}, depth int) bool {
	if a.Len() != b.Len() {
		return false
	}
	v, cyclic := enter(a, b, visiting)
	if cyclic {
		return false
	}
	defer delete(visiting, v)

	bt := b.Type().Key()
	iter := a.MapRange()
	for iter.Next() {
		k := iter.Key()
		if !k.Type().AssignableTo(bt) {
			if !k.Type().ConvertibleTo(bt) {
				return false
			}
			k = k.Convert(bt)
		}
		bv := b.MapIndex(k)
		if !bv.IsValid() {
			return false
		}
		if !equal(iter.Value(), bv, visiting, depth+1) {
			return false
		}
	}
	return true
}

// identical is the fallback comparison: pointer identity for reference
// kinds and == for comparable values of the same type.
func identical(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if a.Kind() == reflect.Func {
			return a.IsNil() && b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	}
	if !a.Type().Comparable() || !a.CanInterface() || !b.CanInterface() {
		return false
	}
	return a.Interface() == b.Interface()
}

// num is a numeric value normalized for cross-kind comparison.
type num struct {
	kind byte // 'i', 'u' or 'f'
	i    int64
	u    uint64
	f    float64
}

func number(v reflect.Value) (num, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return num{kind: 'i', i: v.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return num{kind: 'u', u: v.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return num{kind: 'f', f: v.Float()}, true
	}
	return num{}, false
}

func (n num) equal(o num) bool {
	switch {
	case n.kind == 'f' || o.kind == 'f':
		x, y := n.float(), o.float()
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	case n.kind == o.kind:
		return n.i == o.i && n.u == o.u
	case n.kind == 'i': // o is unsigned
		return n.i >= 0 && uint64(n.i) == o.u
	default: // n is unsigned, o is signed
		return o.i >= 0 && uint64(o.i) == n.u
	}
}

func (n num) float() float64 {
	switch n.kind {
	case 'i':
		return float64(n.i)
	case 'u':
		return float64(n.u)
	}
	return n.f
}
