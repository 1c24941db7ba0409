// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

// Package luatable decodes and encodes Lua 5.2 table-constructor literal
// expressions as a small language-neutral value tree. It recognizes the
// literal subset of Lua's grammar — nil, booleans, numbers, strings, and
// table constructors — and performs none of Lua's actual execution:
// no variables, no arithmetic, no function calls, no statements.
//
// [Decode] parses Lua source text into a [Value]; [Encode] walks a
// [Value] back into Lua source text that [Decode] accepts and that
// reconstructs an equivalent value.
package luatable

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies which variant a [Value] holds.
type Kind byte

// The six variants of the value model.
const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMap
)

// String returns a human-readable name for k, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Value is a tagged union holding exactly one of the six kinds in the
// value model: [KindNil], [KindBool], [KindNumber], [KindString],
// [KindSequence], or [KindMap]. The zero Value is nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	seq  []Value
	m    *Map
}

// Nil is the nil value.
var Nil = Value{kind: KindNil}

// Bool converts a boolean to a [Value].
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number converts a float64 to a [Value]. The value model makes no
// distinction between integer and float numbers.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// String converts a byte string to a [Value]. Strings need not be valid
// UTF-8; escape sequences in source text may introduce bytes ≥ 0x80.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Sequence converts an ordered list of values to a [Value]. The slice is
// retained, not copied; callers should not mutate it afterward.
func Sequence(elems []Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// MapValue converts a [Map] to a [Value].
func MapValue(m *Map) Value {
	return Value{kind: KindMap, m: m}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// Bool returns v's boolean payload. It panics if v is not [KindBool].
func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic("luatable: Bool called on non-bool Value")
	}
	return v.b
}

// Number returns v's numeric payload. It panics if v is not [KindNumber].
func (v Value) Number() float64 {
	if v.kind != KindNumber {
		panic("luatable: Number called on non-number Value")
	}
	return v.n
}

// String returns v's string payload if v is [KindString]. For every
// other kind it returns v rendered as a Lua constant (the same text
// [Encode] would produce), so formatting a Value with %v is always
// meaningful.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	var sb strings.Builder
	if err := generate(&sb, v, AsValue); err != nil {
		return fmt.Sprintf("<invalid %v>", v.kind)
	}
	return sb.String()
}

// Sequence returns v's element slice. It panics if v is not
// [KindSequence]. The returned slice aliases v's internal storage and
// should be treated as read-only.
func (v Value) Sequence() []Value {
	if v.kind != KindSequence {
		panic("luatable: Sequence called on non-sequence Value")
	}
	return v.seq
}

// Map returns v's map payload. It panics if v is not [KindMap].
func (v Value) Map() *Map {
	if v.kind != KindMap {
		panic("luatable: Map called on non-map Value")
	}
	return v.m
}

// Equal reports whether v and other represent the same value, recursing
// into Sequence elements and Map entries. Two numbers compare equal by
// ordinary float64 equality (so NaN is never equal to anything,
// including itself, matching IEEE 754 semantics).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindSequence:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(other.m)
	default:
		return false
	}
}

// mapKey is the normalized, comparable form of a Map key: Numbers and
// Strings only, per the value model's key-kind invariant.
type mapKey struct {
	isString bool
	n        float64
	s        string
}

func keyFor(v Value) (mapKey, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.n) {
			return mapKey{}, false
		}
		return mapKey{n: v.n}, true
	case KindString:
		return mapKey{isString: true, s: v.s}, true
	default:
		return mapKey{}, false
	}
}

// entry is one key/value pair of a [Map], kept in insertion order.
type entry struct {
	key   Value
	value Value
}

// Map is an insertion-ordered mapping whose keys are restricted to
// [KindNumber] and [KindString] values. Unlike a Lua table, a Map never
// stores a Nil value; setting a key to Nil deletes it.
//
// The zero Map is not usable; construct one with [NewMap].
type Map struct {
	entries []entry
	index   map[mapKey]int // maps key -> index into entries, or absent if deleted
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[mapKey]int)}
}

// Len returns the number of entries in m.
func (m *Map) Len() int {
	return len(m.entries)
}

// Set stores value under key, overwriting any existing entry for an
// equal key. Setting value to Nil removes key from the map instead. Set
// panics if key is not [KindNumber] or [KindString].
func (m *Map) Set(key, value Value) {
	k, ok := keyFor(key)
	if !ok {
		panic("luatable: Map key must be a number or a string")
	}
	if value.IsNil() {
		if i, found := m.index[k]; found {
			m.removeAt(i)
		}
		return
	}
	if i, found := m.index[k]; found {
		m.entries[i].value = value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})
}

func (m *Map) removeAt(i int) {
	delete(m.index, mustKeyFor(m.entries[i].key))
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	for j := i; j < len(m.entries); j++ {
		m.index[mustKeyFor(m.entries[j].key)] = j
	}
}

func mustKeyFor(v Value) mapKey {
	k, ok := keyFor(v)
	if !ok {
		panic("luatable: internal invariant violated: non-key Value stored as Map key")
	}
	return k
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key Value) (Value, bool) {
	k, ok := keyFor(key)
	if !ok {
		return Value{}, false
	}
	i, found := m.index[k]
	if !found {
		return Value{}, false
	}
	return m.entries[i].value, true
}

// Range calls f for each entry in m in insertion order. Range stops
// early if f returns false.
func (m *Map) Range(f func(key, value Value) bool) {
	for _, e := range m.entries {
		if !f(e.key, e.value) {
			return
		}
	}
}

// Equal reports whether m and other hold the same set of key/value
// pairs, independent of insertion order (the value model explicitly
// does not require insertion order to be observable across a round
// trip).
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.Range(func(key, value Value) bool {
		ov, ok := other.Get(key)
		if !ok || !value.Equal(ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
