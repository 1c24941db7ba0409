// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package luatable

import "fmt"

// SyntaxError reports a decoder failure: the source text was not a
// single complete Lua literal expression. All decoder failures surface
// as this one kind, distinguished only by Reason, whose message names
// the sublanguage that rejected the input ("bad number", "bad string",
// "bad long string", "bad table", "bad word", "bad expression", "bad
// long comment").
type SyntaxError struct {
	Pos    int // byte offset into the source where the error was detected
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("luatable: syntax error at byte %d: %s", e.Pos, e.Reason)
}

// KeyOrValue distinguishes whether an [UnsupportedTypeError] was raised
// by an encoder's map key or its associated value.
type KeyOrValue byte

const (
	// AsValue marks an [UnsupportedTypeError] raised while encoding a
	// plain value (a Sequence element, a Map value, or the top-level
	// argument to [Encode]).
	AsValue KeyOrValue = iota
	// AsKey marks an [UnsupportedTypeError] raised while encoding a Map
	// key.
	AsKey
)

func (kv KeyOrValue) String() string {
	if kv == AsKey {
		return "key"
	}
	return "value"
}

// UnsupportedTypeError reports an encoder failure: a [Value] (or a Map
// key within one) was not one of the six variants ([Kind]) the value
// model supports — or, for a key specifically, was not [KindNumber] or
// [KindString].
type UnsupportedTypeError struct {
	As   KeyOrValue
	Kind Kind
}

func (e *UnsupportedTypeError) Error() string {
	if e.As == AsKey {
		return fmt.Sprintf("luatable: unsupported map key type %s", e.Kind)
	}
	return fmt.Sprintf("luatable: unsupported value type %s", e.Kind)
}
