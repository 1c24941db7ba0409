// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package lualex

// NoMore is the sentinel byte value returned by [Cursor.Current] and
// [Cursor.Next] once the cursor has run past the end of the source.
// No character-class predicate matches it, so scanning loops terminate
// at end of input without a separate check. Callers that must tell a
// literal NUL byte in the source apart from end of input consult
// [Cursor.Done] first.
const NoMore = 0

// A Cursor is an immutable-source, mutable-position scanner over a byte
// string. It supports the three primitives the literal grammar's
// recursive descent needs: peeking the current and next byte, advancing
// past the current byte, and saving/restoring an index for speculative
// (backtracking) parses.
type Cursor struct {
	src []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of src.
func NewCursor(src []byte) *Cursor {
	return &Cursor{src: src}
}

// Current returns the byte at the cursor's position, or [NoMore] if the
// cursor has run past the end of the source.
func (c *Cursor) Current() byte {
	if c.pos >= len(c.src) {
		return NoMore
	}
	return c.src[c.pos]
}

// Next returns the byte immediately after the cursor's position, or
// [NoMore] if there is no such byte.
func (c *Cursor) Next() byte {
	if c.pos+1 >= len(c.src) {
		return NoMore
	}
	return c.src[c.pos+1]
}

// Advance moves the cursor forward one byte. Advancing past the end of the
// source is a no-op.
func (c *Cursor) Advance() {
	if c.pos < len(c.src) {
		c.pos++
	}
}

// Done reports whether the cursor has run past the end of the source.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.src)
}

// Pos returns the cursor's current byte offset into the source.
func (c *Cursor) Pos() int {
	return c.pos
}

// Save returns an index that can later be passed to [Cursor.Reset] to
// rewind the cursor to its current position.
func (c *Cursor) Save() int {
	return c.pos
}

// Reset rewinds the cursor to an index previously returned by
// [Cursor.Save].
func (c *Cursor) Reset(mark int) {
	c.pos = mark
}

// Byte returns the raw byte at index i in the source, without moving the
// cursor. It is used to extract source text, such as a scanned word.
func (c *Cursor) Byte(i int) byte {
	if i < 0 || i >= len(c.src) {
		return NoMore
	}
	return c.src[i]
}

// Len returns the number of bytes in the source.
func (c *Cursor) Len() int {
	return len(c.src)
}

// IsSpace reports whether b is a Lua whitespace character
// (space, tab, newline, carriage return, form feed, vertical tab).
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// IsDigit reports whether b is a decimal digit.
func IsDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// IsHexDigit reports whether b is a hexadecimal digit.
func IsHexDigit(b byte) bool {
	return IsDigit(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

// IsLetter reports whether b can start or continue a Lua identifier
// (excluding the leading/continuing underscore, which callers check for
// separately).
func IsLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// IsNewline reports whether b is a line terminator byte (LF or CR).
func IsNewline(b byte) bool {
	return b == '\n' || b == '\r'
}

var keywords = map[string]bool{
	"and":      true,
	"break":    true,
	"do":       true,
	"else":     true,
	"elseif":   true,
	"end":      true,
	"false":    true,
	"for":      true,
	"function": true,
	"goto":     true,
	"if":       true,
	"in":       true,
	"local":    true,
	"nil":      true,
	"not":      true,
	"or":       true,
	"repeat":   true,
	"return":   true,
	"then":     true,
	"true":     true,
	"until":    true,
	"while":    true,
}

// IsKeyword reports whether word is one of Lua 5.2's reserved words,
// which cannot be used as a bare table field name.
func IsKeyword(word string) bool {
	return keywords[word]
}

// HexDigitValue returns the numeric value of a hexadecimal digit byte.
// ok is false if b is not a hex digit.
func HexDigitValue(b byte) (v int, ok bool) {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0'), true
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 0xa, true
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 0xa, true
	default:
		return 0, false
	}
}
