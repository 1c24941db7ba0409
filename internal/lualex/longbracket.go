// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package lualex

// OpenLongBracket attempts to consume a long-bracket opener
// `X=*X` (X is '[' for strings/comments) at the cursor's current
// position, where level is the number of '=' characters between the two
// X's. On success it consumes the opener and returns the level and true.
// On failure the cursor is left exactly where [Cursor.Save] would have
// found it before the call returned false: OpenLongBracket never partially
// consumes an opener it rejects.
func OpenLongBracket(c *Cursor, open byte) (level int, ok bool) {
	mark := c.Save()
	if c.Current() != open {
		return 0, false
	}
	c.Advance()
	n := 0
	for c.Current() == '=' {
		n++
		c.Advance()
	}
	if c.Current() != open {
		c.Reset(mark)
		return 0, false
	}
	c.Advance()
	return n, true
}

// PeekLongBracketOpener reports whether a long-bracket opener of any level
// begins at the cursor's current position, without consuming any input.
// It is used by the comment lexer, which must distinguish a long comment
// (`--[[ ... ]]`, `--[==[ ... ]==]`, ...) from a short comment without
// committing to either interpretation.
func PeekLongBracketOpener(c *Cursor, open byte) (level int, ok bool) {
	mark := c.Save()
	level, ok = OpenLongBracket(c, open)
	c.Reset(mark)
	return level, ok
}

// CloseLongBracket attempts to consume a long-bracket closer at the given
// level (`]=*]` for level '=' signs) at the cursor's current position. On
// mismatch the cursor is restored to where it was before the call.
func CloseLongBracket(c *Cursor, level int, close byte) bool {
	mark := c.Save()
	if c.Current() != close {
		return false
	}
	c.Advance()
	for i := 0; i < level; i++ {
		if c.Current() != '=' {
			c.Reset(mark)
			return false
		}
		c.Advance()
	}
	if c.Current() != close {
		c.Reset(mark)
		return false
	}
	c.Advance()
	return true
}

// LongStringWriter accumulates the body of a long-bracketed string or long
// comment, normalizing any embedded line terminator (LF, CR, LFCR, or
// CRLF) to a single '\n' byte using one byte of lookback.
type LongStringWriter struct {
	buf  []byte
	prev byte
}

// WriteByte appends b to the accumulated body, normalizing newlines.
func (w *LongStringWriter) WriteByte(b byte) {
	switch {
	case w.prev == '\r' && b == '\n', w.prev == '\n' && b == '\r':
		w.buf = append(w.buf, '\n')
		w.prev = 0
	case b == '\n' || b == '\r':
		if w.prev != 0 {
			w.buf = append(w.buf, '\n')
		}
		w.prev = b
	case w.prev != 0:
		w.buf = append(w.buf, '\n', b)
		w.prev = 0
	default:
		w.buf = append(w.buf, b)
	}
}

// Bytes returns the accumulated, normalized body.
func (w *LongStringWriter) Bytes() []byte {
	if w.prev != 0 {
		w.buf = append(w.buf, '\n')
		w.prev = 0
	}
	return w.buf
}

// SkipOneNewline consumes a single leading newline (LF, CR, CRLF, or LFCR)
// at the cursor's current position, if one is present. Lua drops exactly
// one newline immediately following a long-bracket opener.
func SkipOneNewline(c *Cursor) {
	first := c.Current()
	if !IsNewline(first) {
		return
	}
	c.Advance()
	second := c.Current()
	if IsNewline(second) && second != first {
		c.Advance()
	}
}

// ReadLongBracketBody reads bytes from c into a [LongStringWriter] until a
// closing long bracket of the given level is found, consuming the closer.
// A ']' that does not begin a valid closer at level is written through
// literally (including any partial run of '=' signs that turned out not
// to be followed by a second bracket). ok is false if the input ends
// before a closer is found.
func ReadLongBracketBody(c *Cursor, level int, open, close byte) (body []byte, ok bool) {
	var w LongStringWriter
	for {
		if c.Done() {
			return w.Bytes(), false
		}
		if c.Current() == close {
			if CloseLongBracket(c, level, close) {
				return w.Bytes(), true
			}
		}
		w.WriteByte(c.Current())
		c.Advance()
	}
}
