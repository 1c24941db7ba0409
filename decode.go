// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package luatable

import (
	"fmt"

	"github.com/tarmylan/luatable/internal/lualex"
)

// Decode parses source as a single Lua 5.2 literal expression — nil, a
// boolean, a number, a short or long string, or a table constructor —
// and returns the corresponding [Value]. It fails with a [*SyntaxError]
// if source is not exactly one such expression, optionally surrounded
// by whitespace and comments.
func Decode(source []byte) (Value, error) {
	p := &decoder{c: lualex.NewCursor(source)}
	if err := p.skipSpacesAndComments(); err != nil {
		return Value{}, err
	}
	v, err := p.parseExpression()
	if err != nil {
		return Value{}, err
	}
	if err := p.skipSpacesAndComments(); err != nil {
		return Value{}, err
	}
	if !p.c.Done() {
		return Value{}, p.errorf("bad expression: unexpected trailing input")
	}
	return v, nil
}

// maxNestingDepth bounds how deeply table constructors may nest, so a
// pathological input fails with a syntax error instead of exhausting the
// goroutine stack.
const maxNestingDepth = 1000

type decoder struct {
	c     *lualex.Cursor
	depth int
}

func (p *decoder) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.c.Pos(), Reason: fmt.Sprintf(format, args...)}
}

func isWordStart(b byte) bool {
	return lualex.IsLetter(b) || b == '_'
}

func isWordPart(b byte) bool {
	return isWordStart(b) || lualex.IsDigit(b)
}

func numberComing(c *lualex.Cursor) bool {
	if lualex.IsDigit(c.Current()) {
		return true
	}
	return c.Current() == '.' && lualex.IsDigit(c.Next())
}

func shortStringComing(c *lualex.Cursor) bool {
	return c.Current() == '"' || c.Current() == '\''
}

func longStringComing(c *lualex.Cursor) bool {
	return c.Current() == '[' && (c.Next() == '=' || c.Next() == '[')
}

func wordComing(c *lualex.Cursor) bool {
	return isWordStart(c.Current())
}

func tableComing(c *lualex.Cursor) bool {
	return c.Current() == '{'
}

func commentComing(c *lualex.Cursor) bool {
	return c.Current() == '-' && c.Next() == '-'
}

// skipSpacesAndComments runs to a fixed point, alternately consuming
// whitespace runs and comments. The only failure it can report is an
// unterminated long comment.
func (p *decoder) skipSpacesAndComments() error {
	for {
		advanced := false
		for lualex.IsSpace(p.c.Current()) {
			p.c.Advance()
			advanced = true
		}
		if commentComing(p.c) {
			p.c.Advance()
			p.c.Advance()
			if err := p.skipComment(); err != nil {
				return err
			}
			advanced = true
		}
		if !advanced {
			return nil
		}
	}
}

// skipComment consumes one comment body, having already consumed the
// leading "--". A long-bracket opener of any level makes it a long
// comment; otherwise it runs to end of line.
func (p *decoder) skipComment() error {
	if _, ok := lualex.PeekLongBracketOpener(p.c, '['); ok {
		level, _ := lualex.OpenLongBracket(p.c, '[')
		lualex.SkipOneNewline(p.c)
		_, ok := lualex.ReadLongBracketBody(p.c, level, '[', ']')
		if !ok {
			return p.errorf("bad long comment: unfinished long comment")
		}
		return nil
	}
	for !p.c.Done() && !lualex.IsNewline(p.c.Current()) {
		p.c.Advance()
	}
	return nil
}

// parseExpression dispatches on the current character to the literal
// sublanguage that can start with it. A leading '-' is handled here
// rather than in the number scanner so whitespace and comments may
// separate the sign from its numeral.
func (p *decoder) parseExpression() (Value, error) {
	switch {
	case wordComing(p.c):
		word := p.scanWord()
		switch word {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "nil":
			return Nil, nil
		default:
			return Value{}, p.errorf("bad expression: unexpected word %q", word)
		}
	case p.c.Current() == '-':
		p.c.Advance()
		if err := p.skipSpacesAndComments(); err != nil {
			return Value{}, err
		}
		if !numberComing(p.c) {
			return Value{}, p.errorf("bad expression: unexpected '-'")
		}
		n, err := p.parseNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(-n.Number()), nil
	case numberComing(p.c):
		return p.parseNumber()
	case shortStringComing(p.c):
		return p.parseShortString()
	case longStringComing(p.c):
		return p.parseLongString()
	case tableComing(p.c):
		return p.parseTable()
	default:
		return Value{}, p.errorf("bad expression: unexpected character")
	}
}

// scanWord consumes a run of letters, digits, and underscores starting
// at the cursor, which must already be positioned at a word-start byte.
func (p *decoder) scanWord() string {
	mark := p.c.Save()
	for isWordPart(p.c.Current()) {
		p.c.Advance()
	}
	return p.sourceSlice(mark, p.c.Pos())
}

func (p *decoder) sourceSlice(from, to int) string {
	b := make([]byte, 0, to-from)
	for i := from; i < to; i++ {
		b = append(b, p.c.Byte(i))
	}
	return string(b)
}

// parseNumber scans one non-negative numeral at the cursor.
func (p *decoder) parseNumber() (Value, error) {
	parts, ok, reason := lualex.ScanNumber(p.c)
	if !ok {
		return Value{}, p.errorf("bad number: %s", reason)
	}
	return Number(parts.Value()), nil
}

// parseShortString scans a quote-delimited string literal. The opening
// quote (single or double) is the closing delimiter; a literal newline
// in the body is an error, escapes are processed.
func (p *decoder) parseShortString() (Value, error) {
	delim := p.c.Current()
	p.c.Advance()
	var buf []byte
	for {
		if p.c.Done() {
			return Value{}, p.errorf("bad string: unfinished string")
		}
		switch p.c.Current() {
		case delim:
			p.c.Advance()
			return String(string(buf)), nil
		case '\\':
			p.c.Advance()
			decoded, err := lualex.ScanEscape(p.c)
			if err != nil {
				return Value{}, p.errorf("bad string: %s", err)
			}
			buf = append(buf, decoded...)
		default:
			if lualex.IsNewline(p.c.Current()) {
				return Value{}, p.errorf("bad string: unfinished string")
			}
			buf = append(buf, p.c.Current())
			p.c.Advance()
		}
	}
}

// parseLongString scans a long-bracketed string literal. Contents are
// not escape-processed; newlines are normalized and a newline directly
// after the opener is dropped.
func (p *decoder) parseLongString() (Value, error) {
	level, ok := lualex.OpenLongBracket(p.c, '[')
	if !ok {
		return Value{}, p.errorf("bad long string: invalid delimiter")
	}
	lualex.SkipOneNewline(p.c)
	body, ok := lualex.ReadLongBracketBody(p.c, level, '[', ']')
	if !ok {
		return Value{}, p.errorf("bad long string: unfinished long string")
	}
	return String(string(body)), nil
}

// parseTable scans a table constructor. Both record- and list-style
// fields write into one live [Map] accumulator as they are parsed, in
// source order, so that the last assignment to a given key wins whether
// that key arrived via an explicit `[key]=` field or via a list field's
// implicit positional index: positional entries and explicit numeric-key
// entries share the same keyspace.
func (p *decoder) parseTable() (Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNestingDepth {
		return Value{}, p.errorf("bad table: too many nested tables")
	}
	p.c.Advance() // consume '{'

	m := NewMap()
	rec, lst := 0, 0

	for {
		if err := p.skipSpacesAndComments(); err != nil {
			return Value{}, err
		}
		if p.c.Current() == '}' {
			p.c.Advance()
			break
		}
		if p.c.Done() {
			return Value{}, p.errorf("bad table: expected '}'")
		}

		if err := p.parseField(m, &lst, &rec); err != nil {
			return Value{}, err
		}

		if err := p.skipSpacesAndComments(); err != nil {
			return Value{}, err
		}
		switch {
		case p.c.Current() == '}':
			// deferred to next iteration
		case p.c.Current() == ',' || p.c.Current() == ';':
			p.c.Advance()
		case p.c.Done():
			return Value{}, p.errorf("bad table: expected '}'")
		default:
			return Value{}, p.errorf("bad table: unexpected character")
		}
	}

	if rec == 0 {
		seq := make([]Value, 0, lst)
		for i := 1; i <= lst; i++ {
			if v, ok := m.Get(Number(float64(i))); ok {
				seq = append(seq, v)
			}
		}
		return Sequence(seq), nil
	}
	return MapValue(m), nil
}

// parseField parses one table field and writes it into m. lst is the
// running list-field counter; rec counts record-style fields whose value
// was not Nil (used only to decide Sequence vs. Map at finalization).
func (p *decoder) parseField(m *Map, lst, rec *int) error {
	isRecord, isBracketKey, err := p.fieldIsRecord()
	if err != nil {
		return err
	}

	if isRecord {
		var key Value
		if isBracketKey {
			p.c.Advance() // consume '['
			if err := p.skipSpacesAndComments(); err != nil {
				return err
			}
			k, err := p.parseExpression()
			if err != nil {
				return err
			}
			if k.IsNil() {
				return p.errorf("bad table: table index is nil")
			}
			key = k
			if err := p.skipSpacesAndComments(); err != nil {
				return err
			}
			if p.c.Current() != ']' {
				return p.errorf("bad table: expected ']'")
			}
			p.c.Advance()
		} else {
			word := p.scanWord()
			if lualex.IsKeyword(word) {
				return p.errorf("bad word: keyword %q not allowed as table key", word)
			}
			key = String(word)
		}
		if err := p.skipSpacesAndComments(); err != nil {
			return err
		}
		if p.c.Current() != '=' {
			return p.errorf("bad table: expected '='")
		}
		p.c.Advance()
		if err := p.skipSpacesAndComments(); err != nil {
			return err
		}
		value, err := p.parseExpression()
		if err != nil {
			return err
		}
		if !value.IsNil() {
			m.Set(key, value)
			*rec++
		}
		return nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return err
	}
	*lst++
	m.Set(Number(float64(*lst)), value)
	return nil
}

// fieldIsRecord classifies the field starting at the cursor: `[expr]=`
// (unless the '[' opens a long string) and `word =` are record-style,
// anything else is list-style. The `word =` check is a speculative scan
// that always rewinds the cursor. isBracketKey distinguishes the
// `[expr]=` form from the `word=` form when isRecord is true.
func (p *decoder) fieldIsRecord() (isRecord, isBracketKey bool, err error) {
	if p.c.Current() == '[' && !longStringComing(p.c) {
		return true, true, nil
	}
	if wordComing(p.c) {
		mark := p.c.Save()
		p.scanWord()
		err := p.skipSpacesAndComments()
		isEquals := p.c.Current() == '='
		p.c.Reset(mark)
		if err != nil {
			return false, false, err
		}
		if isEquals {
			return true, false, nil
		}
	}
	return false, false, nil
}
