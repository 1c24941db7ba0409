// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package lualex

import (
	"math"
	"strconv"
)

// NumberParts holds the pieces of a Lua numeral as accumulated by
// [ScanNumber]: an integer digit run, an optional fraction digit run, and
// an optional signed exponent. Value converts the numeral to a float64.
type NumberParts struct {
	Hex bool

	IntDigits  int // count of digits in the integer run
	FracDigits int // count of digits in the fraction run

	Mantissa float64 // (I + F) accumulated in the numeral's base
	HasExp   bool
	ExpSign  int // +1 or -1
	Exp      int

	text string // the numeral's source text
}

// Value returns the numeral's float64 value. A decimal numeral is
// converted from its source text with a single rounding, so it yields
// the float64 nearest to the written number; a hexadecimal numeral
// combines Mantissa and the binary exponent.
func (p NumberParts) Value() float64 {
	if !p.Hex && p.text != "" {
		if v, err := strconv.ParseFloat(p.text, 64); err == nil {
			return v
		}
	}
	expBase := 10.0
	if p.Hex {
		expBase = 2.0
	}
	v := p.Mantissa
	if p.HasExp {
		v *= math.Pow(expBase, float64(p.ExpSign*p.Exp))
	}
	return v
}

// ScanNumber consumes a Lua numeral at the cursor's current position
// following the base-selection and digit-run rules of the literal
// grammar: a leading "0x"/"0X" selects hexadecimal (with a 'p'/'P'
// binary exponent), otherwise decimal (with an 'e'/'E' decimal exponent).
// ok is false if neither an integer nor a fraction digit run is present,
// or if an exponent introducer is present with no exponent digits; in
// both failure cases reason names which rule failed ("empty integer and
// fraction part" or "empty exponent part").
func ScanNumber(c *Cursor) (parts NumberParts, ok bool, reason string) {
	mark := c.Save()

	hex := false
	if c.Current() == '0' && (c.Next() == 'x' || c.Next() == 'X') {
		hex = true
		c.Advance()
		c.Advance()
	}

	digitValue := func(b byte) (int, bool) {
		if hex {
			return HexDigitValue(b)
		}
		if IsDigit(b) {
			return int(b - '0'), true
		}
		return 0, false
	}
	base := 10.0
	if hex {
		base = 16.0
	}

	mantissa := 0.0
	intDigits := 0
	for {
		v, digitOK := digitValue(c.Current())
		if !digitOK {
			break
		}
		mantissa = mantissa*base + float64(v)
		intDigits++
		c.Advance()
	}

	fracDigits := 0
	if c.Current() == '.' {
		c.Advance()
		scale := 1.0
		for {
			v, digitOK := digitValue(c.Current())
			if !digitOK {
				break
			}
			scale /= base
			mantissa += float64(v) * scale
			fracDigits++
			c.Advance()
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		c.Reset(mark)
		return NumberParts{}, false, "empty integer and fraction part"
	}

	expIntroducer := byte('e')
	expIntroducerUpper := byte('E')
	if hex {
		expIntroducer, expIntroducerUpper = 'p', 'P'
	}
	var hasExp bool
	var expSign = 1
	var exp int
	if c.Current() == expIntroducer || c.Current() == expIntroducerUpper {
		c.Advance()
		if c.Current() == '+' || c.Current() == '-' {
			if c.Current() == '-' {
				expSign = -1
			}
			c.Advance()
		}
		expDigits := 0
		for IsDigit(c.Current()) {
			exp = exp*10 + int(c.Current()-'0')
			expDigits++
			c.Advance()
		}
		if expDigits == 0 {
			c.Reset(mark)
			return NumberParts{}, false, "empty exponent part"
		}
		hasExp = true
	}

	text := make([]byte, 0, c.Pos()-mark)
	for i := mark; i < c.Pos(); i++ {
		text = append(text, c.Byte(i))
	}
	return NumberParts{
		Hex:        hex,
		IntDigits:  intDigits,
		FracDigits: fracDigits,
		Mantissa:   mantissa,
		HasExp:     hasExp,
		ExpSign:    expSign,
		Exp:        exp,
		text:       string(text),
	}, true, ""
}
