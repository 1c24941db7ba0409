// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package luatable

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		// Lua 5.2 Reference Manual examples.
		{"3", 3},
		{"3.0", 3},
		{"3.1416", 3.1416},
		{"314.16e-2", 3.1416},
		{"0.31416E1", 3.1416},
		{"0xff", 255},
		{"0x0.1E", 0.1171875},
		{"0xA23p-4", 162.1875},
		{"0X1.921FB54442D18P+1", 3.1415926535898},
		// Programming in Lua, 3rd ed. examples.
		{"4", 4},
		{"0.4", 0.4},
		{"4.57e-3", 0.00457},
		{"0.3e12", 300000000000},
		{"5E+20", 5e20},
		{"0x1A3", 419},
		{"0x0.2", 0.125},
		{"0x1p-1", 0.5},
		{"0xa.bp2", 42.75},
		// from the module-level round-trip example
		{"19961113.E-4", 1996.1113},
		{"-.20080618e4", -2008.0618},
	}
	for _, test := range tests {
		got, err := Decode([]byte(test.src))
		if err != nil {
			t.Errorf("Decode(%q) error = %v", test.src, err)
			continue
		}
		if got.Kind() != KindNumber {
			t.Errorf("Decode(%q) kind = %v; want number", test.src, got.Kind())
			continue
		}
		if diff := math.Abs(got.Number() - test.want); diff > 1e-9*math.Max(1, math.Abs(test.want)) {
			t.Errorf("Decode(%q) = %g; want %g", test.src, got.Number(), test.want)
		}
	}
}

func TestDecodeNumberErrors(t *testing.T) {
	tests := []string{".", "1e", "0x", "-"}
	for _, src := range tests {
		if _, err := Decode([]byte(src)); err == nil {
			t.Errorf("Decode(%q) succeeded; want syntax error", src)
		}
	}
}

func TestDecodeStrings(t *testing.T) {
	const want = "alo\n123\""
	tests := []string{
		`'alo\n123"'`,
		`"alo\n123\""`,
		`'\97lo\10\04923"'`,
		`"\x61\x6c\x6f\x0a123\x22"`,
		"[==[\nalo\n123\"]==]",
		`"\x61\x6c\x6f\x0a\x31\x32\x33\x22"`,
	}
	for _, src := range tests {
		got, err := Decode([]byte(src))
		if err != nil {
			t.Errorf("Decode(%q) error = %v", src, err)
			continue
		}
		if got.Kind() != KindString || got.String() != want {
			t.Errorf("Decode(%q) = %#v; want string %q", src, got, want)
		}
	}
}

func TestDecodeLongStringDropsLeadingNewline(t *testing.T) {
	tests := []string{
		"[[\n<html>\n</html>\n]]",
		"[[\r\n<html>\r\n</html>\r\n]]",
		"[[\r<html>\r</html>\r]]",
	}
	const want = "<html>\n</html>\n"
	for _, src := range tests {
		got, err := Decode([]byte(src))
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", src, err)
		}
		if got.String() != want {
			t.Errorf("Decode(%q) = %q; want %q", src, got.String(), want)
		}
	}
}

func TestDecodeLongStringWrongLevelCloser(t *testing.T) {
	got, err := Decode([]byte("[==[a]=]b]==]"))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if got.String() != "a]=]b" {
		t.Errorf("Decode(...) = %q; want %q", got.String(), "a]=]b")
	}
}

func TestDecodeStringEscapeErrors(t *testing.T) {
	tests := []string{`"\256"`, `"\x7"`, `"\q"`, `"unterminated`}
	for _, src := range tests {
		if _, err := Decode([]byte(src)); err == nil {
			t.Errorf("Decode(%q) succeeded; want syntax error", src)
		}
	}
}

func TestDecodeDecimalEscapeBoundary(t *testing.T) {
	got, err := Decode([]byte(`"\255"`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if got.String() != "\xff" {
		t.Errorf("Decode(\"\\255\") = %q; want 0xFF byte", got.String())
	}
}

func TestDecodeBoolAndNil(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"nil", Nil},
	}
	for _, test := range tests {
		got, err := Decode([]byte(test.src))
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", test.src, err)
		}
		if !got.Equal(test.want) {
			t.Errorf("Decode(%q) = %v; want %v", test.src, got, test.want)
		}
	}
}

func TestDecodeSequence(t *testing.T) {
	const src = `{"Sunday","Monday","Tuesday","Wednesday","Thursday","Friday","Saturday"}`
	want := Sequence([]Value{
		String("Sunday"), String("Monday"), String("Tuesday"), String("Wednesday"),
		String("Thursday"), String("Friday"), String("Saturday"),
	})
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode(%q) mismatch (-want +got):\n%s", src, diff)
	}
}

func TestDecodeNilElisionInSequence(t *testing.T) {
	got, err := Decode([]byte(`{1, nil, 3}`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	want := Sequence([]Value{Number(1), Number(3)})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTableWithNilBindingDropped(t *testing.T) {
	got, err := Decode([]byte(`{x = 1, inuyasha = nil, y = 2}`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	m := got.Map()
	if _, ok := m.Get(String("inuyasha")); ok {
		t.Error("Map contains \"inuyasha\" key despite nil binding")
	}
	if v, ok := m.Get(String("x")); !ok || v.Number() != 1 {
		t.Errorf("Map[x] = %v, %v; want 1, true", v, ok)
	}
}

func TestDecodeMixedTableScenario(t *testing.T) {
	const src = `{ ["f(1)"] = "g"; "x", "y"; x = 1, "f(x)", [30] = 23; 45 }`
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	want := NewMap()
	want.Set(String("f(1)"), String("g"))
	want.Set(Number(1), String("x"))
	want.Set(Number(2), String("y"))
	want.Set(String("x"), Number(1))
	want.Set(Number(3), String("f(x)"))
	want.Set(Number(30), Number(23))
	want.Set(Number(4), Number(45))
	if !got.Map().Equal(want) {
		t.Errorf("Decode(%q) = %v; want %v", src, got, MapValue(want))
	}
}

func TestDecodeNestedTableScenario(t *testing.T) {
	got, err := Decode([]byte(`{ [1] = {y = 0, x = 0}, thickness = 2, color = "blue" }`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	inner := NewMap()
	inner.Set(String("y"), Number(0))
	inner.Set(String("x"), Number(0))
	want := NewMap()
	want.Set(Number(1), MapValue(inner))
	want.Set(String("thickness"), Number(2))
	want.Set(String("color"), String("blue"))
	if !got.Map().Equal(want) {
		t.Errorf("got %v; want %v", got, MapValue(want))
	}

	encoded, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode error = %v", err)
	}
	roundTripped, err := Decode([]byte(encoded))
	if err != nil {
		t.Fatalf("Decode(Encode(...)) error = %v", err)
	}
	if !roundTripped.Equal(got) {
		t.Errorf("round trip mismatch: got %v; want %v", roundTripped, got)
	}
}

func TestDecodeWhitespaceAndCommentIrrelevance(t *testing.T) {
	plain, err := Decode([]byte(`{1,2,3}`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	decorated, err := Decode([]byte("{ 1, --[[ long\ncomment ]] 2,\n-- short comment\n3 }"))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if !plain.Equal(decorated) {
		t.Errorf("decorated input decoded differently: %v vs %v", decorated, plain)
	}
}

func TestDecodeSeparatorEquivalence(t *testing.T) {
	commaSeq, err := Decode([]byte(`{1,2,3,}`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	semiSeq, err := Decode([]byte(`{1;2;3;}`))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if !commaSeq.Equal(semiSeq) {
		t.Errorf("comma- and semicolon-separated tables decoded differently")
	}
}

func TestDecodeTableErrors(t *testing.T) {
	tests := []string{
		`{1, 2`,         // missing '}'
		`{[1] 2}`,       // missing '='
		`{[nil] = 1}`,   // nil key
		`{1 2}`,         // unexpected character
		`{for = 1}`,     // reserved word as field name
		`{nil = 1}`,     // value keyword as field name
	}
	for _, src := range tests {
		if _, err := Decode([]byte(src)); err == nil {
			t.Errorf("Decode(%q) succeeded; want syntax error", src)
		}
	}
}

func TestDecodeTrailingGarbageFails(t *testing.T) {
	if _, err := Decode([]byte(`1 2`)); err == nil {
		t.Error("Decode(\"1 2\") succeeded; want syntax error")
	}
}

func TestDecodeEmptyInputFails(t *testing.T) {
	if _, err := Decode([]byte("   -- just a comment\n")); err == nil {
		t.Error("Decode of whitespace/comment-only input succeeded; want syntax error")
	}
}

func TestDecodeUnterminatedLongCommentFails(t *testing.T) {
	_, err := Decode([]byte("--[[ never closed\n1"))
	if err == nil {
		t.Fatal("Decode of unterminated long comment succeeded; want syntax error")
	}
	if !strings.Contains(err.Error(), "long comment") {
		t.Errorf("error = %v; want it to mention the long comment", err)
	}
}

func TestDecodeRejectsDeeplyNestedTables(t *testing.T) {
	const depth = maxNestingDepth + 1
	src := strings.Repeat("{", depth) + strings.Repeat("}", depth)
	_, err := Decode([]byte(src))
	if err == nil {
		t.Fatal("Decode of overly nested tables succeeded; want syntax error")
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("error = %v (%T); want *SyntaxError", err, err)
	}

	okSrc := strings.Repeat("{", maxNestingDepth) + strings.Repeat("}", maxNestingDepth)
	if _, err := Decode([]byte(okSrc)); err != nil {
		t.Errorf("Decode at the nesting limit error = %v; want success", err)
	}
}
