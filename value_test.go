// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package luatable

import "testing"

func TestMapSetGetLastWriteWins(t *testing.T) {
	m := NewMap()
	m.Set(String("x"), Number(1))
	m.Set(String("x"), Number(2))
	if got, ok := m.Get(String("x")); !ok || got.Number() != 2 {
		t.Errorf("Get(x) = %v, %v; want 2, true", got, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d; want 1", m.Len())
	}
}

func TestMapSetNilDeletes(t *testing.T) {
	m := NewMap()
	m.Set(String("x"), Number(1))
	m.Set(String("x"), Nil)
	if _, ok := m.Get(String("x")); ok {
		t.Error("Get(x) found entry after Set(x, Nil); want it deleted")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d; want 0", m.Len())
	}
}

func TestMapSetNilOnAbsentKeyIsNoop(t *testing.T) {
	m := NewMap()
	m.Set(String("x"), Nil)
	if m.Len() != 0 {
		t.Errorf("Len() = %d; want 0", m.Len())
	}
}

func TestMapRangeOrder(t *testing.T) {
	m := NewMap()
	m.Set(Number(1), String("a"))
	m.Set(String("z"), String("b"))
	m.Set(Number(2), String("c"))

	var keys []Value
	m.Range(func(key, value Value) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) != 3 {
		t.Fatalf("Range visited %d entries; want 3", len(keys))
	}
	wantOrder := []Value{Number(1), String("z"), Number(2)}
	for i, want := range wantOrder {
		if !keys[i].Equal(want) {
			t.Errorf("keys[%d] = %v; want %v", i, keys[i], want)
		}
	}
}

func TestMapSetPanicsOnNonKeyKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Set with a Sequence key did not panic")
		}
	}()
	m := NewMap()
	m.Set(Sequence(nil), Number(1))
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equal nil", Nil, Nil, true},
		{"bool equal", Bool(true), Bool(true), true},
		{"bool not equal", Bool(true), Bool(false), false},
		{"number equal", Number(1.5), Number(1.5), true},
		{"string equal", String("a"), String("a"), true},
		{"different kinds", Number(0), String(""), false},
		{
			"sequence equal",
			Sequence([]Value{Number(1), String("a")}),
			Sequence([]Value{Number(1), String("a")}),
			true,
		},
		{
			"sequence length differs",
			Sequence([]Value{Number(1)}),
			Sequence([]Value{Number(1), Number(2)}),
			false,
		},
	}
	for _, test := range tests {
		if got := test.a.Equal(test.b); got != test.want {
			t.Errorf("%s: Equal() = %v; want %v", test.name, got, test.want)
		}
	}
}

func TestMapEqualIgnoresOrder(t *testing.T) {
	a := NewMap()
	a.Set(String("x"), Number(1))
	a.Set(String("y"), Number(2))

	b := NewMap()
	b.Set(String("y"), Number(2))
	b.Set(String("x"), Number(1))

	if !a.Equal(b) {
		t.Error("maps with same entries in different insertion order are not Equal")
	}
}
