// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"math"
	"strings"
	"testing"
)

func TestEqual(t *testing.T) {
	shared := NewList(NewInt(1))
	cycleA := NewList()
	cycleA.Append(cycleA)
	cycleB := NewList()
	cycleB.Append(cycleB)
	twoCycle := NewList()
	twoCycle.Append(NewList(twoCycle))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"ints", NewInt(5), NewInt(5), true},
		{"different ints", NewInt(5), NewInt(6), false},
		{"zero Int", Int{}, NewInt(0), true},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"signed zero", Float(0), Float(math.Copysign(0, -1)), false},
		{"int and float", NewInt(1), Float(1), false},
		{"string and symbol", Str("a"), Sym("a"), false},
		{"encodings", Str("a"), Binary([]byte("a")), false},
		{"true and false", Bool(true), Bool(false), false},
		{"null", Null{}, Null{}, true},
		{"nil", nil, nil, true},
		{"nil and null", nil, Null{}, false},
		{"lists", NewList(NewInt(1), Str("x")), NewList(NewInt(1), Str("x")), true},
		{"list lengths", NewList(NewInt(1)), NewList(NewInt(1), NewInt(1)), false},
		{"list and map", NewList(), NewMap(), false},
		{"map order", NewMap(Entry{Sym("a"), Null{}}, Entry{Sym("b"), Null{}}),
			NewMap(Entry{Sym("b"), Null{}}, Entry{Sym("a"), Null{}}), false},
		{"shared vs copies", NewList(shared, shared), NewList(NewList(NewInt(1)), NewList(NewInt(1))), false},
		{"copies vs shared", NewList(NewList(NewInt(1)), NewList(NewInt(1))), NewList(shared, shared), false},
		{"cycles", cycleA, cycleB, true},
		{"cycle lengths", cycleA, twoCycle, false},
		{"foreign", opaque{}, opaque{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", Inspect(tt.a), Inspect(tt.b), got, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	cycle := NewMap()
	cycle.Set(Sym("self"), cycle)
	shared := NewList(NewInt(1))

	tests := []struct {
		value Value
		want  string
	}{
		{Null{}, "null"},
		{NewList(NewInt(1), Float(2.5), Str("a\"b"), Sym("name"), Sym("two words"), Bool(true)),
			`[1, 2.5, "a\"b", :name, :"two words", true]`},
		{NewMap(Entry{Sym("k"), NewList()}), "{:k => []}"},
		{cycle, "&1 {:self => *1}"},
		{NewList(shared, shared), "[&1 [1], *1]"},
		{NewMap(Entry{Sym("a"), shared}, Entry{Sym("b"), NewList(shared)}), "{:a => &1 [1], :b => [*1]}"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		if got := Inspect(tt.value); got != tt.want {
			t.Errorf("Inspect = %q, want %q", got, tt.want)
		}
	}
}

func TestInspectSharedDepth(t *testing.T) {
	// Each level holds the one below twice, so a full expansion would
	// print 2^40 leaves.
	var value Value = NewList(NewInt(1))
	for i := 0; i < 40; i++ {
		value = NewList(value, value)
	}
	got := Inspect(value)
	if len(got) > 1000 {
		t.Fatalf("Inspect produced %d bytes", len(got))
	}
	if !strings.HasPrefix(got, "[&1 [&2 [") || !strings.HasSuffix(got, "*2], *1]") {
		t.Errorf("Inspect = %q", got)
	}
	if !strings.Contains(got, "&40 [1], *40]") {
		t.Errorf("Inspect = %q, want the innermost list labelled 40", got)
	}
}
