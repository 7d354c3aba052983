// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestSerialize(t *testing.T) {
	shared := NewList(NewInt(7))
	selfReferential := NewList()
	selfReferential.Append(selfReferential)

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null{}, "F1n"},
		{"true", Bool(true), "F1t"},
		{"false", Bool(false), "F1f"},
		{"int", NewInt(1), "F1I1"},
		{"negative int", NewInt(-1), "F1I-1"},
		{"zero Int", Int{}, "F1I0"},
		{"big int", NewBigInt(huge), "F1I123456789012345678901234567890"},
		{"float", Float(1.5), "F1F1.5"},
		{"nan", Float(math.NaN()), "F1FNaN"},
		{"negative zero", Float(math.Copysign(0, -1)), "F1F-0.0"},
		{"string", Str("Hello, World!"), "F1SU13_Hello, World!"},
		{"empty binary", Binary(nil), "F1SA0"},
		{"symbol", Sym("foo"), "F1YA3_foo"},
		{"utf8 symbol", Sym("café"), "F1YU5_café"},
		{"list", NewList(NewInt(1), NewInt(2), NewInt(3)), "F4A3_1_2_3I1I2I3"},
		{"empty list", NewList(), "F1A0"},
		{"map", NewMap(Entry{Sym("foo"), Str("bar")}), "F3H1_1_2YA3_fooSU3_bar"},
		{"empty map", NewMap(), "F1H0"},
		{"equal scalars collapse", NewList(NewInt(1), NewInt(1)), "F2A2_1_1I1"},
		{"string back-reference", NewList(Str("a"), Binary([]byte("a"))), "F3A2_1_2SU1_asA0"},
		{"symbol back-reference", NewList(Str("a"), Sym("a")), "F3A2_1_2SU1_ayA0"},
		{"empty string back-reference", NewList(Str(""), Sym("")), "F3A2_1_2SU0yA0"},
		{"shared child", NewList(shared, shared), "F3A2_1_1A1_2I7"},
		{"self reference", selfReferential, "F1A1_0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize(tt.value)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Serialize = %q, want %q", got, tt.want)
			}
			back, err := Deserialize(got)
			if err != nil {
				t.Fatalf("Deserialize(%q): %v", got, err)
			}
			if !Equal(back, tt.value) {
				t.Errorf("Deserialize(%q) = %s, want %s", got, Inspect(back), Inspect(tt.value))
			}
		})
	}
}

type opaque struct{}

func (opaque) Kind() Kind { return KindNull }

func TestSerializeUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"nil root", nil},
		{"nil list", (*List)(nil)},
		{"nil map", (*Map)(nil)},
		{"foreign type", opaque{}},
		{"nested foreign type", NewList(NewInt(1), NewMap(Entry{Sym("k"), opaque{}}))},
		{"nil item", NewList(nil)},
		{"bad encoding", String{Text: "x", Encoding: Encoding(9)}},
		{"bad symbol encoding", Symbol{Name: "x", Encoding: Encoding(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := Serialize(tt.value)
			if !errors.Is(err, ErrUnsupported) {
				t.Fatalf("Serialize error = %v, want ErrUnsupported", err)
			}
			if output != nil {
				t.Errorf("Serialize returned partial output %q", output)
			}
		})
	}
}

func TestDeserializeCycles(t *testing.T) {
	// a -> b -> a
	a := NewList()
	b := NewList(a)
	a.Append(b)

	serialized, err := Serialize(a)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(serialized) != "F2A1_1A1_0" {
		t.Errorf("Serialize = %q, want %q", serialized, "F2A1_1A1_0")
	}
	decoded, err := Deserialize(serialized)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	root, ok := decoded.(*List)
	if !ok {
		t.Fatalf("root is %T, want *List", decoded)
	}
	child, ok := root.At(0).(*List)
	if !ok {
		t.Fatalf("child is %T, want *List", root.At(0))
	}
	if child.At(0) != Value(root) {
		t.Error("child does not point back at the root")
	}
	if !Equal(decoded, a) {
		t.Errorf("Deserialize = %s, want %s", Inspect(decoded), Inspect(a))
	}
}

func TestDeserializeMapSelfKey(t *testing.T) {
	m := NewMap()
	m.Set(m, m)

	serialized, err := Serialize(m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(serialized) != "F1H1_0_0" {
		t.Errorf("Serialize = %q, want %q", serialized, "F1H1_0_0")
	}
	decoded, err := Deserialize(serialized)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	decodedMap := decoded.(*Map)
	value, ok := decodedMap.Get(decodedMap)
	if !ok || value != Value(decodedMap) {
		t.Errorf("decoded map does not map itself to itself: %s", Inspect(decoded))
	}
}

func TestDeserializeDAG(t *testing.T) {
	shared := NewMap(Entry{Sym("n"), NewInt(1)})
	root := NewList(shared, NewList(shared), shared)

	decoded := roundTrip(t, root)
	list := decoded.(*List)
	first := list.At(0)
	if list.At(2) != first || list.At(1).(*List).At(0) != first {
		t.Error("shared map was duplicated by the round trip")
	}
}

func TestDeserializeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no header", "A0"},
		{"no count", "F"},
		{"zero count", "F0"},
		{"count too large", "F9n"},
		{"huge count", "F99999999999999999999999n"},
		{"trailing input", "F1nn"},
		{"trailing garbage", "F1I1x"},
		{"unknown tag", "F1x"},
		{"int without digits", "F1I"},
		{"int with sign only", "F1I-"},
		{"float without digits", "F1F"},
		{"float sign only", "F1F-"},
		{"float leading dot", "F1F.5"},
		{"string without encoding", "F1S"},
		{"string with bad encoding", "F1SX1_a"},
		{"string without size", "F1SU"},
		{"string without separator", "F1SU1a"},
		{"string truncated", "F1SU5_abc"},
		{"back-reference out of range", "F1sU0"},
		{"back-reference past table", "F3A2_1_2SU1_asU1"},
		{"list without size", "F1A"},
		{"list reference out of range", "F1A1_1"},
		{"list missing separator", "F2A10I1"},
		{"list truncated", "F2A2_1"},
		{"list size overflows input", "F1A999"},
		{"map odd", "F2H1_1"},
		{"map reference out of range", "F2H1_1_2I1"},
		{"missing nodes", "F3A2_1_2I1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Deserialize([]byte(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Deserialize(%q) = %v, %v; want ErrMalformed", tt.input, value, err)
			}
		})
	}
}

func TestDeserializeMergesDuplicateKeys(t *testing.T) {
	decoded, err := Deserialize([]byte("F4H2_1_2_1_3YA1_kI1I2"))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	m := decoded.(*Map)
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	value, _ := m.Get(Sym("k"))
	if !Equal(value, NewInt(2)) {
		t.Errorf("Get(:k) = %s, want 2", Inspect(value))
	}
}

func roundTrip(t *testing.T, value Value) Value {
	t.Helper()
	serialized, err := Serialize(value)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	decoded, err := Deserialize(serialized)
	if err != nil {
		t.Fatalf("Deserialize(%q): %v", serialized, err)
	}
	if !Equal(decoded, value) {
		t.Fatalf("round trip = %s, want %s", Inspect(decoded), Inspect(value))
	}
	return decoded
}
