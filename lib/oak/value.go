// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// Kind identifies one of the nine kinds of node OAK can encode.
type Kind uint8

const (
	KindNull Kind = iota
	KindTrue
	KindFalse
	KindInt
	KindFloat
	KindString
	KindSymbol
	KindList
	KindMap
)

// String returns the human-readable name of a kind.
func (kind Kind) String() string {
	switch kind {
	case KindNull:
		return "null"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// Value is a node in a value graph. The concrete types in this package
// are the only supported implementations; any other type satisfying
// the interface is rejected by [Serialize] with [ErrUnsupported].
type Value interface {
	Kind() Kind
}

// Encoding is the interpretation attached to the bytes of a [String]
// or [Symbol]. It travels on the wire as a single character.
type Encoding uint8

const (
	// UTF8 marks text as UTF-8.
	UTF8 Encoding = iota
	// ASCII marks bytes as ASCII-compatible binary data.
	ASCII
)

// String returns the name of the encoding.
func (encoding Encoding) String() string {
	switch encoding {
	case UTF8:
		return "utf-8"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("unknown(%d)", encoding)
	}
}

func (encoding Encoding) code() (byte, bool) {
	switch encoding {
	case UTF8:
		return 'U', true
	case ASCII:
		return 'A', true
	default:
		return 0, false
	}
}

func encodingForCode(code byte) (Encoding, bool) {
	switch code {
	case 'U':
		return UTF8, true
	case 'A':
		return ASCII, true
	default:
		return 0, false
	}
}

// Null is the null value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Bool is true or false. The two truth values are distinct kinds on
// the wire.
type Bool bool

func (b Bool) Kind() Kind {
	if b {
		return KindTrue
	}
	return KindFalse
}

// Int is an integer of arbitrary precision. The zero Int is 0.
type Int struct {
	n *big.Int
}

// NewInt returns the Int holding n.
func NewInt(n int64) Int {
	return Int{n: big.NewInt(n)}
}

// NewBigInt returns an Int holding a copy of n.
func NewBigInt(n *big.Int) Int {
	return Int{n: new(big.Int).Set(n)}
}

func (Int) Kind() Kind { return KindInt }

// Big returns a copy of the integer.
func (i Int) Big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.n)
}

// Int64 returns the integer and whether it fits in an int64.
func (i Int) Int64() (int64, bool) {
	if i.n == nil {
		return 0, true
	}
	return i.n.Int64(), i.n.IsInt64()
}

// Text returns the decimal representation.
func (i Int) Text() string {
	if i.n == nil {
		return "0"
	}
	return i.n.Text(10)
}

// Float is an IEEE 754 double, including NaN and the infinities.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is a byte string with an attached [Encoding].
type String struct {
	Text     string
	Encoding Encoding
}

// Str returns a UTF-8 [String].
func Str(text string) String {
	return String{Text: text, Encoding: UTF8}
}

// Binary returns an ASCII-compatible [String] holding a copy of data.
func Binary(data []byte) String {
	return String{Text: string(data), Encoding: ASCII}
}

func (String) Kind() Kind { return KindString }

// Symbol is an interned name. A Symbol never equals a [String], even
// when both hold the same bytes.
type Symbol struct {
	Name     string
	Encoding Encoding
}

// Sym returns a Symbol, ASCII when every byte is 7-bit and UTF-8
// otherwise.
func Sym(name string) Symbol {
	for index := 0; index < len(name); index++ {
		if name[index] >= utf8.RuneSelf {
			return Symbol{Name: name, Encoding: UTF8}
		}
	}
	return Symbol{Name: name, Encoding: ASCII}
}

func (Symbol) Kind() Kind { return KindSymbol }

// List is an ordered sequence of values. Lists are compared by
// identity: two *List pointers are the same node only if they are the
// same pointer.
type List struct {
	items []Value
}

// NewList returns a list holding items.
func NewList(items ...Value) *List {
	return &List{items: append([]Value(nil), items...)}
}

func (*List) Kind() Kind { return KindList }

// Len returns the number of items.
func (list *List) Len() int { return len(list.items) }

// At returns the item at index.
func (list *List) At(index int) Value { return list.items[index] }

// Set replaces the item at index.
func (list *List) Set(index int, value Value) { list.items[index] = value }

// Append adds values to the end of the list.
func (list *List) Append(values ...Value) { list.items = append(list.items, values...) }

// Items returns a copy of the items.
func (list *List) Items() []Value { return append([]Value(nil), list.items...) }

func (list *List) String() string { return Inspect(list) }

// Entry is one key/value pair of a [Map].
type Entry struct {
	Key   Value
	Value Value
}

// Map is an ordered mapping. Entries keep insertion order. Keys are
// matched by identity: containers by pointer, scalars by value.
type Map struct {
	entries []Entry
	index   map[any]int
}

// NewMap returns a map holding entries, applied in order with [Map.Set].
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, entry := range entries {
		m.Set(entry.Key, entry.Value)
	}
	return m
}

func (*Map) Kind() Kind { return KindMap }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Set stores value under key. An existing key keeps its position.
func (m *Map) Set(key, value Value) {
	id := identity(key)
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if position, ok := m.index[id]; ok {
		m.entries[position].Value = value
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	position, ok := m.index[identity(key)]
	if !ok {
		return nil, false
	}
	return m.entries[position].Value, true
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry { return append([]Entry(nil), m.entries...) }

func (m *Map) String() string { return Inspect(m) }

// scalarIdentity is the identity of a non-container node: equal
// scalars are the same node.
type scalarIdentity struct {
	kind     Kind
	encoding Encoding
	text     string
	bits     uint64
}

// foreignIdentity wraps values of unknown concrete type. Each call
// allocates a new one, so two foreign values are never the same node.
type foreignIdentity struct {
	value Value
}

// identity returns a comparable key such that two nodes are the same
// node exactly when their keys are equal. Containers are keyed by
// pointer, never by content.
func identity(value Value) any {
	switch node := value.(type) {
	case nil:
		return nil
	case *List:
		return node
	case *Map:
		return node
	case Null:
		return scalarIdentity{kind: KindNull}
	case Bool:
		return scalarIdentity{kind: node.Kind()}
	case Int:
		return scalarIdentity{kind: KindInt, text: node.Text()}
	case Float:
		return scalarIdentity{kind: KindFloat, bits: math.Float64bits(float64(node))}
	case String:
		return scalarIdentity{kind: KindString, encoding: node.Encoding, text: node.Text}
	case Symbol:
		return scalarIdentity{kind: KindSymbol, encoding: node.Encoding, text: node.Name}
	default:
		return &foreignIdentity{value: value}
	}
}
