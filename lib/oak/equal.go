// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import "math"

// Equal reports whether a and b are the same graph: equal scalars in
// the same places and the same sharing between containers. Two lists
// with equal items are not Equal when one repeats a shared child and
// the other holds two distinct copies of it.
//
// Floats compare by value except that NaN equals NaN and 0.0 differs
// from -0.0. Strings and symbols must agree on encoding as well as
// bytes.
func Equal(a, b Value) bool {
	comparison := &graphComparison{
		forward:  make(map[any]Value),
		backward: make(map[any]Value),
	}
	return comparison.equal(a, b)
}

// graphComparison tracks the bijection between the containers of two
// graphs as it is discovered.
type graphComparison struct {
	forward  map[any]Value
	backward map[any]Value
}

func (comparison *graphComparison) equal(a, b Value) bool {
	switch left := a.(type) {
	case *List:
		right, ok := b.(*List)
		if !ok {
			return false
		}
		if left == nil || right == nil {
			return left == right
		}
		if matched, done := comparison.pair(left, right); done {
			return matched
		}
		if len(left.items) != len(right.items) {
			return false
		}
		for index := range left.items {
			if !comparison.equal(left.items[index], right.items[index]) {
				return false
			}
		}
		return true
	case *Map:
		right, ok := b.(*Map)
		if !ok {
			return false
		}
		if left == nil || right == nil {
			return left == right
		}
		if matched, done := comparison.pair(left, right); done {
			return matched
		}
		if len(left.entries) != len(right.entries) {
			return false
		}
		for index := range left.entries {
			if !comparison.equal(left.entries[index].Key, right.entries[index].Key) ||
				!comparison.equal(left.entries[index].Value, right.entries[index].Value) {
				return false
			}
		}
		return true
	case Float:
		right, ok := b.(Float)
		if !ok {
			return false
		}
		if math.IsNaN(float64(left)) || math.IsNaN(float64(right)) {
			return math.IsNaN(float64(left)) && math.IsNaN(float64(right))
		}
		return math.Float64bits(float64(left)) == math.Float64bits(float64(right))
	case nil:
		return b == nil
	case Null, Bool, Int, String, Symbol:
		if b == nil {
			return false
		}
		return identity(a) == identity(b)
	default:
		return false
	}
}

// pair records that left and right correspond. done is true when
// either side was already paired, in which case matched says whether
// it was paired with the other.
func (comparison *graphComparison) pair(left, right Value) (matched, done bool) {
	previous, seenLeft := comparison.forward[left]
	_, seenRight := comparison.backward[right]
	if seenLeft || seenRight {
		return seenLeft && previous == right, true
	}
	comparison.forward[left] = right
	comparison.backward[right] = left
	return false, false
}
