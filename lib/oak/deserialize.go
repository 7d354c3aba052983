// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"math/big"
	"strconv"
)

// pendingList and pendingMap hold the child indices of a container
// between the two passes of Deserialize.
type pendingList struct {
	list  *List
	items []int
}

type pendingMap struct {
	m     *Map
	pairs []int
}

// Deserialize parses FRIZZY text produced by [Serialize] and returns
// the root of the reconstructed graph.
//
// The first pass decodes every node record. Scalars are complete after
// this pass; containers are allocated empty and remember the indices
// of their children. The second pass fills every container from the
// node slots, so references in any direction, including a container
// referring to itself, resolve to the same shared objects.
//
// Returns an error wrapping [ErrMalformed] on any grammar violation,
// truncation, out-of-range reference or trailing input.
func Deserialize(data []byte) (Value, error) {
	scanner := &textScanner{data: data}
	if !scanner.consume(frizzyHeader) {
		return nil, malformed("missing FRIZZY header")
	}
	count, ok := scanner.count()
	if !ok {
		return nil, malformed("missing node count")
	}
	if count == 0 {
		return nil, malformed("empty node list")
	}
	// Every node record is at least one byte, which bounds the
	// allocation by the input size.
	if count > len(data) {
		return nil, malformed("node count %d exceeds input size", count)
	}

	slots := make([]Value, count)
	var stringTable []string
	var lists []pendingList
	var maps []pendingMap

	for slot := range slots {
		tag, ok := scanner.next()
		if !ok {
			return nil, malformed("truncated at node %d of %d", slot, count)
		}
		switch tag {
		case tagNull:
			slots[slot] = Null{}
		case tagTrue:
			slots[slot] = Bool(true)
		case tagFalse:
			slots[slot] = Bool(false)
		case tagInt:
			text, ok := scanner.integer()
			if !ok {
				return nil, malformed("bad integer at node %d", slot)
			}
			n, ok := new(big.Int).SetString(text, 10)
			if !ok {
				return nil, malformed("bad integer %q at node %d", text, slot)
			}
			slots[slot] = Int{n: n}
		case tagFloat:
			value, consumed, ok := scanFloat(scanner.rest())
			if !ok {
				return nil, malformed("bad float at node %d", slot)
			}
			scanner.position += consumed
			slots[slot] = Float(value)
		case tagString, tagSymbol, 's', 'y':
			text, encoding, err := scanner.text(tag, &stringTable)
			if err != nil {
				return nil, err
			}
			if tag == tagSymbol || tag == 'y' {
				slots[slot] = Symbol{Name: text, Encoding: encoding}
			} else {
				slots[slot] = String{Text: text, Encoding: encoding}
			}
		case tagList:
			size, ok := scanner.count()
			if !ok || size > scanner.remaining() {
				return nil, malformed("bad list size at node %d", slot)
			}
			pending := pendingList{list: &List{}, items: make([]int, size)}
			for item := range pending.items {
				index, err := scanner.reference(count)
				if err != nil {
					return nil, err
				}
				pending.items[item] = index
			}
			slots[slot] = pending.list
			lists = append(lists, pending)
		case tagMap:
			size, ok := scanner.count()
			if !ok || size > scanner.remaining() {
				return nil, malformed("bad map size at node %d", slot)
			}
			pending := pendingMap{m: &Map{}, pairs: make([]int, 2*size)}
			for position := range pending.pairs {
				index, err := scanner.reference(count)
				if err != nil {
					return nil, err
				}
				pending.pairs[position] = index
			}
			slots[slot] = pending.m
			maps = append(maps, pending)
		default:
			return nil, malformed("unknown tag %q at offset %d", tag, scanner.position-1)
		}
	}
	if scanner.remaining() != 0 {
		return nil, malformed("%d bytes of trailing input", scanner.remaining())
	}

	for _, pending := range lists {
		pending.list.items = make([]Value, len(pending.items))
		for position, index := range pending.items {
			pending.list.items[position] = slots[index]
		}
	}
	for _, pending := range maps {
		for position := 0; position < len(pending.pairs); position += 2 {
			pending.m.Set(slots[pending.pairs[position]], slots[pending.pairs[position+1]])
		}
	}

	// The walker records the root first.
	return slots[0], nil
}

// textScanner reads FRIZZY records and OAK envelopes front to back.
type textScanner struct {
	data     []byte
	position int
}

func (scanner *textScanner) remaining() int { return len(scanner.data) - scanner.position }

func (scanner *textScanner) rest() []byte { return scanner.data[scanner.position:] }

func (scanner *textScanner) next() (byte, bool) {
	if scanner.position >= len(scanner.data) {
		return 0, false
	}
	scanner.position++
	return scanner.data[scanner.position-1], true
}

func (scanner *textScanner) consume(expected byte) bool {
	if scanner.position < len(scanner.data) && scanner.data[scanner.position] == expected {
		scanner.position++
		return true
	}
	return false
}

// digits consumes a run of decimal digits.
func (scanner *textScanner) digits() string {
	start := scanner.position
	scanner.position = skipDigits(scanner.data, start)
	return string(scanner.data[start:scanner.position])
}

// count consumes a non-negative decimal number that must fit in an int.
func (scanner *textScanner) count() (int, bool) {
	text := scanner.digits()
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// integer consumes -?[0-9]+ and returns its text.
func (scanner *textScanner) integer() (string, bool) {
	start := scanner.position
	scanner.consume('-')
	if scanner.digits() == "" {
		return "", false
	}
	return string(scanner.data[start:scanner.position]), true
}

// reference consumes "_<index>" and checks the index against the
// number of node slots.
func (scanner *textScanner) reference(count int) (int, error) {
	if !scanner.consume(separator) {
		return 0, malformed("missing separator at offset %d", scanner.position)
	}
	index, ok := scanner.count()
	if !ok || index >= count {
		return 0, malformed("bad node reference at offset %d", scanner.position)
	}
	return index, nil
}

// text decodes the body of a string or symbol record whose tag has
// already been consumed. Full records are appended to the string
// table; back-references are resolved against it.
func (scanner *textScanner) text(tag byte, stringTable *[]string) (string, Encoding, error) {
	encodingCode, ok := scanner.next()
	if !ok {
		return "", 0, malformed("truncated string record")
	}
	encoding, ok := encodingForCode(encodingCode)
	if !ok {
		return "", 0, malformed("unknown string encoding %q", encodingCode)
	}
	number, ok := scanner.count()
	if !ok {
		return "", 0, malformed("missing string size at offset %d", scanner.position)
	}

	if tag == 's' || tag == 'y' {
		if number >= len(*stringTable) {
			return "", 0, malformed("string reference %d out of range", number)
		}
		return (*stringTable)[number], encoding, nil
	}

	var text string
	if number > 0 {
		if !scanner.consume(separator) {
			return "", 0, malformed("missing separator at offset %d", scanner.position)
		}
		if number > scanner.remaining() {
			return "", 0, malformed("string of %d bytes truncated", number)
		}
		text = string(scanner.data[scanner.position : scanner.position+number])
		scanner.position += number
	}
	*stringTable = append(*stringTable, text)
	return text, encoding, nil
}
