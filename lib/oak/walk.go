// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

// Walked is the result of [Walk]: every distinct node reachable from
// the root, in the order a depth-first pre-order traversal first
// touched it.
type Walked struct {
	// Seen holds each distinct node once. Seen[0] is the root.
	Seen []Value

	// Reseen holds nodes that were reached again after their first
	// visit, once per extra arrival. It is diagnostic only.
	Reseen []Value

	index map[any]int
}

// Index returns the position of value in Seen.
func (walked *Walked) Index(value Value) (int, bool) {
	position, ok := walked.index[identity(value)]
	return position, ok
}

// Walk traverses the graph under root depth-first in pre-order. A node
// is visited before its children. List items are visited in position
// order and map entries in insertion order, key before value. A node
// seen before is not descended into again, so cyclic graphs terminate.
//
// If check is non-nil it is called on every node the first time it is
// reached, before the node is recorded or descended into. An error
// from check aborts the walk and is returned unchanged.
func Walk(root Value, check func(Value) error) (*Walked, error) {
	walked := &Walked{index: make(map[any]int)}
	if err := walked.visit(root, check); err != nil {
		return nil, err
	}
	return walked, nil
}

func (walked *Walked) visit(value Value, check func(Value) error) error {
	id := identity(value)
	if _, ok := walked.index[id]; ok {
		walked.Reseen = append(walked.Reseen, value)
		return nil
	}
	if check != nil {
		if err := check(value); err != nil {
			return err
		}
	}
	walked.index[id] = len(walked.Seen)
	walked.Seen = append(walked.Seen, value)

	switch node := value.(type) {
	case *List:
		if node == nil {
			return nil
		}
		for _, item := range node.items {
			if err := walked.visit(item, check); err != nil {
				return err
			}
		}
	case *Map:
		if node == nil {
			return nil
		}
		for _, entry := range node.entries {
			if err := walked.visit(entry.Key, check); err != nil {
				return err
			}
			if err := walked.visit(entry.Value, check); err != nil {
				return err
			}
		}
	}
	return nil
}
