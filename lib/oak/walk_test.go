// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"errors"
	"testing"
)

func TestWalkOrder(t *testing.T) {
	inner := NewList(NewInt(2), NewInt(3))
	root := NewMap(
		Entry{Sym("a"), inner},
		Entry{Sym("b"), NewInt(1)},
		Entry{Sym("c"), inner},
	)

	walked, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []Value{root, Sym("a"), inner, NewInt(2), NewInt(3), Sym("b"), NewInt(1), Sym("c")}
	if len(walked.Seen) != len(want) {
		t.Fatalf("Seen = %s, want %d nodes", Inspect(NewList(walked.Seen...)), len(want))
	}
	for index := range want {
		if !Equal(walked.Seen[index], want[index]) {
			t.Errorf("Seen[%d] = %s, want %s", index, Inspect(walked.Seen[index]), Inspect(want[index]))
		}
		if position, ok := walked.Index(want[index]); !ok || position != index {
			t.Errorf("Index(%s) = %d, %v; want %d", Inspect(want[index]), position, ok, index)
		}
	}
	if len(walked.Reseen) != 1 || walked.Reseen[0] != Value(inner) {
		t.Errorf("Reseen = %v, want the shared list once", walked.Reseen)
	}
}

func TestWalkCycleTerminates(t *testing.T) {
	root := NewList()
	root.Append(root, root)

	walked, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(walked.Seen) != 1 || len(walked.Reseen) != 2 {
		t.Errorf("Seen %d, Reseen %d; want 1, 2", len(walked.Seen), len(walked.Reseen))
	}
}

func TestWalkCheckRunsBeforeDescent(t *testing.T) {
	errStop := errors.New("stop")
	var checked []Value
	root := NewList(NewList(NewInt(1)), NewInt(2))

	_, err := Walk(root, func(value Value) error {
		checked = append(checked, value)
		if _, isList := value.(*List); isList && len(checked) == 2 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Walk error = %v, want errStop", err)
	}
	if len(checked) != 2 {
		t.Errorf("check ran on %d nodes, want 2", len(checked))
	}
}
