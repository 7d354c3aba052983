// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"fmt"
	"strconv"
	"strings"
)

// Inspect renders value for humans:
//
//	[1, 2.5, "text", :name, null, {:key => true}]
//
// A container reached more than once is labelled where it first
// appears and shown as a reference after that, so shared and cyclic
// graphs print in time linear in their size:
//
//	&1 {:self => *1, :list => &2 [1], :again => *2}
func Inspect(value Value) string {
	printer := &inspector{
		references: make(map[any]int),
		labels:     make(map[any]int),
	}
	printer.count(value)
	printer.inspect(value)
	return printer.builder.String()
}

type inspector struct {
	builder strings.Builder
	// references counts the edges into each container.
	references map[any]int
	// labels numbers the shared containers already printed.
	labels map[any]int
}

func (p *inspector) count(value Value) {
	switch node := value.(type) {
	case *List:
		if node == nil {
			return
		}
		p.references[node]++
		if p.references[node] > 1 {
			return
		}
		for _, item := range node.items {
			p.count(item)
		}
	case *Map:
		if node == nil {
			return
		}
		p.references[node]++
		if p.references[node] > 1 {
			return
		}
		for _, entry := range node.entries {
			p.count(entry.Key)
			p.count(entry.Value)
		}
	}
}

// label writes the anchor or reference for a shared container and
// reports whether its contents still need printing.
func (p *inspector) label(node any) bool {
	if p.references[node] < 2 {
		return true
	}
	if label, ok := p.labels[node]; ok {
		fmt.Fprintf(&p.builder, "*%d", label)
		return false
	}
	label := len(p.labels) + 1
	p.labels[node] = label
	fmt.Fprintf(&p.builder, "&%d ", label)
	return true
}

func (p *inspector) inspect(value Value) {
	builder := &p.builder
	switch node := value.(type) {
	case nil:
		builder.WriteString("<nil>")
	case Null:
		builder.WriteString("null")
	case Bool:
		builder.WriteString(strconv.FormatBool(bool(node)))
	case Int:
		builder.WriteString(node.Text())
	case Float:
		builder.Write(appendFloat(nil, float64(node)))
	case String:
		builder.WriteString(strconv.Quote(node.Text))
	case Symbol:
		builder.WriteByte(':')
		if keyNamePattern.MatchString(node.Name) {
			builder.WriteString(node.Name)
		} else {
			builder.WriteString(strconv.Quote(node.Name))
		}
	case *List:
		if node == nil {
			builder.WriteString("<nil list>")
			return
		}
		if !p.label(node) {
			return
		}
		builder.WriteByte('[')
		for index, item := range node.items {
			if index > 0 {
				builder.WriteString(", ")
			}
			p.inspect(item)
		}
		builder.WriteByte(']')
	case *Map:
		if node == nil {
			builder.WriteString("<nil map>")
			return
		}
		if !p.label(node) {
			return
		}
		builder.WriteByte('{')
		for index, entry := range node.entries {
			if index > 0 {
				builder.WriteString(", ")
			}
			p.inspect(entry.Key)
			builder.WriteString(" => ")
			p.inspect(entry.Value)
		}
		builder.WriteByte('}')
	default:
		fmt.Fprintf(builder, "<%T>", value)
	}
}
