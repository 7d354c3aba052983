// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"strconv"
	"unicode"
)

// FRIZZY type tags. Strings and symbols use the lower-case form of
// their tag for a back-reference into the string table.
const (
	frizzyHeader = 'F'
	tagNull      = 'n'
	tagTrue      = 't'
	tagFalse     = 'f'
	tagInt       = 'I'
	tagFloat     = 'F'
	tagString    = 'S'
	tagSymbol    = 'Y'
	tagList      = 'A'
	tagMap       = 'H'
	separator    = '_'
)

// checkSupported rejects nodes the structure layer cannot encode. It
// runs on every node before the walker descends into it, so an
// unsupported node fails the call before any output is produced.
func checkSupported(value Value) error {
	switch node := value.(type) {
	case Null, Bool, Int, Float:
		return nil
	case String:
		if _, ok := node.Encoding.code(); !ok {
			return unsupported("string with encoding %s", node.Encoding)
		}
		return nil
	case Symbol:
		if _, ok := node.Encoding.code(); !ok {
			return unsupported("symbol with encoding %s", node.Encoding)
		}
		return nil
	case *List:
		if node == nil {
			return unsupported("nil *List")
		}
		return nil
	case *Map:
		if node == nil {
			return unsupported("nil *Map")
		}
		return nil
	case nil:
		return unsupported("nil Value")
	default:
		return unsupported("%T", value)
	}
}

// Serialize converts the graph under root into FRIZZY text.
//
// The output starts with 'F' and the number of distinct nodes, then
// one record per node in walk order. Containers refer to their
// children by seen-list index, which is what lets a container refer to
// itself or to a node recorded after it. A string or symbol whose bytes
// were already written is replaced by a reference to the earlier copy.
//
// Returns an error wrapping [ErrUnsupported] if any reachable node is
// not a supported kind.
func Serialize(root Value) ([]byte, error) {
	walked, err := Walk(root, checkSupported)
	if err != nil {
		return nil, err
	}

	// Content of each string or symbol already written in full, mapped
	// to its position in the string table.
	stringTable := make(map[string]int)

	output := make([]byte, 0, 16*len(walked.Seen))
	output = append(output, frizzyHeader)
	output = strconv.AppendInt(output, int64(len(walked.Seen)), 10)

	for _, value := range walked.Seen {
		switch node := value.(type) {
		case Null:
			output = append(output, tagNull)
		case Bool:
			if node {
				output = append(output, tagTrue)
			} else {
				output = append(output, tagFalse)
			}
		case Int:
			output = append(output, tagInt)
			output = append(output, node.Text()...)
		case Float:
			output = append(output, tagFloat)
			output = appendFloat(output, float64(node))
		case String:
			output = appendText(output, stringTable, tagString, node.Text, node.Encoding)
		case Symbol:
			output = appendText(output, stringTable, tagSymbol, node.Name, node.Encoding)
		case *List:
			output = append(output, tagList)
			output = strconv.AppendInt(output, int64(len(node.items)), 10)
			for _, item := range node.items {
				output = append(output, separator)
				output = appendIndex(output, walked, item)
			}
		case *Map:
			output = append(output, tagMap)
			output = strconv.AppendInt(output, int64(len(node.entries)), 10)
			for _, entry := range node.entries {
				output = append(output, separator)
				output = appendIndex(output, walked, entry.Key)
				output = append(output, separator)
				output = appendIndex(output, walked, entry.Value)
			}
		default:
			// Walk already ran checkSupported on every node.
			return nil, unsupported("%T", value)
		}
	}
	return output, nil
}

func appendText(output []byte, stringTable map[string]int, tag byte, text string, encoding Encoding) []byte {
	encodingCode, _ := encoding.code()
	if position, ok := stringTable[text]; ok {
		output = append(output, byte(unicode.ToLower(rune(tag))), encodingCode)
		return strconv.AppendInt(output, int64(position), 10)
	}
	stringTable[text] = len(stringTable)
	output = append(output, tag, encodingCode)
	output = strconv.AppendInt(output, int64(len(text)), 10)
	if len(text) > 0 {
		output = append(output, separator)
		output = append(output, text...)
	}
	return output
}

func appendIndex(output []byte, walked *Walked, value Value) []byte {
	position, _ := walked.Index(value)
	return strconv.AppendInt(output, int64(position), 10)
}
