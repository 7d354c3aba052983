// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// maxFixedDigits is the largest decimal exponent printed in fixed
// notation. Larger magnitudes switch to scientific notation.
const maxFixedDigits = 16

// appendFloat appends the FRIZZY text of f: the shortest digits that
// round-trip, in fixed notation for moderate magnitudes ("3.0",
// "0.0001") and scientific notation otherwise ("1.0e+20", "1.0e-05").
func appendFloat(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	case f == 0:
		if math.Signbit(f) {
			return append(dst, "-0.0"...)
		}
		return append(dst, "0.0"...)
	}

	scientific := strconv.FormatFloat(f, 'e', -1, 64)
	if scientific[0] == '-' {
		dst = append(dst, '-')
		scientific = scientific[1:]
	}
	mantissa, exponentText, _ := strings.Cut(scientific, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exponent, _ := strconv.Atoi(exponentText)
	decimalPoint := exponent + 1

	switch {
	case decimalPoint > 0 && decimalPoint <= maxFixedDigits:
		if len(digits) <= decimalPoint {
			dst = append(dst, digits...)
			dst = append(dst, strings.Repeat("0", decimalPoint-len(digits))...)
			return append(dst, ".0"...)
		}
		dst = append(dst, digits[:decimalPoint]...)
		dst = append(dst, '.')
		return append(dst, digits[decimalPoint:]...)
	case decimalPoint > -4 && decimalPoint <= 0:
		dst = append(dst, "0."...)
		dst = append(dst, strings.Repeat("0", -decimalPoint)...)
		return append(dst, digits...)
	default:
		dst = append(dst, digits[0], '.')
		if len(digits) > 1 {
			dst = append(dst, digits[1:]...)
		} else {
			dst = append(dst, '0')
		}
		dst = append(dst, 'e')
		if exponent < 0 {
			dst = append(dst, '-')
			exponent = -exponent
		} else {
			dst = append(dst, '+')
		}
		if exponent < 10 {
			dst = append(dst, '0')
		}
		return strconv.AppendInt(dst, int64(exponent), 10)
	}
}

// scanFloat reads a float literal from the front of data and returns
// the value and the number of bytes consumed. The accepted grammar is
//
//	-?(Infinity|NaN|[0-9]+(\.[0-9]*)?(e([+-][0-9]*)?)?)
//
// An exponent marker with no digits ("6.0e", "6.0e+") is consumed but
// ignored, as is any exponent after a point with no fraction digits
// ("1.e+5" is 1). Magnitudes beyond the double range saturate to an infinity
// and magnitudes below it to a zero of the same sign.
func scanFloat(data []byte) (float64, int, bool) {
	position := 0
	negative := false
	if position < len(data) && data[position] == '-' {
		negative = true
		position++
	}
	rest := string(data[position:min(len(data), position+len("Infinity"))])
	switch {
	case strings.HasPrefix(rest, "Infinity"):
		if negative {
			return math.Inf(-1), position + len("Infinity"), true
		}
		return math.Inf(1), position + len("Infinity"), true
	case strings.HasPrefix(rest, "NaN"):
		return math.NaN(), position + len("NaN"), true
	}

	start := position
	position = skipDigits(data, position)
	if position == start {
		return 0, 0, false
	}
	significandEnd := position
	bareDot := false
	if position < len(data) && data[position] == '.' {
		position = skipDigits(data, position+1)
		bareDot = position == significandEnd+1
		if !bareDot {
			significandEnd = position
		}
	}
	exponentDigits := false
	if position < len(data) && data[position] == 'e' {
		position++
		if position < len(data) && (data[position] == '+' || data[position] == '-') {
			digitsStart := position + 1
			position = skipDigits(data, digitsStart)
			exponentDigits = position > digitsStart
		}
	}

	literal := string(data[start:significandEnd])
	if exponentDigits && !bareDot {
		literal = string(data[start:position])
	}
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, 0, false
	}
	// Negating after parsing keeps the sign of an underflowed zero.
	if negative {
		value = -value
	}
	return value, position, true
}

func skipDigits(data []byte, position int) int {
	for position < len(data) && data[position] >= '0' && data[position] <= '9' {
		position++
	}
	return position
}
