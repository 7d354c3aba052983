// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned when a value graph contains a node
	// that is not one of the supported kinds.
	ErrUnsupported = errors.New("oak: unsupported value")

	// ErrMalformed is returned for any string that cannot be decoded:
	// grammar violations, size mismatches, failed redundancy checks and
	// failed authentication all look the same to the caller.
	ErrMalformed = errors.New("oak: malformed or corrupt string")

	// ErrMissingKey is returned when an envelope names an encryption key
	// that the supplied key chain cannot provide.
	ErrMissingKey = fmt.Errorf("%w: missing key", ErrMalformed)

	// ErrInvalidOption is returned when options violate a precondition.
	ErrInvalidOption = errors.New("oak: invalid option")

	// ErrInvalidKey is returned for bad key material or key names.
	ErrInvalidKey = fmt.Errorf("%w: invalid credential", ErrInvalidOption)
)

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnsupported}, args...)...)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}

func invalidOption(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidOption}, args...)...)
}

func invalidKey(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidKey}, args...)...)
}
