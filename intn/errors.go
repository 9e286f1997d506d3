// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package intn

import "errors"

var (
	ErrOutOfRange    = errors.New("value out of range")
	ErrInvalidLength = errors.New("invalid encoded length")
	ErrInvalidKind   = errors.New("invalid integer kind")
	ErrNilValue      = errors.New("nil value")

	// ErrInvariant is raised (as a panic) when a value is reinterpreted as a
	// native integer of a different width or signedness. It indicates a
	// programming error, never bad input.
	ErrInvariant = errors.New("integer invariant violated")
)
