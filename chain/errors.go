// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidObject    = errors.New("invalid object")
	ErrInputTooLarge    = errors.New("input too large")
	ErrOutputTooLarge   = errors.New("output too large")
	ErrMissingInput     = errors.New("missing input")
)
