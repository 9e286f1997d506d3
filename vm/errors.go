// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrClosed          = errors.New("vm closed")
	ErrInvalidNonce    = errors.New("invalid nonce")
	ErrDuplicateTx     = errors.New("duplicate transaction")
	ErrUnexpectedInput = errors.New("deploy transactions carry no input")
	ErrCallPanicked    = errors.New("call panicked")
)
