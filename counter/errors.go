// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "errors"

var (
	ErrCorruptSlot   = errors.New("corrupt slot")
	ErrUnknownMethod = errors.New("unknown method")
	ErrInvalidArgs   = errors.New("invalid arguments")
)
