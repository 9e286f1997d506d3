// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import "errors"

var (
	ErrShortInput      = errors.New("input shorter than selector")
	ErrUnknownSelector = errors.New("unknown selector")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnexpectedType  = errors.New("unexpected abi type")
)
