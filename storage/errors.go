// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrUnknownContract = errors.New("unknown contract")
	ErrContractExists  = errors.New("contract already exists")
	ErrNonceOverflow   = errors.New("nonce overflow")
)
