// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

const (
	// ED25519ID prefixes signer addresses derived from an ed25519 key.
	ED25519ID uint8 = 0
	// ContractID prefixes counter instance addresses.
	ContractID uint8 = 1

	// MaxInputLen bounds the calldata of a single call.
	MaxInputLen = 4_096
	// MaxOutputLen bounds the returned data stored in a receipt.
	MaxOutputLen = 256
	// MaxErrorLen bounds the error message stored in a receipt.
	MaxErrorLen = 512
)
