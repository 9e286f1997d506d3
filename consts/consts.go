// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen            = 32
	ByteLen          = 1
	BoolLen          = 1
	Uint16Len        = 2
	IntLen           = 4
	Uint64Len        = 8
	MaxUint8         = ^uint8(0)
	MaxUint16        = ^uint16(0)
	MaxUint64        = ^uint64(0)
	MaxUint          = ^uint(0)
	MaxInt           = int(MaxUint >> 1)
	NetworkSizeLimit = 2_044_723 // 1.95 MiB

	// MaxWordBits is the widest integer a counter slot can hold.
	MaxWordBits = 256
	WordLen     = MaxWordBits / 8
	// SelectorLen is the length of an ABI method selector.
	SelectorLen = 4

	// HRP is the human readable part of bech32 addresses.
	HRP = "intvm"
)
