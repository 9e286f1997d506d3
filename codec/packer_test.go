// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/intvm/consts"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := CreateAddress(1, id)

	wp := NewWriter(0, consts.NetworkSizeLimit)
	wp.PackByte(7)
	wp.PackBool(true)
	wp.PackUint64(42)
	wp.PackID(id)
	wp.PackAddress(addr)
	wp.PackBytes([]byte{0xde, 0xad})
	wp.PackString("hello")
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	require.Equal(byte(7), rp.UnpackByte())
	require.True(rp.UnpackBool())
	require.Equal(uint64(42), rp.UnpackUint64(true))
	var unpackedID ids.ID
	rp.UnpackID(true, &unpackedID)
	require.Equal(id, unpackedID)
	var unpackedAddr Address
	rp.UnpackAddress(&unpackedAddr)
	require.Equal(addr, unpackedAddr)
	var b []byte
	rp.UnpackBytes(-1, true, &b)
	require.Equal([]byte{0xde, 0xad}, b)
	require.Equal("hello", rp.UnpackString(true))
	require.True(rp.Empty())
	require.NoError(rp.Err())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, consts.NetworkSizeLimit)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerUnpackBytesLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, consts.NetworkSizeLimit)
	wp.PackBytes(make([]byte, 8))
	rp := NewReader(wp.Bytes(), consts.NetworkSizeLimit)
	var b []byte
	rp.UnpackBytes(4, false, &b)
	require.Error(rp.Err())
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)

	rp := NewReader([]byte{0x1, 0x2}, consts.NetworkSizeLimit)
	_ = rp.UnpackUint64(false)
	require.Error(rp.Err())
}
