// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddressText(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0x1, ids.GenerateTestID())
	b, err := json.Marshal(addr)
	require.NoError(err)

	var decoded Address
	require.NoError(json.Unmarshal(b, &decoded))
	require.Equal(addr, decoded)

	require.ErrorIs(decoded.UnmarshalText([]byte("0x0102")), ErrInvalidSize)
}

func TestAddressBech32(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0x1, ids.GenerateTestID())
	s, err := AddressBech32("intvm", addr)
	require.NoError(err)
	require.Contains(s, "intvm1")

	parsed, err := ParseAddressBech32("intvm", s)
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = ParseAddressBech32("other", s)
	require.ErrorIs(err, ErrInvalidAddress)
}

func TestStringToAddress(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0x1, ids.GenerateTestID())
	parsed, err := StringToAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, parsed)

	text, err := addr.MarshalText()
	require.NoError(err)
	parsed, err = StringToAddress(string(text))
	require.NoError(err)
	require.Equal(addr, parsed)
}

func TestToAddress(t *testing.T) {
	require := require.New(t)

	_, err := ToAddress(make([]byte, AddressLen-1))
	require.ErrorIs(err, ErrInvalidSize)

	a, err := ToAddress(make([]byte, AddressLen))
	require.NoError(err)
	require.Equal(EmptyAddress, a)
}

func TestBytesText(t *testing.T) {
	require := require.New(t)

	b := Bytes{0x01, 0xab}
	text, err := b.MarshalText()
	require.NoError(err)
	require.Equal("0x01ab", string(text))

	var decoded Bytes
	require.NoError(decoded.UnmarshalText(text))
	require.Equal(b, decoded)
}
