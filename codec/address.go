// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressLen = 33

	// fromBits is the number of bits per byte of an address
	fromBits = 8
	// toBits is the number of bits per character of a bech32 string
	toBits = 5
)

// Address identifies a counter contract instance. The first byte is the
// type of the instance and the remaining 32 bytes are derived from the
// transaction that created it.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// ToAddress returns [b] as an Address. [b] must be exactly [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSize, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	decoded, err := LoadHex(string(input), AddressLen)
	if err != nil {
		return err
	}
	copy(a[:], decoded)
	return nil
}

// AddressBech32 returns the bech32 form of [a] with human readable part [hrp].
func AddressBech32(hrp string, a Address) (string, error) {
	p, err := bech32.ConvertBits(a[:], fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p)
}

// ParseAddressBech32 parses the bech32 form of an address and checks that it
// was encoded with [hrp].
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected prefix %q, got %q", ErrInvalidAddress, hrp, phrp)
	}
	b, err := bech32.ConvertBits(p, toBits, fromBits, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// StringToAddress parses the hex form of an address, with or without a 0x
// prefix.
func StringToAddress(s string) (Address, error) {
	var a Address
	return a, a.UnmarshalText([]byte(s))
}
