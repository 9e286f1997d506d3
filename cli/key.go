// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/consts"
	"github.com/ava-labs/intvm/crypto/ed25519"
)

var ErrKeyExists = errors.New("key file already exists")

// GenerateKey writes a new private key to [path]. An existing file is never
// overwritten.
func GenerateKey(path string) (ed25519.PrivateKey, error) {
	if _, err := os.Stat(path); err == nil {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrKeyExists, path)
	}
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	return priv, priv.Save(path)
}

// LoadKey accepts either a path to a key file or a hex-encoded key.
func LoadKey(fileOrHex string) (ed25519.PrivateKey, error) {
	if priv, err := ed25519.HexToKey(fileOrHex); err == nil {
		return priv, nil
	}
	return ed25519.LoadKey(fileOrHex)
}

// ParseAddress accepts the hex or bech32 form of an address.
func ParseAddress(s string) (codec.Address, error) {
	if a, err := codec.StringToAddress(s); err == nil {
		return a, nil
	}
	return codec.ParseAddressBech32(consts.HRP, s)
}

// FormatAddress returns the bech32 form of [a], falling back to hex.
func FormatAddress(a codec.Address) string {
	s, err := codec.AddressBech32(consts.HRP, a)
	if err != nil {
		return a.String()
	}
	return s
}
