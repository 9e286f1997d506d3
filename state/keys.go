// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/json"
	"strings"

	"github.com/ava-labs/intvm/codec"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys maps a state key to the permissions required to access it. Use
// [Keys.Add] to merge permissions rather than overwriting them.
type Keys map[string]Permissions

// All acceptable permission options
type Permissions byte

// Add merges [permission] into the permissions already held for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// MarshalJSON encodes keys as hex strings.
func (k Keys) MarshalJSON() ([]byte, error) {
	out := make(map[string]Permissions, len(k))
	for key, perm := range k {
		out[codec.Bytes(key).String()] = perm
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes keys written by [Keys.MarshalJSON].
func (k *Keys) UnmarshalJSON(b []byte) error {
	var raw map[string]Permissions
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Keys, len(raw))
	for key, perm := range raw {
		decoded, err := codec.LoadHex(key, -1)
		if err != nil {
			return err
		}
		out[string(decoded)] = perm
	}
	*k = out
	return nil
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

func (p Permissions) String() string {
	if p == None {
		return "none"
	}
	var parts []string
	if p.Has(Read) {
		parts = append(parts, "read")
	}
	if p.Has(Allocate) {
		parts = append(parts, "allocate")
	}
	if p.Has(Write) {
		parts = append(parts, "write")
	}
	return strings.Join(parts, "|")
}
