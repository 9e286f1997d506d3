// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package intn

import (
	"fmt"
	"math/big"

	"github.com/ava-labs/intvm/consts"
)

// Width fixes the bit width and signedness of a [Value] at the type level.
// Implementations are zero-sized markers.
type Width interface {
	Bits() uint
	Signed() bool
}

type (
	I8   struct{}
	I16  struct{}
	I24  struct{}
	I32  struct{}
	I64  struct{}
	I128 struct{}
	I160 struct{}
	I200 struct{}
	I256 struct{}

	U8   struct{}
	U16  struct{}
	U24  struct{}
	U32  struct{}
	U64  struct{}
	U128 struct{}
	U160 struct{}
	U200 struct{}
	U256 struct{}
)

func (I8) Bits() uint   { return 8 }
func (I16) Bits() uint  { return 16 }
func (I24) Bits() uint  { return 24 }
func (I32) Bits() uint  { return 32 }
func (I64) Bits() uint  { return 64 }
func (I128) Bits() uint { return 128 }
func (I160) Bits() uint { return 160 }
func (I200) Bits() uint { return 200 }
func (I256) Bits() uint { return 256 }

func (I8) Signed() bool   { return true }
func (I16) Signed() bool  { return true }
func (I24) Signed() bool  { return true }
func (I32) Signed() bool  { return true }
func (I64) Signed() bool  { return true }
func (I128) Signed() bool { return true }
func (I160) Signed() bool { return true }
func (I200) Signed() bool { return true }
func (I256) Signed() bool { return true }

func (U8) Bits() uint   { return 8 }
func (U16) Bits() uint  { return 16 }
func (U24) Bits() uint  { return 24 }
func (U32) Bits() uint  { return 32 }
func (U64) Bits() uint  { return 64 }
func (U128) Bits() uint { return 128 }
func (U160) Bits() uint { return 160 }
func (U200) Bits() uint { return 200 }
func (U256) Bits() uint { return 256 }

func (U8) Signed() bool   { return false }
func (U16) Signed() bool  { return false }
func (U24) Signed() bool  { return false }
func (U32) Signed() bool  { return false }
func (U64) Signed() bool  { return false }
func (U128) Signed() bool { return false }
func (U160) Signed() bool { return false }
func (U200) Signed() bool { return false }
func (U256) Signed() bool { return false }

// Kind is the runtime description of a [Width].
type Kind struct {
	Bits   uint `json:"bits"`
	Signed bool `json:"signed"`
}

// KindOf returns the [Kind] described by [W].
func KindOf[W Width]() Kind {
	var w W
	return Kind{Bits: w.Bits(), Signed: w.Signed()}
}

// ParseKind parses a Solidity integer type name ("int24", "uint256").
func ParseKind(s string) (Kind, error) {
	var (
		k    Kind
		bits uint
	)
	switch {
	case len(s) > 4 && s[:4] == "uint":
		if _, err := fmt.Sscanf(s[4:], "%d", &bits); err != nil {
			return Kind{}, fmt.Errorf("%w: %s", ErrInvalidKind, s)
		}
	case len(s) > 3 && s[:3] == "int":
		k.Signed = true
		if _, err := fmt.Sscanf(s[3:], "%d", &bits); err != nil {
			return Kind{}, fmt.Errorf("%w: %s", ErrInvalidKind, s)
		}
	default:
		return Kind{}, fmt.Errorf("%w: %s", ErrInvalidKind, s)
	}
	k.Bits = bits
	if !k.Valid() || k.String() != s {
		return Kind{}, fmt.Errorf("%w: %s", ErrInvalidKind, s)
	}
	return k, nil
}

// Valid reports whether [k] is a byte-aligned width between 8 and 256 bits.
func (k Kind) Valid() bool {
	return k.Bits >= 8 && k.Bits <= consts.MaxWordBits && k.Bits%8 == 0
}

// Len is the number of bytes used to store a value of kind [k].
func (k Kind) Len() int {
	return int(k.Bits / 8)
}

// String returns the Solidity type name of [k].
func (k Kind) String() string {
	if k.Signed {
		return fmt.Sprintf("int%d", k.Bits)
	}
	return fmt.Sprintf("uint%d", k.Bits)
}

// HasNative reports whether a native integer type exists for [k].
func (k Kind) HasNative() bool {
	switch k.Bits {
	case 8, 16, 32, 64, 128:
		return true
	default:
		return false
	}
}

// Min returns the smallest value representable by [k].
func (k Kind) Min() *big.Int {
	if !k.Signed {
		return new(big.Int)
	}
	m := new(big.Int).Lsh(big.NewInt(1), k.Bits-1)
	return m.Neg(m)
}

// Max returns the largest value representable by [k].
func (k Kind) Max() *big.Int {
	bits := k.Bits
	if k.Signed {
		bits--
	}
	m := new(big.Int).Lsh(big.NewInt(1), bits)
	return m.Sub(m, big.NewInt(1))
}

// Fits reports whether [x] lies in [k.Min(), k.Max()].
func (k Kind) Fits(x *big.Int) bool {
	if x == nil {
		return false
	}
	return x.Cmp(k.Min()) >= 0 && x.Cmp(k.Max()) <= 0
}

// modulus returns 2^bits.
func (k Kind) modulus() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), k.Bits)
}
