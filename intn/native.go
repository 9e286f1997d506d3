// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package intn

import (
	"fmt"
	"math/big"
)

// Int128 is a native signed 128-bit integer in two 64-bit words.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Uint128 is a native unsigned 128-bit integer in two 64-bit words.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Big returns the numeric value of [x].
func (x Int128) Big() *big.Int {
	b := new(big.Int).Lsh(big.NewInt(x.Hi), 64)
	return b.Or(b, new(big.Int).SetUint64(x.Lo))
}

func (x Int128) String() string {
	return x.Big().String()
}

// Big returns the numeric value of [x].
func (x Uint128) Big() *big.Int {
	b := new(big.Int).Lsh(new(big.Int).SetUint64(x.Hi), 64)
	return b.Or(b, new(big.Int).SetUint64(x.Lo))
}

func (x Uint128) String() string {
	return x.Big().String()
}

// Native is the set of machine integer types a [Value] can be reinterpreted
// as. There are no native types for 24 bits or for 160 bits and above.
type Native interface {
	int8 | int16 | int32 | int64 | Int128 |
		uint8 | uint16 | uint32 | uint64 | Uint128
}

// NativeKind returns the width and signedness of [N].
func NativeKind[N Native]() Kind {
	var n N
	switch any(n).(type) {
	case int8:
		return Kind{Bits: 8, Signed: true}
	case int16:
		return Kind{Bits: 16, Signed: true}
	case int32:
		return Kind{Bits: 32, Signed: true}
	case int64:
		return Kind{Bits: 64, Signed: true}
	case Int128:
		return Kind{Bits: 128, Signed: true}
	case uint8:
		return Kind{Bits: 8}
	case uint16:
		return Kind{Bits: 16}
	case uint32:
		return Kind{Bits: 32}
	case uint64:
		return Kind{Bits: 64}
	default: // Uint128
		return Kind{Bits: 128}
	}
}

// AssertNative panics with [ErrInvariant] unless [N] has exactly the width
// and signedness of [W].
func AssertNative[W Width, N Native]() {
	if w, n := KindOf[W](), NativeKind[N](); w != n {
		panic(fmt.Errorf("%w: %s is not representable as native %s", ErrInvariant, w, n))
	}
}

// ToNative reinterprets the bit pattern of [v] as the native type [N].
//
// The pairing of [W] and [N] must be exact (see [AssertNative]), in which
// case the conversion is total and lossless.
func ToNative[N Native, W Width](v Value[W]) N {
	AssertNative[W, N]()

	lo := v.bits[0]
	var n N
	switch p := any(&n).(type) {
	case *int8:
		*p = int8(lo)
	case *int16:
		*p = int16(lo)
	case *int32:
		*p = int32(lo)
	case *int64:
		*p = int64(lo)
	case *Int128:
		*p = Int128{Hi: int64(v.bits[1]), Lo: lo}
	case *uint8:
		*p = uint8(lo)
	case *uint16:
		*p = uint16(lo)
	case *uint32:
		*p = uint32(lo)
	case *uint64:
		*p = lo
	case *Uint128:
		*p = Uint128{Hi: v.bits[1], Lo: lo}
	}
	return n
}

// FromNative stores the bit pattern of [n] as a value of width [W].
func FromNative[W Width, N Native](n N) Value[W] {
	AssertNative[W, N]()

	var v Value[W]
	switch x := any(n).(type) {
	case int8:
		v.bits[0] = uint64(uint8(x))
	case int16:
		v.bits[0] = uint64(uint16(x))
	case int32:
		v.bits[0] = uint64(uint32(x))
	case int64:
		v.bits[0] = uint64(x)
	case Int128:
		v.bits[0], v.bits[1] = x.Lo, uint64(x.Hi)
	case uint8:
		v.bits[0] = uint64(x)
	case uint16:
		v.bits[0] = uint64(x)
	case uint32:
		v.bits[0] = uint64(x)
	case uint64:
		v.bits[0] = x
	case Uint128:
		v.bits[0], v.bits[1] = x.Lo, x.Hi
	}
	return v
}

// NativeBig returns the numeric value of [n].
func NativeBig[N Native](n N) *big.Int {
	switch x := any(n).(type) {
	case int8:
		return big.NewInt(int64(x))
	case int16:
		return big.NewInt(int64(x))
	case int32:
		return big.NewInt(int64(x))
	case int64:
		return big.NewInt(x)
	case Int128:
		return x.Big()
	case uint8:
		return new(big.Int).SetUint64(uint64(x))
	case uint16:
		return new(big.Int).SetUint64(uint64(x))
	case uint32:
		return new(big.Int).SetUint64(uint64(x))
	case uint64:
		return new(big.Int).SetUint64(x)
	default:
		return any(n).(Uint128).Big()
	}
}
