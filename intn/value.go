// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package intn

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ava-labs/intvm/consts"
)

// Value is an integer of exactly [W] bits.
//
// The value is held as its W-bit pattern (two's complement when [W] is
// signed) with every bit above W cleared. All constructors preserve that
// invariant, so a Value is always in range for its width.
type Value[W Width] struct {
	bits uint256.Int
}

// Zero returns the zero value of width [W].
func Zero[W Width]() Value[W] {
	return Value[W]{}
}

// Min returns the smallest value of width [W].
func Min[W Width]() Value[W] {
	k := KindOf[W]()
	if !k.Signed {
		return Value[W]{}
	}
	var v Value[W]
	v.bits.Lsh(uint256.NewInt(1), k.Bits-1)
	return v
}

// Max returns the largest value of width [W].
func Max[W Width]() Value[W] {
	k := KindOf[W]()
	v := Value[W]{bits: mask(k.Bits)}
	if k.Signed {
		v.bits.Rsh(&v.bits, 1)
	}
	return v
}

// FromBig returns [x] as a value of width [W]. [x] is interpreted by value,
// not by bit pattern, and must lie in the range of [W].
func FromBig[W Width](x *big.Int) (Value[W], error) {
	if x == nil {
		return Value[W]{}, ErrNilValue
	}
	k := KindOf[W]()
	if !k.Fits(x) {
		return Value[W]{}, fmt.Errorf("%w: %s does not fit %s", ErrOutOfRange, x, k)
	}
	p := x
	if x.Sign() < 0 {
		p = new(big.Int).Add(x, k.modulus())
	}
	var v Value[W]
	v.bits.SetFromBig(p)
	return v, nil
}

// MustFromBig is [FromBig] for values known to be in range.
func MustFromBig[W Width](x *big.Int) Value[W] {
	v, err := FromBig[W](x)
	if err != nil {
		panic(err)
	}
	return v
}

// FromInt64 returns [x] as a value of width [W].
func FromInt64[W Width](x int64) (Value[W], error) {
	return FromBig[W](big.NewInt(x))
}

// FromUint64 returns [x] as a value of width [W].
func FromUint64[W Width](x uint64) (Value[W], error) {
	return FromBig[W](new(big.Int).SetUint64(x))
}

// FromBytes decodes the big-endian W-bit pattern produced by [Value.Bytes].
// Every pattern of the right length is a valid value.
func FromBytes[W Width](b []byte) (Value[W], error) {
	k := KindOf[W]()
	if len(b) != k.Len() {
		return Value[W]{}, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidLength, k, k.Len(), len(b))
	}
	var v Value[W]
	v.bits.SetBytes(b)
	return v, nil
}

// Kind returns the runtime description of [W].
func (Value[W]) Kind() Kind {
	return KindOf[W]()
}

// Bytes returns the W-bit pattern of [v] as W/8 big-endian bytes.
func (v Value[W]) Bytes() []byte {
	n := KindOf[W]().Len()
	word := v.bits.Bytes32()
	out := make([]byte, n)
	copy(out, word[consts.WordLen-n:])
	return out
}

// Big returns the numeric value of [v].
func (v Value[W]) Big() *big.Int {
	k := KindOf[W]()
	x := v.bits.ToBig()
	if k.Signed && v.negative() {
		x.Sub(x, k.modulus())
	}
	return x
}

// Sign returns -1, 0 or +1 depending on the sign of [v].
func (v Value[W]) Sign() int {
	switch {
	case v.bits.IsZero():
		return 0
	case KindOf[W]().Signed && v.negative():
		return -1
	default:
		return 1
	}
}

// Inc returns v+1 wrapped to [W] bits. Incrementing the maximum value of an
// unsigned width yields zero and incrementing the maximum value of a signed
// width yields its minimum; overflow is never reported.
func (v Value[W]) Inc() Value[W] {
	return v.AddUint64(1)
}

// AddUint64 returns v+n wrapped to [W] bits.
func (v Value[W]) AddUint64(n uint64) Value[W] {
	m := mask(KindOf[W]().Bits)
	var out Value[W]
	out.bits.AddUint64(&v.bits, n)
	out.bits.And(&out.bits, &m)
	return out
}

// Equal reports whether [v] and [o] hold the same value.
func (v Value[W]) Equal(o Value[W]) bool {
	return v.bits.Eq(&o.bits)
}

// IsZero reports whether [v] is zero.
func (v Value[W]) IsZero() bool {
	return v.bits.IsZero()
}

// String implements fmt.Stringer.
func (v Value[W]) String() string {
	return v.Big().String()
}

// MarshalText encodes [v] as a decimal string.
func (v Value[W]) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a decimal string and checks that it fits [W].
func (v *Value[W]) UnmarshalText(text []byte) error {
	x, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return fmt.Errorf("%w: %q is not a decimal integer", ErrOutOfRange, text)
	}
	parsed, err := FromBig[W](x)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value[W]) negative() bool {
	var top uint256.Int
	top.Rsh(&v.bits, KindOf[W]().Bits-1)
	return top.Uint64() == 1
}

// mask returns 2^bits - 1.
func mask(bits uint) uint256.Int {
	var m uint256.Int
	if bits >= consts.MaxWordBits {
		m.SetAllOne()
		return m
	}
	m.Lsh(uint256.NewInt(1), bits)
	m.SubUint64(&m, 1)
	return m
}
