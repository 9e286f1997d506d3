// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package intn

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestKindBounds(t *testing.T) {
	tests := []struct {
		kind Kind
		min  *big.Int
		max  *big.Int
	}{
		{Kind{Bits: 8, Signed: true}, big.NewInt(-128), big.NewInt(127)},
		{Kind{Bits: 8}, big.NewInt(0), big.NewInt(255)},
		{Kind{Bits: 24, Signed: true}, big.NewInt(-8_388_608), big.NewInt(8_388_607)},
		{Kind{Bits: 24}, big.NewInt(0), big.NewInt(16_777_215)},
		{
			Kind{Bits: 256, Signed: true},
			new(big.Int).Neg(bigPow2(255)),
			new(big.Int).Sub(bigPow2(255), big.NewInt(1)),
		},
		{Kind{Bits: 256}, big.NewInt(0), new(big.Int).Sub(bigPow2(256), big.NewInt(1))},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require := require.New(t)
			require.Zero(tt.min.Cmp(tt.kind.Min()))
			require.Zero(tt.max.Cmp(tt.kind.Max()))
			require.True(tt.kind.Fits(tt.min))
			require.True(tt.kind.Fits(tt.max))
			require.False(tt.kind.Fits(new(big.Int).Sub(tt.min, big.NewInt(1))))
			require.False(tt.kind.Fits(new(big.Int).Add(tt.max, big.NewInt(1))))
		})
	}
}

func TestParseKind(t *testing.T) {
	require := require.New(t)

	k, err := ParseKind("int24")
	require.NoError(err)
	require.Equal(Kind{Bits: 24, Signed: true}, k)

	k, err = ParseKind("uint200")
	require.NoError(err)
	require.Equal(Kind{Bits: 200}, k)

	for _, bad := range []string{"", "int", "uint7", "int264", "int08", "uint8x", "bytes32"} {
		_, err := ParseKind(bad)
		require.ErrorIs(err, ErrInvalidKind, bad)
	}
}

func TestKindHasNative(t *testing.T) {
	require := require.New(t)
	for _, bits := range []uint{8, 16, 32, 64, 128} {
		require.True(Kind{Bits: bits}.HasNative())
	}
	for _, bits := range []uint{24, 160, 200, 256} {
		require.False(Kind{Bits: bits, Signed: true}.HasNative())
	}
}

// roundTrip checks get-after-set semantics at the value level: every
// boundary survives both the numeric and the byte encoding.
func roundTrip[W Width](t *testing.T) {
	k := KindOf[W]()
	t.Run(k.String(), func(t *testing.T) {
		require := require.New(t)

		hi := k.Max()
		cases := []*big.Int{
			k.Min(),
			hi,
			big.NewInt(0),
			new(big.Int).Sub(hi, big.NewInt(1)),
		}
		if k.Signed {
			cases = append(cases, big.NewInt(-1))
		}
		for _, x := range cases {
			v, err := FromBig[W](x)
			require.NoError(err)
			require.Zero(x.Cmp(v.Big()), "value %s", x)

			b := v.Bytes()
			require.Len(b, k.Len())
			decoded, err := FromBytes[W](b)
			require.NoError(err)
			require.True(v.Equal(decoded))
		}

		_, err := FromBig[W](new(big.Int).Add(hi, big.NewInt(1)))
		require.ErrorIs(err, ErrOutOfRange)
		_, err = FromBig[W](new(big.Int).Sub(k.Min(), big.NewInt(1)))
		require.ErrorIs(err, ErrOutOfRange)
		_, err = FromBytes[W](make([]byte, k.Len()+1))
		require.ErrorIs(err, ErrInvalidLength)

		require.Zero(k.Min().Cmp(Min[W]().Big()))
		require.Zero(hi.Cmp(Max[W]().Big()))
	})
}

func TestValueRoundTrip(t *testing.T) {
	roundTrip[I8](t)
	roundTrip[I16](t)
	roundTrip[I24](t)
	roundTrip[I32](t)
	roundTrip[I64](t)
	roundTrip[I128](t)
	roundTrip[I160](t)
	roundTrip[I200](t)
	roundTrip[I256](t)
	roundTrip[U8](t)
	roundTrip[U16](t)
	roundTrip[U24](t)
	roundTrip[U32](t)
	roundTrip[U64](t)
	roundTrip[U128](t)
	roundTrip[U160](t)
	roundTrip[U200](t)
	roundTrip[U256](t)
}

func wraps[W Width](t *testing.T) {
	k := KindOf[W]()
	t.Run(k.String(), func(t *testing.T) {
		require := require.New(t)

		require.True(Max[W]().Inc().Equal(Min[W]()))
		require.Zero(k.Min().Cmp(Max[W]().Inc().Big()))

		ten, err := FromInt64[W](10)
		require.NoError(err)
		require.Equal("11", ten.Inc().String())

		// k increments equal a single wrapped addition
		start := new(big.Int).Sub(k.Max(), big.NewInt(2))
		v := MustFromBig[W](start)
		stepped := v
		for i := 0; i < 5; i++ {
			stepped = stepped.Inc()
		}
		require.True(stepped.Equal(v.AddUint64(5)))

		expected := new(big.Int).Add(start, big.NewInt(5))
		expected.Sub(expected, k.Min())
		expected.Mod(expected, k.modulus())
		expected.Add(expected, k.Min())
		require.Zero(expected.Cmp(stepped.Big()))
	})
}

func TestIncrementWraps(t *testing.T) {
	wraps[I8](t)
	wraps[I16](t)
	wraps[I24](t)
	wraps[I32](t)
	wraps[I64](t)
	wraps[I128](t)
	wraps[I160](t)
	wraps[I200](t)
	wraps[I256](t)
	wraps[U8](t)
	wraps[U16](t)
	wraps[U24](t)
	wraps[U32](t)
	wraps[U64](t)
	wraps[U128](t)
	wraps[U160](t)
	wraps[U200](t)
	wraps[U256](t)
}

func TestIncrementBoundaries(t *testing.T) {
	require := require.New(t)

	u8, err := FromUint64[U8](255)
	require.NoError(err)
	require.True(u8.Inc().IsZero())

	i8, err := FromInt64[I8](127)
	require.NoError(err)
	require.Equal(int64(-128), i8.Inc().Big().Int64())

	minusOne, err := FromInt64[I200](-1)
	require.NoError(err)
	require.True(minusOne.Inc().IsZero())
	require.Equal(-1, minusOne.Sign())
	require.Equal(0, minusOne.Inc().Sign())
}

func TestSignedBytesAreTwosComplement(t *testing.T) {
	require := require.New(t)

	v, err := FromInt64[I24](-2)
	require.NoError(err)
	require.Equal([]byte{0xff, 0xff, 0xfe}, v.Bytes())

	v, err = FromInt64[I24](-8_388_608)
	require.NoError(err)
	require.Equal([]byte{0x80, 0x00, 0x00}, v.Bytes())

	u, err := FromUint64[U24](0x010203)
	require.NoError(err)
	require.Equal([]byte{0x01, 0x02, 0x03}, u.Bytes())
}

func TestValueJSON(t *testing.T) {
	require := require.New(t)

	v, err := FromInt64[I160](-42)
	require.NoError(err)
	b, err := json.Marshal(v)
	require.NoError(err)
	require.Equal(`"-42"`, string(b))

	var decoded Value[I160]
	require.NoError(json.Unmarshal(b, &decoded))
	require.True(v.Equal(decoded))

	var small Value[U8]
	require.ErrorIs(json.Unmarshal([]byte(`"256"`), &small), ErrOutOfRange)
}
