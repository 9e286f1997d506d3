// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/intn"
	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/storage"
)

var testContract = codec.CreateAddress(1, ids.GenerateTestID())

// wrap reduces x into the range of k.
func wrap(k intn.Kind, x *big.Int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), k.Bits)
	r := new(big.Int).Sub(x, k.Min())
	r.Mod(r, mod)
	return r.Add(r, k.Min())
}

type slotMethodSet struct {
	get, getBuiltin, set, setBuiltin, increment *Method
}

func methodsBySlot(c *Counter) map[uint8]*slotMethodSet {
	out := make(map[uint8]*slotMethodSet)
	for _, m := range c.Methods() {
		s, ok := out[m.Slot]
		if !ok {
			s = &slotMethodSet{}
			out[m.Slot] = s
		}
		switch m.Op {
		case OpGet:
			s.get = m
		case OpGetBuiltin:
			s.getBuiltin = m
		case OpSet:
			s.set = m
		case OpSetBuiltin:
			s.setBuiltin = m
		case OpIncrement:
			s.increment = m
		}
	}
	return out
}

func call(t *testing.T, mu state.Mutable, m *Method, args ...*big.Int) []*big.Int {
	out, err := m.Call(context.TODO(), mu, testContract, args)
	require.NoError(t, err, m.Name)
	return out
}

func get(t *testing.T, mu state.Mutable, m *Method) *big.Int {
	out := call(t, mu, m)
	require.Len(t, out, 1)
	return out[0]
}

func boundaries(k intn.Kind) []*big.Int {
	one := big.NewInt(1)
	vs := []*big.Int{
		k.Min(),
		k.Max(),
		big.NewInt(0),
		new(big.Int).Sub(k.Max(), one),
		new(big.Int).Add(k.Min(), one),
	}
	if k.Signed {
		vs = append(vs, big.NewInt(-1))
	}
	return vs
}

func TestMethodTable(t *testing.T) {
	require := require.New(t)
	c := New()

	require.Len(c.Methods(), 74)
	seen := make(map[string]struct{})
	for _, m := range c.Methods() {
		_, dup := seen[m.Name]
		require.False(dup, m.Name)
		seen[m.Name] = struct{}{}

		got, ok := c.Method(m.Name)
		require.True(ok)
		require.Same(m, got)
		require.Less(m.Slot, uint8(NumSlots))
		require.True(m.Kind.HasNative() || (m.Op != OpGetBuiltin && m.Op != OpSetBuiltin), m.Name)
	}

	names := make([]string, 0, 5)
	for _, m := range c.Methods()[:5] {
		names = append(names, m.Name)
	}
	require.Equal([]string{"getI8", "getI8Builtin", "setI8", "setI8Builtin", "incrementI8"}, names)

	for _, name := range []string{"getI24Builtin", "setU24Builtin", "getI160Builtin", "setU200Builtin", "getU256Builtin"} {
		_, ok := c.Method(name)
		require.False(ok, name)
	}
	for _, name := range []string{"getI24", "setU24", "incrementU200", "getI256", "getU128Builtin", "setI128Builtin"} {
		_, ok := c.Method(name)
		require.True(ok, name)
	}
}

func TestSlotLayout(t *testing.T) {
	require := require.New(t)
	c := New()

	for id, m := range methodsBySlot(c) {
		require.NotNil(m.get)
		require.NotNil(m.set)
		require.NotNil(m.increment)
		require.Equal(m.get.Kind.HasNative(), m.getBuiltin != nil)
		require.Equal(m.get.Kind.HasNative(), m.setBuiltin != nil)
		require.Equal(id, m.get.Slot)
	}
	require.Len(methodsBySlot(c), NumSlots)

	require.Equal(uint8(0), c.Signed8.ID())
	require.Equal("unsigned256", c.Unsigned256.Name())
	require.Equal(uint8(17), c.Unsigned256.ID())
	require.Equal(intn.Kind{Bits: 200, Signed: true}, c.Signed200.Kind())
}

func TestUnsetSlotsReadZero(t *testing.T) {
	require := require.New(t)
	mu := state.MutableStorage{}

	for _, m := range methodsBySlot(New()) {
		require.Zero(get(t, mu, m.get).Sign())
		if m.getBuiltin != nil {
			require.Zero(get(t, mu, m.getBuiltin).Sign())
		}
	}
}

func TestGetAfterSet(t *testing.T) {
	for _, m := range methodsBySlot(New()) {
		t.Run(m.get.Name, func(t *testing.T) {
			require := require.New(t)
			mu := state.MutableStorage{}

			for _, v := range boundaries(m.get.Kind) {
				call(t, mu, m.set, v)
				require.Zero(v.Cmp(get(t, mu, m.get)), "set %s", v)
			}
		})
	}
}

func TestBuiltinMatchesBitPattern(t *testing.T) {
	for _, m := range methodsBySlot(New()) {
		if m.getBuiltin == nil {
			continue
		}
		t.Run(m.getBuiltin.Name, func(t *testing.T) {
			require := require.New(t)
			mu := state.MutableStorage{}

			for _, v := range boundaries(m.get.Kind) {
				call(t, mu, m.set, v)
				require.Zero(v.Cmp(get(t, mu, m.getBuiltin)), "set %s", v)

				call(t, mu, m.setBuiltin, v)
				require.Zero(v.Cmp(get(t, mu, m.get)), "setBuiltin %s", v)
			}
		})
	}
}

func TestTypedBuiltinAccessors(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.MutableStorage{}
	c := New()

	require.NoError(c.Signed8.Set(ctx, mu, testContract, intn.Min[intn.I8]()))
	n8, err := c.Signed8.GetBuiltin(ctx, mu, testContract)
	require.NoError(err)
	require.Equal(int8(-128), n8)

	require.NoError(c.Unsigned64.SetBuiltin(ctx, mu, testContract, ^uint64(0)))
	u64, err := c.Unsigned64.Get(ctx, mu, testContract)
	require.NoError(err)
	require.True(u64.Equal(intn.Max[intn.U64]()))

	require.NoError(c.Signed128.SetBuiltin(ctx, mu, testContract, intn.Int128{Hi: -1, Lo: ^uint64(0)}))
	i128, err := c.Signed128.Get(ctx, mu, testContract)
	require.NoError(err)
	require.Equal(big.NewInt(-1), i128.Big())

	require.NoError(c.Unsigned128.Set(ctx, mu, testContract, intn.Max[intn.U128]()))
	u128, err := c.Unsigned128.GetBuiltin(ctx, mu, testContract)
	require.NoError(err)
	require.Equal(intn.Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, u128)
}

func TestIncrementAtMaxWraps(t *testing.T) {
	for _, m := range methodsBySlot(New()) {
		t.Run(m.increment.Name, func(t *testing.T) {
			require := require.New(t)
			mu := state.MutableStorage{}

			k := m.get.Kind
			call(t, mu, m.set, k.Max())
			call(t, mu, m.increment)
			require.Zero(k.Min().Cmp(get(t, mu, m.get)))
		})
	}
}

func TestRepeatedIncrement(t *testing.T) {
	for _, m := range methodsBySlot(New()) {
		t.Run(m.increment.Name, func(t *testing.T) {
			require := require.New(t)

			k := m.get.Kind
			starts := []*big.Int{
				big.NewInt(0),
				new(big.Int).Sub(k.Max(), big.NewInt(2)),
				k.Min(),
			}
			for _, v0 := range starts {
				mu := state.MutableStorage{}
				call(t, mu, m.set, v0)
				for i := int64(1); i <= 5; i++ {
					call(t, mu, m.increment)
					want := wrap(k, new(big.Int).Add(v0, big.NewInt(i)))
					require.Zero(want.Cmp(get(t, mu, m.get)), "v0=%s k=%d", v0, i)
				}
			}
		})
	}
}

func TestSlotIndependence(t *testing.T) {
	require := require.New(t)
	slots := methodsBySlot(New())

	initial := func(id uint8) *big.Int {
		return big.NewInt(int64(id) + 1)
	}
	for target, tm := range slots {
		mu := state.MutableStorage{}
		for id, m := range slots {
			call(t, mu, m.set, initial(id))
		}

		call(t, mu, tm.set, tm.get.Kind.Max())
		call(t, mu, tm.increment)
		if tm.setBuiltin != nil {
			call(t, mu, tm.setBuiltin, big.NewInt(3))
		}

		for id, m := range slots {
			if id == target {
				continue
			}
			require.Zero(initial(id).Cmp(get(t, mu, m.get)), "%s changed by %s", m.get.Name, tm.set.Name)
		}
	}
}

func TestScenario(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.MutableStorage{}
	c := New()

	require.NoError(c.Unsigned8.Set(ctx, mu, testContract, intn.MustFromBig[intn.U8](big.NewInt(255))))
	require.NoError(c.Unsigned8.Increment(ctx, mu, testContract))
	u8, err := c.Unsigned8.Get(ctx, mu, testContract)
	require.NoError(err)
	require.True(u8.IsZero())

	require.NoError(c.Signed8.Set(ctx, mu, testContract, intn.MustFromBig[intn.I8](big.NewInt(127))))
	require.NoError(c.Signed8.Increment(ctx, mu, testContract))
	i8, err := c.Signed8.GetBuiltin(ctx, mu, testContract)
	require.NoError(err)
	require.Equal(int8(-128), i8)

	// Unsigned24 is a plain Slot; it has no builtin accessors.
	require.NoError(c.Unsigned24.Set(ctx, mu, testContract, intn.MustFromBig[intn.U24](big.NewInt(10))))
	require.NoError(c.Unsigned24.Increment(ctx, mu, testContract))
	u24, err := c.Unsigned24.Get(ctx, mu, testContract)
	require.NoError(err)
	require.Equal("11", u24.String())

	require.NoError(c.Unsigned256.Set(ctx, mu, testContract, intn.MustFromBig[intn.U256](big.NewInt(10))))
	require.NoError(c.Unsigned256.Increment(ctx, mu, testContract))
	u256, err := c.Unsigned256.Get(ctx, mu, testContract)
	require.NoError(err)
	require.Equal(int64(11), u256.Big().Int64())
}

// Every slot follows the same sequence: set, read back, builtin set, read
// back, increment and read back through both accessors.
func TestExampleSequence(t *testing.T) {
	for _, m := range methodsBySlot(New()) {
		t.Run(fmt.Sprintf("slot%d", m.get.Slot), func(t *testing.T) {
			require := require.New(t)
			mu := state.MutableStorage{}

			call(t, mu, m.set, big.NewInt(10))
			require.Equal(int64(10), get(t, mu, m.get).Int64())

			want := int64(11)
			if m.setBuiltin != nil {
				call(t, mu, m.setBuiltin, big.NewInt(100))
				require.Equal(int64(100), get(t, mu, m.getBuiltin).Int64())
				want = 101
			}

			call(t, mu, m.increment)
			require.Equal(want, get(t, mu, m.get).Int64())
			if m.getBuiltin != nil {
				require.Equal(want, get(t, mu, m.getBuiltin).Int64())
			}
		})
	}
}

func TestCallErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.MutableStorage{}
	c := New()

	setU8, _ := c.Method("setU8")
	_, err := setU8.Call(ctx, mu, testContract, nil)
	require.ErrorIs(err, ErrInvalidArgs)

	_, err = setU8.Call(ctx, mu, testContract, []*big.Int{big.NewInt(256)})
	require.ErrorIs(err, ErrInvalidArgs)
	require.ErrorIs(err, intn.ErrOutOfRange)

	_, err = setU8.Call(ctx, mu, testContract, []*big.Int{big.NewInt(-1)})
	require.ErrorIs(err, intn.ErrOutOfRange)

	getU8, _ := c.Method("getU8")
	_, err = getU8.Call(ctx, mu, testContract, []*big.Int{big.NewInt(1)})
	require.ErrorIs(err, ErrInvalidArgs)

	// Rejected calls leave the slot untouched.
	require.Zero(get(t, mu, getU8).Sign())
}

func TestCorruptSlot(t *testing.T) {
	require := require.New(t)
	c := New()

	mu := state.MutableStorage{
		string(storage.SlotKey(testContract, c.Signed16.ID())): {1, 2, 3},
	}
	_, err := c.Signed16.Get(context.TODO(), mu, testContract)
	require.ErrorIs(err, ErrCorruptSlot)
	require.ErrorIs(c.Signed16.Increment(context.TODO(), mu, testContract), ErrCorruptSlot)
}

func TestOpString(t *testing.T) {
	require := require.New(t)
	require.Equal("setBuiltin", OpSetBuiltin.String())
	require.True(OpIncrement.Mutates())
	require.False(OpGetBuiltin.Mutates())
}
