// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/intn"
	"github.com/ava-labs/intvm/state"
)

type Op uint8

const (
	OpGet Op = iota
	OpGetBuiltin
	OpSet
	OpSetBuiltin
	OpIncrement
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpGetBuiltin:
		return "getBuiltin"
	case OpSet:
		return "set"
	case OpSetBuiltin:
		return "setBuiltin"
	case OpIncrement:
		return "increment"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Mutates reports whether the operation writes its slot.
func (o Op) Mutates() bool {
	return o >= OpSet
}

type handler func(ctx context.Context, mu state.Mutable, contract codec.Address, arg *big.Int) (*big.Int, error)

// Method is one named accessor of a slot. Arguments and results are carried
// as big integers and converted to the slot width at the call boundary.
type Method struct {
	Name string
	Slot uint8
	Kind intn.Kind
	Op   Op

	handler handler
}

// Inputs returns the kinds of the arguments of m.
func (m *Method) Inputs() []intn.Kind {
	if m.Op == OpSet || m.Op == OpSetBuiltin {
		return []intn.Kind{m.Kind}
	}
	return nil
}

// Outputs returns the kinds of the results of m.
func (m *Method) Outputs() []intn.Kind {
	if m.Op == OpGet || m.Op == OpGetBuiltin {
		return []intn.Kind{m.Kind}
	}
	return nil
}

// Call runs m against the instance at [contract]. Every argument must fit
// the width of the slot.
func (m *Method) Call(ctx context.Context, mu state.Mutable, contract codec.Address, args []*big.Int) ([]*big.Int, error) {
	inputs := m.Inputs()
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidArgs, m.Name, len(inputs), len(args))
	}
	var arg *big.Int
	if len(args) == 1 {
		arg = args[0]
	}
	out, err := m.handler(ctx, mu, contract, arg)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return []*big.Int{out}, nil
}

func suffix(k intn.Kind) string {
	if k.Signed {
		return fmt.Sprintf("I%d", k.Bits)
	}
	return fmt.Sprintf("U%d", k.Bits)
}

func parseArg[W intn.Width](name string, arg *big.Int) (intn.Value[W], error) {
	v, err := intn.FromBig[W](arg)
	if err != nil {
		return v, fmt.Errorf("%w: %s: %w", ErrInvalidArgs, name, err)
	}
	return v, nil
}

func slotMethods[W intn.Width](s Slot[W]) []*Method {
	k := s.Kind()
	sfx := suffix(k)
	return []*Method{
		{
			Name: "get" + sfx, Slot: s.ID(), Kind: k, Op: OpGet,
			handler: func(ctx context.Context, mu state.Mutable, contract codec.Address, _ *big.Int) (*big.Int, error) {
				v, err := s.Get(ctx, mu, contract)
				if err != nil {
					return nil, err
				}
				return v.Big(), nil
			},
		},
		{
			Name: "set" + sfx, Slot: s.ID(), Kind: k, Op: OpSet,
			handler: func(ctx context.Context, mu state.Mutable, contract codec.Address, arg *big.Int) (*big.Int, error) {
				v, err := parseArg[W]("set"+sfx, arg)
				if err != nil {
					return nil, err
				}
				return nil, s.Set(ctx, mu, contract, v)
			},
		},
		{
			Name: "increment" + sfx, Slot: s.ID(), Kind: k, Op: OpIncrement,
			handler: func(ctx context.Context, mu state.Mutable, contract codec.Address, _ *big.Int) (*big.Int, error) {
				return nil, s.Increment(ctx, mu, contract)
			},
		},
	}
}

// nativeMethods extends [slotMethods] with the builtin accessors, in the
// order get, getBuiltin, set, setBuiltin, increment.
func nativeMethods[W intn.Width, N intn.Native](s NativeSlot[W, N]) []*Method {
	base := slotMethods(s.Slot)
	k := s.Kind()
	sfx := suffix(k)
	getBuiltin := &Method{
		Name: "get" + sfx + "Builtin", Slot: s.ID(), Kind: k, Op: OpGetBuiltin,
		handler: func(ctx context.Context, mu state.Mutable, contract codec.Address, _ *big.Int) (*big.Int, error) {
			n, err := s.GetBuiltin(ctx, mu, contract)
			if err != nil {
				return nil, err
			}
			return intn.NativeBig(n), nil
		},
	}
	setBuiltin := &Method{
		Name: "set" + sfx + "Builtin", Slot: s.ID(), Kind: k, Op: OpSetBuiltin,
		handler: func(ctx context.Context, mu state.Mutable, contract codec.Address, arg *big.Int) (*big.Int, error) {
			v, err := parseArg[W]("set"+sfx+"Builtin", arg)
			if err != nil {
				return nil, err
			}
			return nil, s.SetBuiltin(ctx, mu, contract, intn.ToNative[N](v))
		},
	}
	return []*Method{base[0], getBuiltin, base[1], setBuiltin, base[2]}
}
