// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import (
	"bytes"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ava-labs/intvm/consts"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/intn"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Codec encodes calls and results with the Solidity ABI. Every integer
// that crosses it is checked against the declared width, so out-of-range
// values never reach a slot.
type Codec struct {
	abi     ABI
	geth    gethabi.ABI
	methods map[string]*counter.Method
}

func NewCodec(c *counter.Counter) (*Codec, error) {
	a := NewABI(c.Methods())
	b, err := a.JSON()
	if err != nil {
		return nil, err
	}
	parsed, err := gethabi.JSON(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	methods := make(map[string]*counter.Method, len(c.Methods()))
	for _, m := range c.Methods() {
		methods[m.Name] = m
	}
	return &Codec{abi: a, geth: parsed, methods: methods}, nil
}

func (c *Codec) ABI() ABI {
	return c.abi
}

// Method returns the counter method called [name].
func (c *Codec) Method(name string) (*counter.Method, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return m, nil
}

// Selector returns the 4-byte selector of [name].
func (c *Codec) Selector(name string) ([]byte, error) {
	m, ok := c.geth.Methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return slices.Clone(m.ID), nil
}

// Pack returns the calldata of [name] called with [args].
func (c *Codec) Pack(name string, args ...*big.Int) ([]byte, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	values, err := toABIValues(m.Inputs(), args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c.geth.Pack(name, values...)
}

// Unpack decodes calldata into the method it selects and its arguments.
func (c *Codec) Unpack(input []byte) (*counter.Method, []*big.Int, error) {
	if len(input) < consts.SelectorLen {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrShortInput, len(input))
	}
	gm, err := c.geth.MethodById(input[:consts.SelectorLen])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSelector, hexutil.Encode(input[:consts.SelectorLen]))
	}
	m, err := c.Method(gm.Name)
	if err != nil {
		return nil, nil, err
	}
	values, err := gm.Inputs.Unpack(input[consts.SelectorLen:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, m.Name, err)
	}
	args, err := fromABIValues(m.Inputs(), values)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return m, args, nil
}

// PackOutput encodes the results of [m].
func (c *Codec) PackOutput(m *counter.Method, results []*big.Int) ([]byte, error) {
	gm, ok := c.geth.Methods[m.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m.Name)
	}
	values, err := toABIValues(m.Outputs(), results)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return gm.Outputs.Pack(values...)
}

// UnpackOutput decodes the results returned by [name].
func (c *Codec) UnpackOutput(name string, data []byte) ([]*big.Int, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	values, err := c.geth.Unpack(name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	}
	return fromABIValues(m.Outputs(), values)
}

// ParseArgs parses decimal or 0x-prefixed hex arguments for [name].
func (c *Codec) ParseArgs(name string, raw []string) ([]*big.Int, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	kinds := m.Inputs()
	if len(raw) != len(kinds) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidArgument, name, len(kinds), len(raw))
	}
	args := make([]*big.Int, len(raw))
	for i, s := range raw {
		x, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, s)
		}
		if !kinds[i].Fits(x) {
			return nil, fmt.Errorf("%w: %s does not fit %s", intn.ErrOutOfRange, x, kinds[i])
		}
		args[i] = x
	}
	return args, nil
}

// hasGoInt reports whether go-ethereum represents [k] with a builtin Go
// integer rather than *big.Int.
func hasGoInt(k intn.Kind) bool {
	switch k.Bits {
	case 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

func toABIValues(kinds []intn.Kind, xs []*big.Int) ([]any, error) {
	if len(xs) != len(kinds) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidArgument, len(kinds), len(xs))
	}
	out := make([]any, len(xs))
	for i, x := range xs {
		v, err := toABIValue(kinds[i], x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toABIValue(k intn.Kind, x *big.Int) (any, error) {
	if x == nil {
		return nil, intn.ErrNilValue
	}
	if !k.Fits(x) {
		return nil, fmt.Errorf("%w: %s does not fit %s", intn.ErrOutOfRange, x, k)
	}
	if !hasGoInt(k) {
		return new(big.Int).Set(x), nil
	}
	if k.Signed {
		n := x.Int64()
		switch k.Bits {
		case 8:
			return int8(n), nil
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	}
	n := x.Uint64()
	switch k.Bits {
	case 8:
		return uint8(n), nil
	case 16:
		return uint16(n), nil
	case 32:
		return uint32(n), nil
	default:
		return n, nil
	}
}

func fromABIValues(kinds []intn.Kind, values []any) ([]*big.Int, error) {
	if len(values) != len(kinds) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidArgument, len(kinds), len(values))
	}
	out := make([]*big.Int, len(values))
	for i, v := range values {
		x, err := fromABIValue(v)
		if err != nil {
			return nil, err
		}
		if !kinds[i].Fits(x) {
			return nil, fmt.Errorf("%w: %s does not fit %s", intn.ErrOutOfRange, x, kinds[i])
		}
		out[i] = x
	}
	return out, nil
}

func fromABIValue(v any) (*big.Int, error) {
	switch x := v.(type) {
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, v)
	}
}
