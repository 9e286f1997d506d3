// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"fmt"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/intn"
	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/storage"
)

// Slot is one integer field of a counter instance. Its width and signedness
// are fixed by [W]; only its stored value changes.
type Slot[W intn.Width] struct {
	id   uint8
	name string
}

func newSlot[W intn.Width](id uint8, name string) Slot[W] {
	return Slot[W]{id: id, name: name}
}

func (s Slot[W]) ID() uint8 {
	return s.id
}

func (s Slot[W]) Name() string {
	return s.name
}

func (Slot[W]) Kind() intn.Kind {
	return intn.KindOf[W]()
}

// Get returns the stored value. A slot that was never written reads as zero.
func (s Slot[W]) Get(ctx context.Context, im state.Immutable, contract codec.Address) (intn.Value[W], error) {
	raw, ok, err := storage.GetSlot(ctx, im, contract, s.id)
	if err != nil {
		return intn.Value[W]{}, err
	}
	if !ok {
		return intn.Zero[W](), nil
	}
	v, err := intn.FromBytes[W](raw)
	if err != nil {
		return intn.Value[W]{}, fmt.Errorf("%w: %s: %w", ErrCorruptSlot, s.name, err)
	}
	return v, nil
}

// Set overwrites the slot with [v].
func (s Slot[W]) Set(ctx context.Context, mu state.Mutable, contract codec.Address, v intn.Value[W]) error {
	return storage.SetSlot(ctx, mu, contract, s.id, v.Bytes())
}

// Increment adds one to the slot, wrapping from the maximum to the minimum
// of its width.
func (s Slot[W]) Increment(ctx context.Context, mu state.Mutable, contract codec.Address) error {
	v, err := s.Get(ctx, mu, contract)
	if err != nil {
		return err
	}
	return s.Set(ctx, mu, contract, v.Inc())
}

// NativeSlot is a [Slot] whose width matches a native integer type [N]. Only
// these slots offer builtin accessors.
type NativeSlot[W intn.Width, N intn.Native] struct {
	Slot[W]
}

func newNativeSlot[W intn.Width, N intn.Native](id uint8, name string) NativeSlot[W, N] {
	intn.AssertNative[W, N]()
	return NativeSlot[W, N]{Slot: newSlot[W](id, name)}
}

// GetBuiltin returns the stored value as its native type.
func (s NativeSlot[W, N]) GetBuiltin(ctx context.Context, im state.Immutable, contract codec.Address) (N, error) {
	v, err := s.Get(ctx, im, contract)
	if err != nil {
		var zero N
		return zero, err
	}
	return intn.ToNative[N](v), nil
}

// SetBuiltin stores [n] with an identical bit pattern.
func (s NativeSlot[W, N]) SetBuiltin(ctx context.Context, mu state.Mutable, contract codec.Address, n N) error {
	return s.Set(ctx, mu, contract, intn.FromNative[W](n))
}
