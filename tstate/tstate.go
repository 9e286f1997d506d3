// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"bytes"
	"context"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/intvm/keys"
	"github.com/ava-labs/intvm/state"
)

const defaultOps = 4

var _ state.Mutable = (*TState)(nil)

type op struct {
	k string

	pastChanged bool
	pastV       maybe.Maybe[[]byte]
}

// TState buffers changes on top of a read-only base. Nothing reaches the
// base until [TState.Commit] or [TState.WriteBatch] is called, so an
// execution that fails can simply be dropped or rolled back.
type TState struct {
	base    state.Immutable
	changes map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on [TState]. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	committed bool
}

// New returns a new instance of TState reading through to [base].
func New(base state.Immutable) *TState {
	return &TState{
		base:    base,
		changes: make(map[string]maybe.Maybe[[]byte]),
		ops:     make([]*op, 0, defaultOps),
	}
}

func (ts *TState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if v, ok := ts.changes[string(key)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return slices.Clone(v.Value()), nil
	}
	return ts.base.GetValue(ctx, key)
}

// Insert records [value] for [key]. The value must fit in the chunk budget
// encoded in the key.
func (ts *TState) Insert(_ context.Context, key []byte, value []byte) error {
	if ts.committed {
		return ErrAlreadyCommitted
	}
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.record(string(key), maybe.Some(slices.Clone(value)))
	return nil
}

func (ts *TState) Remove(_ context.Context, key []byte) error {
	if ts.committed {
		return ErrAlreadyCommitted
	}
	ts.record(string(key), maybe.Nothing[[]byte]())
	return nil
}

func (ts *TState) record(k string, v maybe.Maybe[[]byte]) {
	past, changed := ts.changes[k]
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastChanged: changed,
		pastV:       past,
	})
	ts.changes[k] = v
}

// OpIndex returns the number of operations done on ts.
func (ts *TState) OpIndex() int {
	return len(ts.ops)
}

// Rollback restores the TState to the ts.op[restorePoint] operation.
func (ts *TState) Rollback(_ context.Context, restorePoint int) error {
	if restorePoint < 0 || restorePoint > len(ts.ops) {
		return ErrInvalidRestore
	}
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		if !op.pastChanged {
			delete(ts.changes, op.k)
			continue
		}
		ts.changes[op.k] = op.pastV
	}
	ts.ops = ts.ops[:restorePoint]
	return nil
}

// Len returns the number of keys changed.
func (ts *TState) Len() int {
	return len(ts.changes)
}

// Iterate calls [f] for every changed key in ascending key order. Removed
// keys are passed with a nil value and [exists] false.
func (ts *TState) Iterate(f func(key []byte, value []byte, exists bool) error) error {
	ks := maps.Keys(ts.changes)
	slices.SortFunc(ks, func(a, b string) int {
		return bytes.Compare([]byte(a), []byte(b))
	})
	for _, k := range ks {
		v := ts.changes[k]
		if err := f([]byte(k), v.Value(), v.HasValue()); err != nil {
			return err
		}
	}
	return nil
}

// Commit applies all changes to [m]. The TState cannot be modified
// afterwards.
func (ts *TState) Commit(ctx context.Context, m state.Mutable) error {
	if ts.committed {
		return ErrAlreadyCommitted
	}
	ts.committed = true
	return ts.Iterate(func(key []byte, value []byte, exists bool) error {
		if !exists {
			return m.Remove(ctx, key)
		}
		return m.Insert(ctx, key, value)
	})
}

// WriteBatch stages all changes in [batch]. The caller decides when the
// batch is written.
func (ts *TState) WriteBatch(ctx context.Context, t trace.Tracer, batch database.Batch) error {
	_, span := t.Start(ctx, "TState.WriteBatch")
	defer span.End()

	if ts.committed {
		return ErrAlreadyCommitted
	}
	ts.committed = true
	return ts.Iterate(func(key []byte, value []byte, exists bool) error {
		if !exists {
			return batch.Delete(key)
		}
		return batch.Put(key, value)
	})
}
