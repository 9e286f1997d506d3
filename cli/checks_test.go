// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/state"
)

// localCounter runs methods directly against shared in-memory state.
type localCounter struct {
	lock    *sync.Mutex
	c       *counter.Counter
	mu      state.MutableStorage
	breakOn string
}

func (l *localCounter) call(ctx context.Context, method string, args []*big.Int) ([]*big.Int, error) {
	if method == l.breakOn {
		return nil, errors.New("broken")
	}
	m, ok := l.c.Method(method)
	if !ok {
		return nil, fmt.Errorf("unknown method %s", method)
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	return m.Call(ctx, l.mu, chain.ContractAddress(ids.Empty), args)
}

func (l *localCounter) Write(ctx context.Context, method string, args ...*big.Int) ([]*big.Int, error) {
	return l.call(ctx, method, args)
}

func (l *localCounter) ReadOne(ctx context.Context, method string) (*big.Int, error) {
	out, err := l.call(ctx, method, nil)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func newLocal(breakOn string) (*counter.Counter, func() (Counter, error)) {
	c := counter.New()
	shared := &localCounter{
		lock:    &sync.Mutex{},
		c:       c,
		mu:      state.MutableStorage{},
		breakOn: breakOn,
	}
	return c, func() (Counter, error) { return shared, nil }
}

func TestRunChecks(t *testing.T) {
	require := require.New(t)

	c, newCounter := newLocal("")
	results, err := RunChecks(context.Background(), c, newCounter, 4)
	require.NoError(err)
	require.Len(results, counter.NumSlots)
	for _, r := range results {
		require.NoError(r.Err, r.Slot)
		require.Positive(r.Steps)
	}
	require.Equal("int8", results[0].Slot)
	require.Equal("uint256", results[counter.NumSlots-1].Slot)
}

func TestRunChecksReportsFailures(t *testing.T) {
	require := require.New(t)

	c, newCounter := newLocal("incrementU200")
	results, err := RunChecks(context.Background(), c, newCounter, 2)
	require.NoError(err)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			require.Equal("uint200", r.Slot)
			require.Contains(r.Error, "incrementU200")
		}
	}
	require.Equal(1, failed)
}

func TestRunChecksFactoryError(t *testing.T) {
	errFactory := errors.New("no endpoint")
	_, err := RunChecks(context.Background(), counter.New(), func() (Counter, error) {
		return nil, errFactory
	}, 1)
	require.ErrorIs(t, err, errFactory)
}

func TestSlotChecks(t *testing.T) {
	require := require.New(t)

	checks := slotChecks(counter.New())
	require.Len(checks, counter.NumSlots)
	builtins := 0
	for _, s := range checks {
		if s.builtin {
			builtins++
			require.True(s.kind.HasNative())
		}
	}
	require.Equal(10, builtins)
	require.Equal("setI24", checks[2].method(counter.OpSet))
	require.Equal("getU64Builtin", checks[13].method(counter.OpGetBuiltin))
}
