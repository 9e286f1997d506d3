// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockReleasesEntries(t *testing.T) {
	require := require.New(t)
	l := New[string](0)

	l.Lock("a")
	l.RLock("b")
	l.RLock("b")
	require.Equal(2, l.Locks())

	l.Unlock("a")
	require.Equal(1, l.Locks())
	l.RUnlock("b")
	l.RUnlock("b")
	require.Zero(l.Locks())
}

func TestLockSerializesKey(t *testing.T) {
	require := require.New(t)
	l := New[int](0)

	const workers = 16
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Lock(1)
				counter++
				l.Unlock(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(workers*100, counter)
	require.Zero(l.Locks())
}

func TestUnlockUnknownKeyPanics(t *testing.T) {
	require.Panics(t, func() {
		New[string](0).Unlock("missing")
	})
}
