// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/state/statemock"
)

func TestRecorderPermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	existing := []byte("existing")
	fresh := []byte("fresh")
	storage := state.MutableStorage{string(existing): {0x1}}
	r := state.NewRecorder(storage)

	v, err := r.GetValue(ctx, existing)
	require.NoError(err)
	require.Equal([]byte{0x1}, v)

	require.NoError(r.Insert(ctx, existing, []byte{0x2}))
	require.NoError(r.Insert(ctx, fresh, []byte{0x3}))

	_, err = r.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	keys := r.StateKeys()
	require.Equal(state.Write, keys[string(existing)])
	require.Equal(state.Allocate|state.Write, keys[string(fresh)])
	require.Equal(state.Read, keys["missing"])

	// writes stay in the recorder
	v, err = r.GetValue(ctx, existing)
	require.NoError(err)
	require.Equal([]byte{0x2}, v)
	require.Equal([]byte{0x1}, storage[string(existing)])
	require.NotContains(storage, string(fresh))

	require.NoError(r.Remove(ctx, existing))
	_, err = r.GetValue(ctx, existing)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestRecorderPropagatesReadErrors(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	errBroken := errors.New("broken disk")
	mu := statemock.NewMockMutable(ctrl)
	mu.EXPECT().GetValue(gomock.Any(), []byte("k")).Return(nil, errBroken)

	r := state.NewRecorder(mu)
	require.ErrorIs(r.Insert(context.Background(), []byte("k"), []byte{0x1}), errBroken)
	require.Empty(r.StateKeys())
}

func TestReader(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	require.NoError(db.Put([]byte("k"), []byte("v")))

	r := state.NewReader(db)
	v, err := r.GetValue(context.Background(), []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	_, err = r.GetValue(context.Background(), []byte("other"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestKeysJSON(t *testing.T) {
	require := require.New(t)

	keys := state.Keys{}
	keys.Add(string([]byte{0x1, 0x2}), state.Read)
	keys.Add(string([]byte{0x1, 0x2}), state.Write)
	require.Equal("read|write", keys[string([]byte{0x1, 0x2})].String())

	b, err := json.Marshal(keys)
	require.NoError(err)
	require.JSONEq(`{"0x0102":5}`, string(b))

	var decoded state.Keys
	require.NoError(json.Unmarshal(b, &decoded))
	require.Equal(keys, decoded)
}
