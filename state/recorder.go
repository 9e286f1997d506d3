// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*Recorder)(nil)

// Recorder wraps an [Immutable] and records which keys a call touches and
// with which permissions. Writes are kept in memory and never reach the
// wrapped state.
type Recorder struct {
	state Immutable

	// base caches the value held by [state] for every key seen (nil when the
	// key does not exist).
	base    map[string][]byte
	changes map[string][]byte
	keys    Keys
}

func NewRecorder(im Immutable) *Recorder {
	return &Recorder{
		state:   im,
		base:    map[string][]byte{},
		changes: map[string][]byte{},
		keys:    Keys{},
	}
}

func (r *Recorder) load(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if v, ok := r.base[k]; ok {
		return v, nil
	}
	v, err := r.state.GetValue(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		v = nil
	default:
		return nil, err
	}
	r.base[k] = v
	return v, nil
}

func (r *Recorder) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	base, err := r.load(ctx, key)
	if err != nil {
		return nil, err
	}
	k := string(key)
	r.keys.Add(k, Read)
	if v, ok := r.changes[k]; ok {
		if v == nil {
			return nil, database.ErrNotFound
		}
		return v, nil
	}
	if base == nil {
		return nil, database.ErrNotFound
	}
	return base, nil
}

func (r *Recorder) Insert(ctx context.Context, key []byte, value []byte) error {
	base, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	k := string(key)
	if base == nil {
		r.keys.Add(k, Allocate|Write)
	} else {
		r.keys.Add(k, Write)
	}
	r.changes[k] = value
	return nil
}

func (r *Recorder) Remove(_ context.Context, key []byte) error {
	k := string(key)
	r.keys.Add(k, Write)
	r.changes[k] = nil
	return nil
}

// StateKeys returns every key accessed so far with its required permissions.
func (r *Recorder) StateKeys() Keys {
	return r.keys
}
