// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=statemock -destination=statemock/mutable.go . Mutable

package state

import (
	"context"
	"io"

	"github.com/ava-labs/avalanchego/database"
)

// Immutable is a read-only view of state. A missing key is reported with
// [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the durable store backing state. Writes that must be applied
// together go through a single batch.
type Database interface {
	database.KeyValueReaderWriterDeleter
	database.Batcher
	io.Closer
}

var _ Immutable = (*Reader)(nil)

// Reader exposes a [database.KeyValueReader] as [Immutable].
type Reader struct {
	db database.KeyValueReader
}

func NewReader(db database.KeyValueReader) *Reader {
	return &Reader{db: db}
}

func (r *Reader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}
