// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/vm"
)

type VM interface {
	Tracer() trace.Tracer
	Logger() logging.Logger
	ABI() abi.ABI
	Submit(ctx context.Context, txBytes []byte) (*chain.Receipt, error)
	Receipt(ctx context.Context, txID ids.ID) (*chain.Receipt, error)
	Nonce(ctx context.Context, signer codec.Address) (uint64, error)
	Deployer(ctx context.Context, contract codec.Address) (codec.Address, error)
	View(ctx context.Context, contract codec.Address, input []byte) ([]byte, error)
	Simulate(ctx context.Context, contract codec.Address, input []byte) (*vm.SimulateResult, error)
}
