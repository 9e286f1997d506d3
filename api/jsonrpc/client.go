// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/api"
	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/requester"
	"github.com/ava-labs/intvm/state"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	req := requester.New(uri, api.Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) GetABI(ctx context.Context) (abi.ABI, error) {
	resp := new(GetABIReply)
	err := cli.requester.SendRequest(
		ctx,
		"getABI",
		nil,
		resp,
	)
	return resp.ABI, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, d []byte) (*chain.Receipt, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: d},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Receipt, nil
}

// GetReceipt returns false if [txID] was never accepted.
func (cli *JSONRPCClient) GetReceipt(ctx context.Context, txID ids.ID) (*chain.Receipt, bool, error) {
	resp := new(GetReceiptReply)
	err := cli.requester.SendRequest(
		ctx,
		"getReceipt",
		&GetReceiptArgs{TxID: txID},
		resp,
	)
	if err != nil {
		return nil, false, err
	}
	return resp.Receipt, resp.Found, nil
}

func (cli *JSONRPCClient) Nonce(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(NonceReply)
	err := cli.requester.SendRequest(
		ctx,
		"nonce",
		&NonceArgs{Address: addr},
		resp,
	)
	return resp.Nonce, err
}

func (cli *JSONRPCClient) Deployer(ctx context.Context, contract codec.Address) (codec.Address, error) {
	resp := new(DeployerReply)
	err := cli.requester.SendRequest(
		ctx,
		"deployer",
		&DeployerArgs{Contract: contract},
		resp,
	)
	return resp.Deployer, err
}

func (cli *JSONRPCClient) Call(ctx context.Context, contract codec.Address, input []byte) ([]byte, error) {
	resp := new(CallReply)
	err := cli.requester.SendRequest(
		ctx,
		"call",
		&CallArgs{Contract: contract, Input: input},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Output, nil
}

func (cli *JSONRPCClient) Simulate(ctx context.Context, contract codec.Address, input []byte) ([]byte, state.Keys, error) {
	resp := new(SimulateReply)
	err := cli.requester.SendRequest(
		ctx,
		"simulate",
		&CallArgs{Contract: contract, Input: input},
		resp,
	)
	if err != nil {
		return nil, nil, err
	}
	return resp.Output, resp.Keys, nil
}

// WaitForReceipt polls until [txID] has a receipt or [ctx] is done.
func (cli *JSONRPCClient) WaitForReceipt(ctx context.Context, interval time.Duration, txID ids.ID) (*chain.Receipt, error) {
	var r *chain.Receipt
	err := Wait(ctx, interval, func(ctx context.Context) (bool, error) {
		rr, found, err := cli.GetReceipt(ctx, txID)
		if err != nil {
			return false, err
		}
		r = rr
		return found, nil
	})
	return r, err
}

func Wait(ctx context.Context, interval time.Duration, check func(ctx context.Context) (bool, error)) error {
	for ctx.Err() == nil {
		exit, err := check(ctx)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
		time.Sleep(interval)
	}
	return ctx.Err()
}
