// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/api/jsonrpc"
	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/crypto/ed25519"
)

const waitInterval = 10 * time.Millisecond

var (
	ErrNoContract = errors.New("no contract selected")
	ErrTxFailed   = errors.New("call failed")
)

// Client performs typed calls against a single counter instance on behalf
// of one signer.
type Client struct {
	rpc      *jsonrpc.JSONRPCClient
	codec    *abi.Codec
	priv     ed25519.PrivateKey
	contract codec.Address
}

func New(uri string, priv ed25519.PrivateKey) (*Client, error) {
	c, err := abi.NewCodec(counter.New())
	if err != nil {
		return nil, err
	}
	return &Client{
		rpc:   jsonrpc.NewJSONRPCClient(uri),
		codec: c,
		priv:  priv,
	}, nil
}

func (c *Client) RPC() *jsonrpc.JSONRPCClient {
	return c.rpc
}

func (c *Client) Codec() *abi.Codec {
	return c.codec
}

// Address is the signer address of the client.
func (c *Client) Address() codec.Address {
	return chain.SignerAddress(c.priv.PublicKey())
}

func (c *Client) Contract() codec.Address {
	return c.contract
}

func (c *Client) SetContract(contract codec.Address) {
	c.contract = contract
}

// Deploy creates a new instance and selects it for later calls.
func (c *Client) Deploy(ctx context.Context) (codec.Address, error) {
	r, err := c.send(ctx, codec.EmptyAddress, nil)
	if err != nil {
		return codec.EmptyAddress, err
	}
	c.contract = r.Contract
	return r.Contract, nil
}

// Write signs [method] with the next nonce and returns the decoded results
// once the transaction is durably accepted.
func (c *Client) Write(ctx context.Context, method string, args ...*big.Int) ([]*big.Int, error) {
	if c.contract == codec.EmptyAddress {
		return nil, ErrNoContract
	}
	input, err := c.codec.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	r, err := c.send(ctx, c.contract, input)
	if err != nil {
		return nil, err
	}
	if !r.Success {
		return nil, fmt.Errorf("%w: %s: %s", ErrTxFailed, method, r.Error)
	}
	return c.codec.UnpackOutput(method, r.Output)
}

// Read runs [method] without creating a transaction.
func (c *Client) Read(ctx context.Context, method string, args ...*big.Int) ([]*big.Int, error) {
	if c.contract == codec.EmptyAddress {
		return nil, ErrNoContract
	}
	input, err := c.codec.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	output, err := c.rpc.Call(ctx, c.contract, input)
	if err != nil {
		return nil, err
	}
	return c.codec.UnpackOutput(method, output)
}

// ReadOne is [Client.Read] for getters.
func (c *Client) ReadOne(ctx context.Context, method string) (*big.Int, error) {
	results, err := c.Read(ctx, method)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%s returned %d values", method, len(results))
	}
	return results[0], nil
}

func (c *Client) Receipt(ctx context.Context, txID ids.ID) (*chain.Receipt, bool, error) {
	return c.rpc.GetReceipt(ctx, txID)
}

func (c *Client) send(ctx context.Context, contract codec.Address, input []byte) (*chain.Receipt, error) {
	nonce, err := c.rpc.Nonce(ctx, c.Address())
	if err != nil {
		return nil, err
	}
	tx, err := chain.NewTx(nonce, contract, input).Sign(c.priv)
	if err != nil {
		return nil, err
	}
	if _, err := c.rpc.SubmitTx(ctx, tx.Bytes()); err != nil {
		return nil, err
	}
	return c.rpc.WaitForReceipt(ctx, waitInterval, tx.ID())
}
