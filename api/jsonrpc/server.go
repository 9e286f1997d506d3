// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"net/http"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/api"
	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/state"
)

const Endpoint = "/ext/intvm"

var _ api.HandlerFactory[api.VM] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(vm api.VM) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(api.Name, NewJSONRPCServer(vm))
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	vm api.VM
}

func NewJSONRPCServer(vm api.VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type GetABIArgs struct{}

type GetABIReply struct {
	ABI abi.ABI `json:"abi"`
}

func (j *JSONRPCServer) GetABI(_ *http.Request, _ *GetABIArgs, reply *GetABIReply) error {
	reply.ABI = j.vm.ABI()
	return nil
}

type SubmitTxArgs struct {
	Tx codec.Bytes `json:"tx"`
}

type SubmitTxReply struct {
	Receipt *chain.Receipt `json:"receipt"`
}

// SubmitTx returns once the transaction is durably accepted. A call that
// fails is still accepted and reported through the receipt.
func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	r, err := j.vm.Submit(ctx, args.Tx)
	if err != nil {
		j.vm.Logger().Debug("rejected submission", zap.Error(err))
		return err
	}
	reply.Receipt = r
	return nil
}

type GetReceiptArgs struct {
	TxID ids.ID `json:"txId"`
}

type GetReceiptReply struct {
	Found   bool           `json:"found"`
	Receipt *chain.Receipt `json:"receipt,omitempty"`
}

func (j *JSONRPCServer) GetReceipt(
	req *http.Request,
	args *GetReceiptArgs,
	reply *GetReceiptReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.GetReceipt")
	defer span.End()

	r, err := j.vm.Receipt(ctx, args.TxID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	reply.Found = true
	reply.Receipt = r
	return nil
}

type NonceArgs struct {
	Address codec.Address `json:"address"`
}

type NonceReply struct {
	Nonce uint64 `json:"nonce"`
}

func (j *JSONRPCServer) Nonce(req *http.Request, args *NonceArgs, reply *NonceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Nonce")
	defer span.End()

	nonce, err := j.vm.Nonce(ctx, args.Address)
	if err != nil {
		return err
	}
	reply.Nonce = nonce
	return nil
}

type DeployerArgs struct {
	Contract codec.Address `json:"contract"`
}

type DeployerReply struct {
	Deployer codec.Address `json:"deployer"`
}

func (j *JSONRPCServer) Deployer(req *http.Request, args *DeployerArgs, reply *DeployerReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Deployer")
	defer span.End()

	deployer, err := j.vm.Deployer(ctx, args.Contract)
	if err != nil {
		return err
	}
	reply.Deployer = deployer
	return nil
}

type CallArgs struct {
	Contract codec.Address `json:"contract"`
	Input    codec.Bytes   `json:"input"`
}

type CallReply struct {
	Output codec.Bytes `json:"output"`
}

// Call executes [args.Input] against the latest state without persisting
// anything.
func (j *JSONRPCServer) Call(req *http.Request, args *CallArgs, reply *CallReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Call")
	defer span.End()

	output, err := j.vm.View(ctx, args.Contract, args.Input)
	if err != nil {
		return err
	}
	reply.Output = output
	return nil
}

type SimulateReply struct {
	Method string      `json:"method"`
	Output codec.Bytes `json:"output"`
	Keys   state.Keys  `json:"keys"`
}

func (j *JSONRPCServer) Simulate(req *http.Request, args *CallArgs, reply *SimulateReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Simulate")
	defer span.End()

	res, err := j.vm.Simulate(ctx, args.Contract, args.Input)
	if err != nil {
		return err
	}
	reply.Method = res.Method
	reply.Output = res.Output
	reply.Keys = res.StateKeys
	return nil
}
