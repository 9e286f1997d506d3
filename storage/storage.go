// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/consts"
	"github.com/ava-labs/intvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (contracts)
//   -> [contract] => deployer
// 0x1/ (slots)
//   -> [contract|slot] => W/8 bytes
// 0x2/ (nonces)
//   -> [signer] => nonce
// 0x3/ (receipts)
//   -> [txID] => receipt

const (
	contractPrefix byte = iota
	slotPrefix
	noncePrefix
	receiptPrefix
)

const (
	ContractChunks uint16 = 1
	SlotChunks     uint16 = 1
	NonceChunks    uint16 = 1
	// Receipts carry a bounded output and error message.
	ReceiptChunks uint16 = 16
)

// [contractPrefix] + [contract]
func ContractKey(contract codec.Address) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen+consts.Uint16Len)
	k = append(k, contractPrefix)
	k = append(k, contract[:]...)
	return binary.BigEndian.AppendUint16(k, ContractChunks)
}

// [slotPrefix] + [contract] + [slot]
func SlotKey(contract codec.Address, slot uint8) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen+consts.ByteLen+consts.Uint16Len)
	k = append(k, slotPrefix)
	k = append(k, contract[:]...)
	k = append(k, slot)
	return binary.BigEndian.AppendUint16(k, SlotChunks)
}

// [noncePrefix] + [signer]
func NonceKey(signer codec.Address) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen+consts.Uint16Len)
	k = append(k, noncePrefix)
	k = append(k, signer[:]...)
	return binary.BigEndian.AppendUint16(k, NonceChunks)
}

// [receiptPrefix] + [txID]
func ReceiptKey(txID ids.ID) []byte {
	k := make([]byte, 0, consts.ByteLen+ids.IDLen+consts.Uint16Len)
	k = append(k, receiptPrefix)
	k = append(k, txID[:]...)
	return binary.BigEndian.AppendUint16(k, ReceiptChunks)
}

// GetDeployer returns who created [contract]. ErrUnknownContract is
// returned if no instance exists at that address.
func GetDeployer(ctx context.Context, im state.Immutable, contract codec.Address) (codec.Address, error) {
	v, err := im.GetValue(ctx, ContractKey(contract))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownContract, contract)
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ToAddress(v)
}

// CreateContract registers a new instance. Creating over an existing
// instance is rejected.
func CreateContract(ctx context.Context, mu state.Mutable, contract codec.Address, deployer codec.Address) error {
	k := ContractKey(contract)
	_, err := mu.GetValue(ctx, k)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrContractExists, contract)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return mu.Insert(ctx, k, deployer[:])
}

// GetSlot returns the stored bytes of [slot] and whether it was ever
// written.
func GetSlot(ctx context.Context, im state.Immutable, contract codec.Address, slot uint8) ([]byte, bool, error) {
	v, err := im.GetValue(ctx, SlotKey(contract, slot))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func SetSlot(ctx context.Context, mu state.Mutable, contract codec.Address, slot uint8, value []byte) error {
	return mu.Insert(ctx, SlotKey(contract, slot), value)
}

// GetNonce returns the next nonce expected from [signer].
func GetNonce(ctx context.Context, im state.Immutable, signer codec.Address) (uint64, error) {
	v, err := im.GetValue(ctx, NonceKey(signer))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(v)
}

// IncrementNonce bumps the nonce of [signer] and returns the new value.
func IncrementNonce(ctx context.Context, mu state.Mutable, signer codec.Address) (uint64, error) {
	nonce, err := GetNonce(ctx, mu, signer)
	if err != nil {
		return 0, err
	}
	next, err := smath.Add64(nonce, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: signer=%s", ErrNonceOverflow, signer)
	}
	return next, mu.Insert(ctx, NonceKey(signer), database.PackUInt64(next))
}

// GetReceipt returns the receipt of [txID]. A transaction that was never
// accepted has no receipt and returns database.ErrNotFound.
func GetReceipt(ctx context.Context, im state.Immutable, txID ids.ID) (*chain.Receipt, error) {
	v, err := im.GetValue(ctx, ReceiptKey(txID))
	if err != nil {
		return nil, err
	}
	return chain.UnmarshalReceipt(v)
}

func PutReceipt(ctx context.Context, mu state.Mutable, r *chain.Receipt) error {
	b, err := r.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, ReceiptKey(r.TxID), b)
}
