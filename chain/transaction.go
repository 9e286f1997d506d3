// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/consts"
	"github.com/ava-labs/intvm/crypto/ed25519"
	"github.com/ava-labs/intvm/utils"
)

// Transaction is a signed call against a counter instance. A transaction
// with an empty [Contract] deploys a new, zero-initialized instance.
type Transaction struct {
	Nonce    uint64        `json:"nonce"`
	Contract codec.Address `json:"contract"`
	Input    codec.Bytes   `json:"input"`

	Auth Auth `json:"auth"`

	bytes []byte
	id    ids.ID
}

type Auth struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`
}

const authSize = ed25519.PublicKeyLen + ed25519.SignatureLen

func NewTx(nonce uint64, contract codec.Address, input []byte) *Transaction {
	return &Transaction{
		Nonce:    nonce,
		Contract: contract,
		Input:    input,
	}
}

// IsDeploy reports whether the transaction creates a new instance.
func (t *Transaction) IsDeploy() bool {
	return t.Contract == codec.EmptyAddress
}

func (t *Transaction) digestSize() int {
	return consts.Uint64Len + codec.AddressLen + consts.IntLen + len(t.Input)
}

// Digest returns the bytes covered by the signature.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.Input) > MaxInputLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrInputTooLarge, len(t.Input), MaxInputLen)
	}
	p := codec.NewWriter(t.digestSize(), consts.NetworkSizeLimit)
	t.marshalDigest(p)
	return p.Bytes(), p.Err()
}

func (t *Transaction) marshalDigest(p *codec.Packer) {
	p.PackUint64(t.Nonce)
	p.PackAddress(t.Contract)
	p.PackBytes(t.Input)
}

// Sign signs the transaction with [priv] and caches its encoding.
func (t *Transaction) Sign(priv ed25519.PrivateKey) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	t.Auth = Auth{
		Signer:    priv.PublicKey(),
		Signature: ed25519.Sign(msg, priv),
	}

	// Ensure transaction is fully initialized and correct by reloading it from
	// bytes
	p := codec.NewWriter(t.Size(), consts.NetworkSizeLimit)
	t.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return UnmarshalTx(p.Bytes())
}

// Verify checks the signature over the digest.
func (t *Transaction) Verify() error {
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	if !ed25519.Verify(msg, t.Auth.Signer, t.Auth.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

// Sponsor is the address whose nonce the transaction consumes.
func (t *Transaction) Sponsor() codec.Address {
	return SignerAddress(t.Auth.Signer)
}

// SignerAddress derives the address of an ed25519 signer.
func SignerAddress(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(ED25519ID, ids.ID(pk))
}

// ContractAddress is the address of the instance created by [txID].
func ContractAddress(txID ids.ID) codec.Address {
	return codec.CreateAddress(ContractID, txID)
}

func (t *Transaction) Size() int {
	return t.digestSize() + authSize
}

func (t *Transaction) Marshal(p *codec.Packer) {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return
	}
	t.marshalDigest(p)
	p.PackFixedBytes(t.Auth.Signer[:])
	p.PackFixedBytes(t.Auth.Signature[:])
}

func (t *Transaction) Bytes() []byte {
	return t.bytes
}

func (t *Transaction) ID() ids.ID {
	return t.id
}

// UnmarshalTx parses a signed transaction. The signature is not checked.
func UnmarshalTx(b []byte) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	var tx Transaction
	tx.Nonce = p.UnpackUint64(false)
	p.UnpackAddress(&tx.Contract)
	var input []byte
	p.UnpackBytes(MaxInputLen, false, &input)
	tx.Input = input
	signer := make([]byte, ed25519.PublicKeyLen)
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
	sig := make([]byte, ed25519.SignatureLen)
	p.UnpackFixedBytes(ed25519.SignatureLen, &sig)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidObject, len(b)-p.Offset())
	}
	tx.Auth.Signer = ed25519.PublicKey(signer)
	tx.Auth.Signature = ed25519.Signature(sig)
	tx.bytes = b
	tx.id = utils.ToID(b)
	return &tx, nil
}
