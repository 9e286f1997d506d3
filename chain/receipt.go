// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/consts"
)

// Receipt is the durable outcome of an accepted transaction. A failed call
// still consumes its nonce but leaves the instance untouched.
type Receipt struct {
	TxID     ids.ID        `json:"txId"`
	Contract codec.Address `json:"contract"`
	Success  bool          `json:"success"`
	Output   codec.Bytes   `json:"output"`
	Error    string        `json:"error,omitempty"`
}

// NewFailedReceipt truncates [err] so the receipt always fits in storage.
func NewFailedReceipt(txID ids.ID, contract codec.Address, err error) *Receipt {
	msg := err.Error()
	if len(msg) > MaxErrorLen {
		msg = msg[:MaxErrorLen]
	}
	return &Receipt{
		TxID:     txID,
		Contract: contract,
		Error:    msg,
	}
}

func (r *Receipt) Size() int {
	return ids.IDLen + codec.AddressLen + consts.BoolLen +
		consts.IntLen + len(r.Output) + consts.Uint16Len + len(r.Error)
}

func (r *Receipt) Marshal() ([]byte, error) {
	if len(r.Output) > MaxOutputLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrOutputTooLarge, len(r.Output), MaxOutputLen)
	}
	p := codec.NewWriter(r.Size(), consts.NetworkSizeLimit)
	p.PackID(r.TxID)
	p.PackAddress(r.Contract)
	p.PackBool(r.Success)
	p.PackBytes(r.Output)
	p.PackString(r.Error)
	return p.Bytes(), p.Err()
}

func UnmarshalReceipt(b []byte) (*Receipt, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	var r Receipt
	p.UnpackID(true, &r.TxID)
	p.UnpackAddress(&r.Contract)
	r.Success = p.UnpackBool()
	var output []byte
	p.UnpackBytes(MaxOutputLen, false, &output)
	// Calls without results carry a nil output.
	if len(output) > 0 {
		r.Output = output
	}
	r.Error = p.UnpackString(false)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidObject, len(b)-p.Offset())
	}
	return &r, nil
}
