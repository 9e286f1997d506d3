// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"math/big"
	"slices"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/crypto/ed25519"
	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/storage"
	"github.com/ava-labs/intvm/trace"
)

type testEnv struct {
	vm    *VM
	db    *memdb.Database
	priv  ed25519.PrivateKey
	nonce uint64
}

func newTestEnv(t *testing.T) *testEnv {
	require := require.New(t)

	db := memdb.New()
	vm, registry, err := New(NewConfig(), logging.NoLog{}, trace.Noop("vm"), db)
	require.NoError(err)
	require.NotNil(registry)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	return &testEnv{vm: vm, db: db, priv: priv}
}

func (e *testEnv) send(t *testing.T, contract codec.Address, input []byte) (*chain.Receipt, error) {
	tx, err := chain.NewTx(e.nonce, contract, input).Sign(e.priv)
	require.NoError(t, err)
	r, err := e.vm.Submit(context.Background(), tx.Bytes())
	if err == nil {
		e.nonce++
	}
	return r, err
}

func (e *testEnv) deploy(t *testing.T) codec.Address {
	r, err := e.send(t, codec.EmptyAddress, nil)
	require.NoError(t, err)
	require.True(t, r.Success)
	return r.Contract
}

func (e *testEnv) write(t *testing.T, contract codec.Address, method string, args ...*big.Int) *chain.Receipt {
	input, err := e.vm.Codec().Pack(method, args...)
	require.NoError(t, err)
	r, err := e.send(t, contract, input)
	require.NoError(t, err)
	return r
}

func (e *testEnv) read(t *testing.T, contract codec.Address, method string) *big.Int {
	input, err := e.vm.Codec().Pack(method)
	require.NoError(t, err)
	output, err := e.vm.View(context.Background(), contract, input)
	require.NoError(t, err)
	results, err := e.vm.Codec().UnpackOutput(method, output)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func TestDeploy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)

	contract := e.deploy(t)
	require.Equal(chain.ContractID, contract[0])

	deployer, err := e.vm.Deployer(ctx, contract)
	require.NoError(err)
	require.Equal(chain.SignerAddress(e.priv.PublicKey()), deployer)

	nonce, err := e.vm.Nonce(ctx, deployer)
	require.NoError(err)
	require.Equal(uint64(1), nonce)
	require.Equal(uint64(1), e.vm.Accepted())

	// Every slot of a fresh instance reads zero.
	for _, m := range e.vm.counter.Methods() {
		if len(m.Outputs()) == 0 {
			continue
		}
		require.Zero(e.read(t, contract, m.Name).Sign(), m.Name)
	}
}

func TestDeployWithInput(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.send(t, codec.EmptyAddress, []byte{1})
	require.ErrorIs(t, err, ErrUnexpectedInput)
}

func TestSetIncrementGet(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)
	contract := e.deploy(t)

	r := e.write(t, contract, "setU64", big.NewInt(41))
	require.True(r.Success)
	require.Empty(r.Output)
	r = e.write(t, contract, "incrementU64")
	require.True(r.Success)
	require.Equal(big.NewInt(42), e.read(t, contract, "getU64"))
	require.Equal(big.NewInt(42), e.read(t, contract, "getU64Builtin"))

	r = e.write(t, contract, "setI8Builtin", big.NewInt(127))
	require.True(r.Success)
	e.write(t, contract, "incrementI8")
	require.Equal(big.NewInt(-128), e.read(t, contract, "getI8"))

	stored, err := e.vm.Receipt(ctx, r.TxID)
	require.NoError(err)
	require.Equal(r, stored)
}

func TestWriteOutputInReceipt(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t)
	contract := e.deploy(t)

	e.write(t, contract, "setI200", big.NewInt(-7))
	r := e.write(t, contract, "getI200")
	require.True(r.Success)
	results, err := e.vm.Codec().UnpackOutput("getI200", r.Output)
	require.NoError(err)
	require.Equal([]*big.Int{big.NewInt(-7)}, results)
}

func TestFailedCallConsumesNonce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)
	contract := e.deploy(t)
	e.write(t, contract, "setU24", big.NewInt(5))

	// Corrupt another slot so the call fails after decoding.
	require.NoError(e.db.Put(storage.SlotKey(contract, e.vm.counter.Unsigned32.ID()), []byte{1}))
	r := e.write(t, contract, "incrementU32")
	require.False(r.Success)
	require.Contains(r.Error, "corrupt")

	r, err := e.send(t, contract, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(err)
	require.False(r.Success)
	require.NotEmpty(r.Error)

	nonce, err := e.vm.Nonce(ctx, chain.SignerAddress(e.priv.PublicKey()))
	require.NoError(err)
	require.Equal(uint64(4), nonce)
	require.Equal(big.NewInt(5), e.read(t, contract, "getU24"))
}

func TestRejectedTransactions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)
	contract := e.deploy(t)

	input, err := e.vm.Codec().Pack("incrementU8")
	require.NoError(err)

	// Wrong nonce
	tx, err := chain.NewTx(e.nonce+1, contract, input).Sign(e.priv)
	require.NoError(err)
	_, err = e.vm.Submit(ctx, tx.Bytes())
	require.ErrorIs(err, ErrInvalidNonce)

	// Replay
	tx, err = chain.NewTx(e.nonce, contract, input).Sign(e.priv)
	require.NoError(err)
	_, err = e.vm.Submit(ctx, tx.Bytes())
	require.NoError(err)
	_, err = e.vm.Submit(ctx, tx.Bytes())
	require.ErrorIs(err, ErrDuplicateTx)
	e.nonce++

	// Unknown instance
	_, err = e.send(t, chain.ContractAddress(tx.ID()), input)
	require.ErrorIs(err, storage.ErrUnknownContract)

	// Missing input
	_, err = e.send(t, contract, nil)
	require.ErrorIs(err, chain.ErrMissingInput)

	// Bad signature
	tx, err = chain.NewTx(e.nonce, contract, input).Sign(e.priv)
	require.NoError(err)
	tampered := slices.Clone(tx.Bytes())
	tampered[len(tampered)-1] ^= 0xff
	_, err = e.vm.Submit(ctx, tampered)
	require.ErrorIs(err, chain.ErrInvalidSignature)

	_, err = e.vm.Submit(ctx, []byte{1, 2, 3})
	require.ErrorIs(err, chain.ErrInvalidObject)

	require.Equal(big.NewInt(1), e.read(t, contract, "getU8"))
	require.Equal(uint64(2), e.vm.Accepted())
}

func TestViewDoesNotCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)
	contract := e.deploy(t)

	input, err := e.vm.Codec().Pack("setI128", big.NewInt(-99))
	require.NoError(err)
	output, err := e.vm.View(ctx, contract, input)
	require.NoError(err)
	require.Empty(output)
	require.Zero(e.read(t, contract, "getI128").Sign())

	_, err = e.vm.View(ctx, chain.ContractAddress(ids.GenerateTestID()), input)
	require.ErrorIs(err, storage.ErrUnknownContract)
}

func TestSimulate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newTestEnv(t)
	contract := e.deploy(t)

	input, err := e.vm.Codec().Pack("incrementU256")
	require.NoError(err)
	res, err := e.vm.Simulate(ctx, contract, input)
	require.NoError(err)
	require.Equal("incrementU256", res.Method)

	slotKey := string(storage.SlotKey(contract, e.vm.counter.Unsigned256.ID()))
	require.True(res.StateKeys[slotKey].Has(state.Read | state.Write))
	require.True(res.StateKeys[string(storage.ContractKey(contract))].Has(state.Read))
	require.Zero(e.read(t, contract, "getU256").Sign())
}

func TestConcurrentIncrements(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t)
	contract := e.deploy(t)

	const (
		signers = 4
		perTx   = 10
	)
	input, err := e.vm.Codec().Pack("incrementI16")
	require.NoError(err)

	var wg sync.WaitGroup
	errs := make(chan error, signers*perTx)
	for i := 0; i < signers; i++ {
		priv, err := ed25519.GeneratePrivateKey()
		require.NoError(err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := uint64(0); n < perTx; n++ {
				tx, err := chain.NewTx(n, contract, input).Sign(priv)
				if err != nil {
					errs <- err
					return
				}
				if _, err := e.vm.Submit(context.Background(), tx.Bytes()); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}
	require.Equal(big.NewInt(signers*perTx), e.read(t, contract, "getI16"))
}

func TestClose(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t)

	require.NoError(e.vm.Close())
	require.ErrorIs(e.vm.Close(), ErrClosed)
	_, err := e.send(t, codec.EmptyAddress, nil)
	require.ErrorIs(err, ErrClosed)

	_, err = e.db.Get([]byte{0})
	require.ErrorIs(err, database.ErrClosed)
}
