// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/codec"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/lockmap"
	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/storage"
	"github.com/ava-labs/intvm/tstate"
)

// VM hosts counter instances on top of a key-value store. Calls against
// the same instance are serialized and each call is all-or-nothing.
type VM struct {
	config Config
	log    logging.Logger
	tracer trace.Tracer
	db     state.Database

	counter *counter.Counter
	codec   *abi.Codec
	metrics *Metrics

	// Signer locks are always taken before instance locks.
	signerLocks   *lockmap.Lockmap[codec.Address]
	instanceLocks *lockmap.Lockmap[codec.Address]

	accepted atomic.Uint64
	closed   atomic.Bool
}

func New(
	config Config,
	log logging.Logger,
	tracer trace.Tracer,
	db state.Database,
) (*VM, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	c := counter.New()
	abiCodec, err := abi.NewCodec(c)
	if err != nil {
		return nil, nil, err
	}
	vm := &VM{
		config:        config,
		log:           log,
		tracer:        tracer,
		db:            db,
		counter:       c,
		codec:         abiCodec,
		metrics:       metrics,
		signerLocks:   lockmap.New[codec.Address](config.LockmapSize),
		instanceLocks: lockmap.New[codec.Address](config.LockmapSize),
	}
	log.Info("initialized vm",
		zap.Int("methods", len(c.Methods())),
		zap.Int("lockmapSize", config.LockmapSize),
	)
	return vm, registry, nil
}

func (vm *VM) Codec() *abi.Codec {
	return vm.codec
}

func (vm *VM) ABI() abi.ABI {
	return vm.codec.ABI()
}

// Accepted returns the number of transactions committed since startup.
func (vm *VM) Accepted() uint64 {
	return vm.accepted.Load()
}

// Submit executes a signed transaction and durably stores its effects and
// receipt. A transaction whose call fails is still accepted: its nonce is
// consumed and its receipt records the failure, but the instance is left
// untouched. Transactions that cannot be accepted return an error and
// leave no trace.
func (vm *VM) Submit(ctx context.Context, txBytes []byte) (*chain.Receipt, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Submit")
	defer span.End()

	if vm.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	vm.metrics.txsSubmitted.Inc()
	r, err := vm.submit(ctx, txBytes)
	if err != nil {
		vm.metrics.txsRejected.Inc()
		vm.log.Debug("rejected transaction", zap.Error(err))
		return nil, err
	}
	vm.metrics.submit.Observe(float64(time.Since(start)))
	vm.metrics.txsAccepted.Inc()
	vm.accepted.Inc()
	return r, nil
}

func (vm *VM) submit(ctx context.Context, txBytes []byte) (*chain.Receipt, error) {
	tx, err := chain.UnmarshalTx(txBytes)
	if err != nil {
		return nil, err
	}
	if err := tx.Verify(); err != nil {
		return nil, err
	}

	sponsor := tx.Sponsor()
	vm.signerLocks.Lock(sponsor)
	defer vm.signerLocks.Unlock(sponsor)

	ts := tstate.New(state.NewReader(vm.db))
	if _, err := storage.GetReceipt(ctx, ts, tx.ID()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	nonce, err := storage.GetNonce(ctx, ts, sponsor)
	if err != nil {
		return nil, err
	}
	if nonce != tx.Nonce {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidNonce, nonce, tx.Nonce)
	}

	var r *chain.Receipt
	if tx.IsDeploy() {
		r, err = vm.deploy(ctx, ts, tx)
	} else {
		vm.instanceLocks.Lock(tx.Contract)
		defer vm.instanceLocks.Unlock(tx.Contract)
		r, err = vm.call(ctx, ts, tx)
	}
	if err != nil {
		return nil, err
	}

	if _, err := storage.IncrementNonce(ctx, ts, sponsor); err != nil {
		return nil, err
	}
	if err := storage.PutReceipt(ctx, ts, r); err != nil {
		return nil, err
	}
	batch := vm.db.NewBatch()
	if err := ts.WriteBatch(ctx, vm.tracer, batch); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	vm.log.Debug("accepted transaction",
		zap.Stringer("txID", tx.ID()),
		zap.Stringer("contract", r.Contract),
		zap.Bool("success", r.Success),
	)
	return r, nil
}

func (vm *VM) deploy(ctx context.Context, ts *tstate.TState, tx *chain.Transaction) (*chain.Receipt, error) {
	if len(tx.Input) > 0 {
		return nil, ErrUnexpectedInput
	}
	contract := chain.ContractAddress(tx.ID())
	if err := storage.CreateContract(ctx, ts, contract, tx.Sponsor()); err != nil {
		return nil, err
	}
	vm.metrics.deploys.Inc()
	vm.log.Info("deployed counter",
		zap.Stringer("contract", contract),
		zap.Stringer("deployer", tx.Sponsor()),
	)
	return &chain.Receipt{
		TxID:     tx.ID(),
		Contract: contract,
		Success:  true,
	}, nil
}

// call runs the transaction against its instance. Any failure of the call
// itself rolls back its effects and yields a failed receipt.
func (vm *VM) call(ctx context.Context, ts *tstate.TState, tx *chain.Transaction) (*chain.Receipt, error) {
	if len(tx.Input) == 0 {
		return nil, chain.ErrMissingInput
	}
	if _, err := storage.GetDeployer(ctx, ts, tx.Contract); err != nil {
		return nil, err
	}

	restore := ts.OpIndex()
	m, output, err := vm.execute(ctx, ts, tx.Contract, tx.Input)
	if err != nil {
		if rerr := ts.Rollback(ctx, restore); rerr != nil {
			return nil, rerr
		}
		if m != nil {
			vm.metrics.calls.WithLabelValues(m.Name, resultFailure).Inc()
		}
		vm.log.Debug("call failed",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		return chain.NewFailedReceipt(tx.ID(), tx.Contract, err), nil
	}
	vm.metrics.calls.WithLabelValues(m.Name, resultSuccess).Inc()
	return &chain.Receipt{
		TxID:     tx.ID(),
		Contract: tx.Contract,
		Success:  true,
		Output:   output,
	}, nil
}

// execute decodes [input], runs the selected method on [mu] and encodes its
// results. A panic inside the method is returned as an error.
func (vm *VM) execute(ctx context.Context, mu state.Mutable, contract codec.Address, input []byte) (m *counter.Method, output []byte, err error) {
	ctx, span := vm.tracer.Start(ctx, "VM.execute")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			vm.metrics.panics.Inc()
			vm.log.Error("call panicked",
				zap.Stringer("contract", contract),
				zap.Any("reason", r),
			)
			output = nil
			err = fmt.Errorf("%w: %v", ErrCallPanicked, r)
		}
	}()

	m, args, err := vm.codec.Unpack(input)
	if err != nil {
		return nil, nil, err
	}
	results, err := m.Call(ctx, mu, contract, args)
	if err != nil {
		return m, nil, err
	}
	output, err = vm.codec.PackOutput(m, results)
	if err != nil {
		return m, nil, err
	}
	return m, output, nil
}

// View runs a call against the current state and returns its encoded
// results. Nothing the call writes is kept.
func (vm *VM) View(ctx context.Context, contract codec.Address, input []byte) ([]byte, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.View")
	defer span.End()

	if vm.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() {
		vm.metrics.view.Observe(float64(time.Since(start)))
	}()
	vm.metrics.views.Inc()

	vm.instanceLocks.RLock(contract)
	defer vm.instanceLocks.RUnlock(contract)

	ts := tstate.New(state.NewReader(vm.db))
	if _, err := storage.GetDeployer(ctx, ts, contract); err != nil {
		return nil, err
	}
	_, output, err := vm.execute(ctx, ts, contract, input)
	return output, err
}

// SimulateResult is the outcome of a simulated call together with every
// state key it touched.
type SimulateResult struct {
	Method    string      `json:"method"`
	Output    codec.Bytes `json:"output"`
	StateKeys state.Keys  `json:"stateKeys"`
}

// Simulate runs a call like [VM.View] and records the keys it reads and
// writes.
func (vm *VM) Simulate(ctx context.Context, contract codec.Address, input []byte) (*SimulateResult, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Simulate")
	defer span.End()

	if vm.closed.Load() {
		return nil, ErrClosed
	}
	vm.metrics.simulations.Inc()

	vm.instanceLocks.RLock(contract)
	defer vm.instanceLocks.RUnlock(contract)

	rec := state.NewRecorder(state.NewReader(vm.db))
	if _, err := storage.GetDeployer(ctx, rec, contract); err != nil {
		return nil, err
	}
	m, output, err := vm.execute(ctx, rec, contract, input)
	if err != nil {
		return nil, err
	}
	return &SimulateResult{
		Method:    m.Name,
		Output:    output,
		StateKeys: rec.StateKeys(),
	}, nil
}

// Receipt returns the receipt of an accepted transaction.
func (vm *VM) Receipt(ctx context.Context, txID ids.ID) (*chain.Receipt, error) {
	return storage.GetReceipt(ctx, state.NewReader(vm.db), txID)
}

// Nonce returns the nonce the next transaction of [signer] must carry.
func (vm *VM) Nonce(ctx context.Context, signer codec.Address) (uint64, error) {
	return storage.GetNonce(ctx, state.NewReader(vm.db), signer)
}

// Deployer returns the creator of [contract].
func (vm *VM) Deployer(ctx context.Context, contract codec.Address) (codec.Address, error) {
	return storage.GetDeployer(ctx, state.NewReader(vm.db), contract)
}

// Close stops accepting work and closes the underlying store.
func (vm *VM) Close() error {
	if !vm.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	vm.log.Info("closing vm", zap.Uint64("accepted", vm.accepted.Load()))
	return vm.db.Close()
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}
