// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

type Metrics struct {
	txsSubmitted prometheus.Counter
	txsRejected  prometheus.Counter
	txsAccepted  prometheus.Counter
	deploys      prometheus.Counter
	views        prometheus.Counter
	simulations  prometheus.Counter
	panics       prometheus.Counter
	calls        *prometheus.CounterVec

	submit metric.Averager
	view   metric.Averager
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()

	submit, err := metric.NewAverager(
		"",
		"vm_submit",
		"time spent executing and committing a transaction",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	view, err := metric.NewAverager(
		"",
		"vm_view",
		"time spent executing a read-only call",
		r,
	)
	if err != nil {
		return nil, nil, err
	}

	m := &Metrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_submitted",
			Help:      "number of txs submitted to vm",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_rejected",
			Help:      "number of txs rejected before execution",
		}),
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_accepted",
			Help:      "number of txs accepted by vm",
		}),
		deploys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "deploys",
			Help:      "number of counter instances created",
		}),
		views: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "views",
			Help:      "number of read-only calls",
		}),
		simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "simulations",
			Help:      "number of simulated calls",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "call_panics",
			Help:      "number of calls aborted by an invariant violation",
		}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "counter",
			Name:      "calls",
			Help:      "number of committed calls per method",
		}, []string{"method", "result"}),
		submit: submit,
		view:   view,
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsRejected),
		r.Register(m.txsAccepted),
		r.Register(m.deploys),
		r.Register(m.views),
		r.Register(m.simulations),
		r.Register(m.panics),
		r.Register(m.calls),
	)
	return r, m, errs.Err
}
