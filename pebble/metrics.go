// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsInterval = 10 * time.Second
	subsystem       = "pebble"
)

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager

	getLatency   metric.Averager
	batchLatency metric.Averager
	batchWrites  prometheus.Counter
	batchBytes   prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	tombstoneCount prometheus.Gauge
	obsoleteTables *prometheus.GaugeVec
	zombieTables   *prometheus.GaugeVec
	obsoleteWAL    *prometheus.GaugeVec
}

// newMetrics registers the store metrics under [namespace], the directory
// name the store was opened in, so every series served on the metrics
// endpoint names the store it describes.
func newMetrics(namespace string) (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	averager := func(name, help string) (metric.Averager, error) {
		return metric.NewAverager("", prometheus.BuildFQName(namespace, subsystem, name), help, r)
	}
	gaugeVec := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, []string{"unit"})
	}

	writeStall, err := averager("write_stall", "time spent waiting for disk write")
	if err != nil {
		return nil, nil, err
	}
	getLatency, err := averager("read_latency", "time spent waiting for a point read")
	if err != nil {
		return nil, nil, err
	}
	batchLatency, err := averager("batch_latency", "time spent committing a batch")
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		writeStall:   writeStall,
		getLatency:   getLatency,
		batchLatency: batchLatency,
		batchWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_writes",
			Help:      "number of committed batches",
		}),
		batchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_bytes",
			Help:      "key and value bytes in committed batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		tombstoneCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
		obsoleteTables: gaugeVec("obsolete_tables", "tables no longer referenced by the db"),
		zombieTables:   gaugeVec("zombie_tables", "unreferenced tables still held open by iterators"),
		obsoleteWAL:    gaugeVec("obsolete_wal", "WAL files no longer needed by the db"),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batchWrites),
		r.Register(m.batchBytes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTables),
		r.Register(m.zombieTables),
		r.Register(m.obsoleteWAL),
	)
	return r, m, errs.Err
}

func (m *metrics) observeBatch(size int, start time.Time) {
	m.batchLatency.Observe(float64(time.Since(start)))
	m.batchWrites.Inc()
	m.batchBytes.Add(float64(size))
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.metrics.update(db.db.Metrics())
		case <-db.closing:
			return
		}
	}
}

func (m *metrics) update(pm *pebble.Metrics) {
	m.tombstoneCount.Set(float64(pm.Keys.TombstoneCount))
	m.obsoleteTables.WithLabelValues("bytes").Set(float64(pm.Table.ObsoleteSize))
	m.obsoleteTables.WithLabelValues("files").Set(float64(pm.Table.ObsoleteCount))
	m.zombieTables.WithLabelValues("bytes").Set(float64(pm.Table.ZombieSize))
	m.zombieTables.WithLabelValues("files").Set(float64(pm.Table.ZombieCount))
	m.obsoleteWAL.WithLabelValues("bytes").Set(float64(pm.WAL.ObsoletePhysicalSize))
	m.obsoleteWAL.WithLabelValues("files").Set(float64(pm.WAL.ObsoleteFiles))
}
