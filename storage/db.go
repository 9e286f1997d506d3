// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/intvm/pebble"
	"github.com/ava-labs/intvm/state"
	"github.com/ava-labs/intvm/utils"
)

// StateNamespace is the directory under the data dir holding counter state.
const StateNamespace = "statedb"

// New opens the pebble store under [dataDir]/[namespace]. The returned
// registry carries the store metrics.
func New(cfg pebble.Config, dataDir string, namespace string) (state.Database, *prometheus.Registry, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, nil, err
	}
	db, registry, err := pebble.New(path, namespace, cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, registry, nil
}
