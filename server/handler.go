// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MetricsEndpoint = "/ext/metrics"

// NewMetricsHandler serves every metric gathered by [gatherers].
func NewMetricsHandler(gatherers ...prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers(gatherers),
		promhttp.HandlerOpts{},
	)
}
