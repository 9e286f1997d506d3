// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestServerRoutes(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	registry := prometheus.NewRegistry()
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_hits",
		Help: "hits",
	})
	require.NoError(registry.Register(hits))
	hits.Add(3)

	srv := New(logging.NoLog{}, listener, NewDefaultHTTPConfig(), []string{"*"})
	srv.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}), "/ping")
	srv.AddRoute(NewMetricsHandler(registry), MetricsEndpoint)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	base := fmt.Sprintf("http://%s", srv.Addr())
	get := func(path string) (int, string) {
		resp, err := http.Get(base + path) //nolint:noctx
		require.NoError(err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/ping")
	require.Equal(http.StatusOK, code)
	require.Equal("pong", body)

	code, body = get(MetricsEndpoint)
	require.Equal(http.StatusOK, code)
	require.Contains(body, "test_hits 3")

	code, _ = get("/missing")
	require.Equal(http.StatusNotFound, code)

	cancel()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		require.FailNow("server did not shut down")
	}
}
