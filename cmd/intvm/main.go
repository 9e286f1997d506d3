// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/intvm/api/jsonrpc"
	"github.com/ava-labs/intvm/config"
	"github.com/ava-labs/intvm/server"
	"github.com/ava-labs/intvm/storage"
	"github.com/ava-labs/intvm/trace"
	"github.com/ava-labs/intvm/vm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "intvm",
	Short: "Serve counter instances over JSON-RPC",
	RunE: func(*cobra.Command, []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return run(ctx, c)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogConfig(c config.Config) (logging.Config, error) {
	level, err := c.GetLogLevel()
	if err != nil {
		return logging.Config{}, err
	}
	displayLevel, err := c.GetLogDisplayLevel()
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   c.LogMaxSize,
			MaxFiles:  c.LogMaxFiles,
			MaxAge:    c.LogMaxAge,
			Directory: c.GetLogDir(),
			Compress:  c.LogCompress,
		},
		LogLevel:     level,
		DisplayLevel: displayLevel,
		LogFormat:    logging.Plain,
	}, nil
}

func run(ctx context.Context, c config.Config) error {
	logConfig, err := newLogConfig(c)
	if err != nil {
		return err
	}
	logFactory := newLogFactory(logConfig)
	defer logFactory.Close()
	log, err := logFactory.Make("intvm")
	if err != nil {
		return err
	}

	tracer, err := trace.New(&c.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Warn("failed to close tracer", zap.Error(err))
		}
	}()

	db, dbRegistry, err := storage.New(c.Pebble, c.DataDir, storage.StateNamespace)
	if err != nil {
		return err
	}
	v, vmRegistry, err := vm.New(c.VM, log, tracer, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := v.Close(); err != nil {
			log.Warn("failed to close vm", zap.Error(err))
		}
	}()

	handler, err := jsonrpc.JSONRPCServerFactory{}.New(v)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", c.HTTPAddress)
	if err != nil {
		return err
	}
	srv := server.New(log, listener, c.HTTP, c.AllowedOrigins)
	srv.AddRoute(handler.Handler, handler.Path)
	srv.AddRoute(server.NewMetricsHandler(vmRegistry, dbRegistry), server.MetricsEndpoint)

	log.Info("serving",
		zap.Stringer("addr", listener.Addr()),
		zap.String("dataDir", c.DataDir),
	)
	return srv.Run(ctx)
}
