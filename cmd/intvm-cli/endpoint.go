// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/api/jsonrpc"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Print the endpoint and check that it is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ok, err := jsonrpc.NewJSONRPCClient(endpoint).Ping(ctx)
		return printValue(cmd, endpointCmdResponse{
			Endpoint: endpoint,
			Healthy:  ok && err == nil,
		})
	},
}

type endpointCmdResponse struct {
	Endpoint string `json:"endpoint"`
	Healthy  bool   `json:"healthy"`
}

func (r endpointCmdResponse) String() string {
	if r.Healthy {
		return r.Endpoint
	}
	return r.Endpoint + " (unreachable)"
}

func init() {
	rootCmd.AddCommand(endpointCmd)
}
