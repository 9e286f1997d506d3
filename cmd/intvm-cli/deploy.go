// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/cli"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new counter instance and make it the default contract",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		c, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		contract, err := c.Deploy(ctx)
		if err != nil {
			return fmt.Errorf("failed to deploy: %w", err)
		}
		if err := setConfigValue("contract", contract.String()); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, deployCmdResponse{
			Contract: contract.String(),
			Bech32:   cli.FormatAddress(contract),
		})
	},
}

type deployCmdResponse struct {
	Contract string `json:"contract"`
	Bech32   string `json:"bech32"`
}

func (r deployCmdResponse) String() string {
	return fmt.Sprintf("deployed %s (%s)", r.Bech32, r.Contract)
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
