// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/abi"
	"github.com/ava-labs/intvm/api/jsonrpc"
	"github.com/ava-labs/intvm/counter"
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Print the counter ABI",
	RunE: func(cmd *cobra.Command, _ []string) error {
		remote, err := cmd.Flags().GetBool("remote")
		if err != nil {
			return err
		}
		solidity, err := cmd.Flags().GetBool("solidity")
		if err != nil {
			return err
		}

		a := abi.NewABI(counter.New().Methods())
		if remote {
			endpoint, err := getConfigValue(cmd, "endpoint", true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			a, err = jsonrpc.NewJSONRPCClient(endpoint).GetABI(ctx)
			if err != nil {
				return fmt.Errorf("failed to get abi: %w", err)
			}
		}

		if solidity {
			fmt.Print(abi.GenerateSolidity(a, "Counter"))
			return nil
		}
		b, err := a.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	abiCmd.Flags().Bool("remote", false, "Fetch the ABI from the endpoint")
	abiCmd.Flags().Bool("solidity", false, "Print a Solidity interface instead of JSON")
	rootCmd.AddCommand(abiCmd)
}
