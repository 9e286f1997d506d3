// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/api/jsonrpc"
	"github.com/ava-labs/intvm/chain"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt <txID>",
	Short: "Print the receipt of an accepted transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txID, err := ids.FromString(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse tx id: %w", err)
		}
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		r, found, err := jsonrpc.NewJSONRPCClient(endpoint).GetReceipt(ctx, txID)
		if err != nil {
			return err
		}
		if !found {
			return errors.New("transaction not found")
		}
		return printValue(cmd, receiptCmdResponse{r})
	},
}

type receiptCmdResponse struct {
	*chain.Receipt
}

func (r receiptCmdResponse) String() string {
	if !r.Success {
		return fmt.Sprintf("tx %s failed: %s", r.TxID, r.Error)
	}
	return fmt.Sprintf("tx %s succeeded on %s output=%s", r.TxID, r.Contract, r.Output)
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
