// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "intvm-cli",
	Short: "CLI for interacting with intvm counter instances",
	Long:  `A CLI application for deploying counter instances and performing typed reads and writes against them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	rootCmd.PersistentFlags().String("key", "", "Private ED25519 key as hex string or key file path")
	rootCmd.PersistentFlags().String("contract", "", "Override the default contract address")
}

func main() {
	Execute()
}
