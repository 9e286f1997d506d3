// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/chain"
	"github.com/ava-labs/intvm/cli"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key, save it and make it the default",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("path")
		if err != nil {
			return err
		}
		if path == "" {
			path = filepath.Join(configDir, "key.pk")
		}
		key, err := cli.GenerateKey(path)
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		if err := setConfigValue("key", path); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		addr := chain.SignerAddress(key.PublicKey())
		return printValue(cmd, keyCmdResponse{
			Path:    path,
			Address: addr.String(),
			Bech32:  cli.FormatAddress(addr),
		})
	},
}

var keyAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print current key address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := getKey(cmd)
		if err != nil {
			return err
		}
		addr := chain.SignerAddress(key.PublicKey())
		return printValue(cmd, keyCmdResponse{
			Address: addr.String(),
			Bech32:  cli.FormatAddress(addr),
		})
	},
}

type keyCmdResponse struct {
	Path    string `json:"path,omitempty"`
	Address string `json:"address"`
	Bech32  string `json:"bech32"`
}

func (r keyCmdResponse) String() string {
	s := fmt.Sprintf("%s (%s)", r.Bech32, r.Address)
	if r.Path != "" {
		s = fmt.Sprintf("saved key to %s\n%s", r.Path, s)
	}
	return s
}

func init() {
	keyGenerateCmd.Flags().String("path", "", "Where to save the key (defaults to the config directory)")
	keyCmd.AddCommand(keyGenerateCmd, keyAddressCmd)
	rootCmd.AddCommand(keyCmd)
}
