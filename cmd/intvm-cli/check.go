// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/cli"
	"github.com/ava-labs/intvm/client"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/crypto/ed25519"
	"github.com/ava-labs/intvm/utils"
)

var errChecksFailed = errors.New("checks failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Deploy a fresh instance and run the scenario checks against every slot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		parallelism, err := cmd.Flags().GetInt("parallelism")
		if err != nil {
			return err
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		deployer, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		contract, err := deployer.Deploy(ctx)
		if err != nil {
			return fmt.Errorf("failed to deploy: %w", err)
		}
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return err
		}

		// Each slot check signs with its own throwaway key so nonces never
		// contend.
		newCounter := func() (cli.Counter, error) {
			priv, err := ed25519.GeneratePrivateKey()
			if err != nil {
				return nil, err
			}
			c, err := client.New(endpoint, priv)
			if err != nil {
				return nil, err
			}
			c.SetContract(contract)
			return c, nil
		}
		results, err := cli.RunChecks(ctx, counter.New(), newCounter, parallelism)
		if err != nil {
			return err
		}
		out := checkCmdResponse{Contract: contract.String(), Results: results}
		if err := printValue(cmd, out); err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				return errChecksFailed
			}
		}
		return nil
	},
}

type checkCmdResponse struct {
	Contract string             `json:"contract"`
	Results  []*cli.CheckResult `json:"results"`
}

func (r checkCmdResponse) String() string {
	var b strings.Builder
	b.WriteString(utils.Sprintf("{{cyan}}contract:{{/}} %s\n", r.Contract))
	for _, res := range r.Results {
		if res.Err != nil {
			b.WriteString(utils.Sprintf("{{red}}FAIL{{/}} %-8s %s\n", res.Slot, res.Error))
			continue
		}
		b.WriteString(utils.Sprintf("{{green}}PASS{{/}} %-8s steps=%d in %s\n", res.Slot, res.Steps, res.Duration.Round(time.Millisecond)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func init() {
	checkCmd.Flags().Int("parallelism", 4, "Number of slots checked concurrently")
	checkCmd.Flags().Duration("timeout", 5*time.Minute, "Overall timeout")
	rootCmd.AddCommand(checkCmd)
}
