// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/intvm/cli/prompt"
	"github.com/ava-labs/intvm/client"
	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/utils"
)

var readCmd = &cobra.Command{
	Use:   "read [method] [args...]",
	Short: "Run a method without creating a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMethod(cmd, args, false)
	},
}

var callCmd = &cobra.Command{
	Use:   "call [method] [args...]",
	Short: "Call a method in a signed transaction and wait for its receipt",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMethod(cmd, args, true)
	},
}

// resolveMethod picks the method and its arguments from [args], prompting
// for anything missing unless JSON output was requested.
func resolveMethod(cmd *cobra.Command, c *client.Client, args []string) (*counter.Method, []*big.Int, error) {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return nil, nil, err
	}

	var m *counter.Method
	if len(args) == 0 {
		if isJSON {
			return nil, nil, errors.New("method name is required")
		}
		m, err = prompt.Method(counter.New().Methods())
		if err != nil {
			return nil, nil, err
		}
	} else {
		m, err = c.Codec().Method(args[0])
		if err != nil {
			return nil, nil, err
		}
		args = args[1:]
	}

	inputs := m.Inputs()
	if len(args) == 0 && len(inputs) > 0 && !isJSON {
		values := make([]*big.Int, len(inputs))
		for i, k := range inputs {
			values[i], err = prompt.Int("value", k)
			if err != nil {
				return nil, nil, err
			}
		}
		return m, values, nil
	}
	values, err := c.Codec().ParseArgs(m.Name, args)
	if err != nil {
		return nil, nil, err
	}
	return m, values, nil
}

func runMethod(cmd *cobra.Command, args []string, write bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	c, err := newClient(cmd, true)
	if err != nil {
		return err
	}
	m, values, err := resolveMethod(cmd, c, args)
	if err != nil {
		return err
	}
	if write && len(args) == 0 {
		cont, err := prompt.Continue()
		if err != nil || !cont {
			return err
		}
	}

	var results []*big.Int
	if write {
		results, err = c.Write(ctx, m.Name, values...)
	} else {
		results, err = c.Read(ctx, m.Name, values...)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", m.Name, err)
	}

	return printValue(cmd, methodCmdResponse{
		Method:  m.Name,
		Results: utils.Map((*big.Int).String, results),
	})
}

type methodCmdResponse struct {
	Method  string   `json:"method"`
	Results []string `json:"results"`
}

func (r methodCmdResponse) String() string {
	if len(r.Results) == 0 {
		return r.Method + ": ok"
	}
	return r.Method + ": " + strings.Join(r.Results, ", ")
}

func init() {
	rootCmd.AddCommand(readCmd, callCmd)
}
