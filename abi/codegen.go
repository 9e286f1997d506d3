// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import (
	"fmt"
	"strings"
)

// GenerateSolidity renders a as a Solidity interface named [name]. Clients
// built on human-readable ABIs can consume it directly.
func GenerateSolidity(a ABI, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("interface %s {\n", name))
	for _, e := range a {
		params := make([]string, 0, len(e.Inputs))
		for _, in := range e.Inputs {
			params = append(params, fmt.Sprintf("%s %s", in.Type, in.Name))
		}
		sb.WriteString(fmt.Sprintf("    function %s(%s) external", e.Name, strings.Join(params, ", ")))
		if e.StateMutability == mutabilityView {
			sb.WriteString(" view")
		}
		if len(e.Outputs) > 0 {
			returns := make([]string, 0, len(e.Outputs))
			for _, out := range e.Outputs {
				returns = append(returns, out.Type)
			}
			sb.WriteString(fmt.Sprintf(" returns (%s)", strings.Join(returns, ", ")))
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
