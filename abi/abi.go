// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import (
	"encoding/json"

	"github.com/ava-labs/intvm/counter"
)

const (
	functionType = "function"
	valueParam   = "value"

	mutabilityView       = "view"
	mutabilityNonPayable = "nonpayable"
)

// ABI is the Solidity JSON ABI of the counter methods.
type ABI []Entry

// Entry describes one function.
type Entry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []Argument `json:"inputs"`
	Outputs         []Argument `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

type Argument struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewABI describes [methods] in declaration order. Getters are view
// functions and everything else is nonpayable.
func NewABI(methods []*counter.Method) ABI {
	a := make(ABI, 0, len(methods))
	for _, m := range methods {
		e := Entry{
			Type:            functionType,
			Name:            m.Name,
			Inputs:          []Argument{},
			Outputs:         []Argument{},
			StateMutability: mutabilityNonPayable,
		}
		if !m.Op.Mutates() {
			e.StateMutability = mutabilityView
		}
		for _, k := range m.Inputs() {
			e.Inputs = append(e.Inputs, Argument{Name: valueParam, Type: k.String()})
		}
		for _, k := range m.Outputs() {
			e.Outputs = append(e.Outputs, Argument{Type: k.String()})
		}
		a = append(a, e)
	}
	return a
}

// JSON returns the indented JSON form of a, as served to clients.
func (a ABI) JSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
