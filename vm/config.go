// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

type Config struct {
	// LockmapSize is the initial capacity of the per-instance and
	// per-signer lock tables.
	LockmapSize int `yaml:"lockmapSize"`
}

func NewConfig() Config {
	return Config{
		LockmapSize: 1_024,
	}
}
