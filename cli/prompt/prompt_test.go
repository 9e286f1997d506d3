// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/intvm/intn"
)

func TestParseInt(t *testing.T) {
	i8 := intn.Kind{Bits: 8, Signed: true}
	u24 := intn.Kind{Bits: 24}

	tests := []struct {
		kind  intn.Kind
		input string
		want  *big.Int
		err   error
	}{
		{kind: i8, input: "-128", want: big.NewInt(-128)},
		{kind: i8, input: " 127 ", want: big.NewInt(127)},
		{kind: i8, input: "128", err: intn.ErrOutOfRange},
		{kind: u24, input: "0xffffff", want: big.NewInt(0xffffff)},
		{kind: u24, input: "-1", err: intn.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.input, func(t *testing.T) {
			got, err := ParseInt(tt.kind, tt.input)
			require.ErrorIs(t, err, tt.err)
			if tt.err == nil {
				require.Equal(t, tt.want, got)
			}
		})
	}

	_, err := ParseInt(i8, "ten")
	require.ErrorContains(t, err, "not an integer")
}
