// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/intn"
	"github.com/ava-labs/intvm/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
)

func String(label string) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(strings.TrimSpace(input)) == 0 {
				return ErrInputEmpty
			}
			return nil
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ParseInt parses a decimal or 0x-prefixed integer and checks it fits [k].
func ParseInt(k intn.Kind, input string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(input), 0)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", input)
	}
	if !k.Fits(x) {
		return nil, fmt.Errorf("%w: %s does not fit %s", intn.ErrOutOfRange, x, k)
	}
	return x, nil
}

// Int asks for a value of kind [k].
func Int(label string, k intn.Kind) (*big.Int, error) {
	promptText := promptui.Prompt{
		Label: fmt.Sprintf("%s (%s)", label, k),
		Validate: func(input string) error {
			_, err := ParseInt(k, input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return nil, err
	}
	return ParseInt(k, raw)
}

// Method asks which method of [methods] to call.
func Method(methods []*counter.Method) (*counter.Method, error) {
	if len(methods) == 0 {
		return nil, ErrInvalidChoice
	}
	items := make([]string, len(methods))
	for i, m := range methods {
		items[i] = m.Name
	}
	sel := promptui.Select{
		Label: "method",
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	index, _, err := sel.Run()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(methods) {
		return nil, ErrIndexOutOfRange
	}
	return methods[index], nil
}

func Continue() (bool, error) {
	promptText := promptui.Prompt{
		Label: "continue (y/n)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			lower := strings.ToLower(input)
			if lower == "y" || lower == "n" {
				return nil
			}
			return ErrInvalidChoice
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	cont := strings.ToLower(rawContinue)
	if cont == "n" {
		utils.Outf("{{red}}exiting...{{/}}\n")
		return false, nil
	}
	return true, nil
}
