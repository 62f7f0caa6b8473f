// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

// FlagValidatorType checks a single flag value.
type FlagValidatorType func(any) error

// FlagValidators runs validators against value in order and returns the first
// error.
func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks cross-flag constraints before a command runs.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if !hasFlag(c, "padding") {
		return nil
	}
	if c.Int("padding") < 0 {
		return fmt.Errorf("--padding must not be negative")
	}
	return nil
}

// OutputValidator accepts the supported --output formats.
func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml", "markdown", "hcl"}
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// ConcurrencyValidator bounds --concurrency to 1..64.
func ConcurrencyValidator(value any) error {
	n, _ := value.(int)
	if n < 1 || n > 64 {
		return fmt.Errorf("must be between 1 and 64")
	}
	return nil
}

func hasFlag(c *cli.Command, name string) bool {
	for _, f := range c.Flags {
		if slices.Contains(f.Names(), name) {
			return true
		}
	}
	return false
}
