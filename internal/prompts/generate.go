// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ModeSelect returns a select field for choosing the builder mode.
func ModeSelect(value *string, modes []string) *huh.Select[string] {
	options := make([]huh.Option[string], len(modes))
	for i, m := range modes {
		options[i] = huh.NewOption(m, m)
	}
	return huh.NewSelect[string]().
		Title("Builder mode").
		Options(options...).
		Value(value)
}

// RunRecordSelect asks which of the records found in input get a builder.
// The returned slice is never empty.
func RunRecordSelect(input string, records []string) ([]string, error) {
	selected := append([]string(nil), records...)
	options := make([]huh.Option[string], len(records))
	for i, r := range records {
		options[i] = huh.NewOption(r, r).Selected(true)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Records of " + input).
				Options(options...).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("select at least one record")
					}
					return nil
				}).
				Value(&selected),
		),
	).WithTheme(Theme()).Run()
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// RunModeSelect asks for the builder mode.
func RunModeSelect(value *string, modes []string) error {
	return huh.NewForm(huh.NewGroup(ModeSelect(value, modes))).WithTheme(Theme()).Run()
}
