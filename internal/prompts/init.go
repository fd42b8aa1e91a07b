// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// InitAnswers holds the values collected by RunInitForm.
type InitAnswers struct {
	Mode       string
	Input      string
	Types      string // comma separated
	Output     string
	FixImports bool
}

// RunInitForm runs the interactive form for the init command. Fields of
// answers that are already set are used as defaults.
func RunInitForm(answers *InitAnswers, modes []string) error {
	return huh.NewForm(
		huh.NewGroup(
			ModeSelect(&answers.Mode, modes),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Record description").
				Description("Go source, YAML/JSON document, JSON Schema or HCL file").
				Placeholder("models/user.go").
				Validate(requiredValidator("input path")).
				Value(&answers.Input),
			huh.NewInput().
				Title("Records").
				Description("Comma separated; empty selects every annotated record").
				Validate(recordListValidator()).
				Value(&answers.Types),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Placeholder("next to each input").
				Value(&answers.Output),
			huh.NewConfirm().
				Title("Let goimports fix imports?").
				Value(&answers.FixImports),
		),
	).WithTheme(Theme()).Run()
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
