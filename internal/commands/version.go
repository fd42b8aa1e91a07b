// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/dacolabs/buildergen/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newVersionCmd() *cobra.Command {
	var short, asYAML bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the buildergen version",
		Example: `  # Show version, commit and build date
  buildergen version

  # Show only the version
  buildergen version --short`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case short:
				_, err := fmt.Fprintln(out, version.Short())
				return err
			case asYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				return enc.Encode(version.Get())
			default:
				_, err := fmt.Fprintln(out, version.Info())
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print build information as YAML")
	cmd.MarkFlagsMutuallyExclusive("short", "yaml")
	return cmd
}
