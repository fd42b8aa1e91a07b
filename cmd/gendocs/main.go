// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Command gendocs generates reference documentation for the buildergen CLI.
//
// Usage:
//
//	go run ./cmd/gendocs [output-dir] [--format markdown|man|yaml]
//
// Default output directory is ./docs/cli.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/buildergen/cmd/internal"
	"github.com/dacolabs/buildergen/internal/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	if err := newGenDocsCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newGenDocsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:          "gendocs [output-dir]",
		Short:        "Generate buildergen CLI reference documentation",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./docs/cli"
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}

			root := commands.NewRootCmd(internal.Generators())
			root.DisableAutoGenTag = true
			if err := writeDocs(root, format, dir); err != nil {
				return err
			}
			cmd.Printf("Documentation generated in %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format (markdown, man, yaml)")
	return cmd
}

func writeDocs(root *cobra.Command, format, dir string) error {
	switch format {
	case "markdown":
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			return fmt.Errorf("failed to generate markdown: %w", err)
		}
		// the root page doubles as the index
		oldPath := filepath.Join(dir, root.Name()+".md")
		newPath := filepath.Join(dir, "index.md")
		if err := os.Rename(oldPath, newPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rename %s to %s: %w", oldPath, newPath, err)
		}
		return nil
	case "man":
		header := &doc.GenManHeader{Title: "BUILDERGEN", Section: "1", Source: "buildergen"}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}
		return nil
	case "yaml":
		if err := doc.GenYamlTree(root, dir); err != nil {
			return fmt.Errorf("failed to generate yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected markdown, man or yaml)", format)
	}
}
