// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"strings"

	"github.com/dacolabs/buildergen/internal/config"
	"github.com/dacolabs/buildergen/internal/extract"
	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/dacolabs/buildergen/internal/session"
	"github.com/dacolabs/buildergen/internal/typestate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspectOptions struct {
	mode  string
	types []string
	all   bool
	from  string
	pkg   string
}

// inspectUnit is the YAML view of a normalized unit and its builders.
type inspectUnit struct {
	Source  string          `yaml:"source"`
	Package string          `yaml:"package"`
	Mode    string          `yaml:"mode"`
	Imports []string        `yaml:"imports,omitempty"`
	Records []inspectRecord `yaml:"records"`
}

type inspectRecord struct {
	Name        string         `yaml:"name"`
	TypeParams  []string       `yaml:"typeParams,omitempty"`
	Builder     string         `yaml:"builder"`
	Constructor string         `yaml:"constructor"`
	Initial     string         `yaml:"initial,omitempty"`
	Finalizer   string         `yaml:"finalizer"`
	Fields      []inspectField `yaml:"fields"`
	// Minted lists the package-level identifiers a typed builder declares.
	Minted []string `yaml:"minted,omitempty"`
}

type inspectField struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Required   bool   `yaml:"required,omitempty"`
	Default    string `yaml:"default,omitempty"`
	Excluded   bool   `yaml:"excluded,omitempty"`
	Slot       string `yaml:"slot,omitempty"`
	Setter     string `yaml:"setter,omitempty"`
	From       string `yaml:"from,omitempty"`
	Conversion string `yaml:"conversion,omitempty"`
}

func newInspectCmd(generators generate.Register) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Show the records of an input and the builders they would get",
		Long: `Show the normalized records of an input as YAML together with the
identifiers their builders declare: one type parameter slot and one setter per
included field, the required fields and the defaults of the optional ones.
Typed builders also list every package-level identifier they declare.

The input is validated exactly as generate does, so identifier collisions are
reported without writing anything.`,
		Example: `  # Inspect the annotated structs of a file
  buildergen inspect models/user.go

  # Inspect one record of a JSON Schema as a checked builder
  buildergen inspect --mode checked --type Person person.schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, generators, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", fmt.Sprintf("Builder mode (%s)", strings.Join(generators.Available(), ", ")))
	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "Records to inspect, comma-separated")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Go source: inspect every struct, not only annotated ones")
	cmd.Flags().StringVar(&opts.from, "from", "", fmt.Sprintf("Input format (%s)", formatNames()))
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package for inputs that do not name one")

	return cmd
}

func runInspect(cmd *cobra.Command, generators generate.Register, opts *inspectOptions, input string) error {
	sess, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	mode := sess.Config.Mode
	if cmd.Flags().Changed("mode") {
		mode = opts.mode
	}
	gen, err := generators.Get(mode)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(generators.Available(), ", "))
	}

	format, err := parseFrom(opts.from)
	if err != nil {
		return err
	}
	unit, err := extract.Load(input, extract.Options{
		Format:  format,
		Types:   opts.types,
		All:     opts.all,
		Package: opts.pkg,
	})
	if err != nil {
		return err
	}
	if _, err := gen.Generate(unit); err != nil {
		return err
	}

	view, err := inspect(unit, mode)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

func inspect(unit *schema.Unit, mode string) (*inspectUnit, error) {
	view := &inspectUnit{Source: unit.Source, Package: unit.Package, Mode: mode}
	for _, imp := range unit.Imports {
		view.Imports = append(view.Imports, strings.TrimSpace(imp.Name+" "+imp.Path))
	}

	for _, r := range unit.Records {
		plan, err := typestate.Encode(r)
		if err != nil {
			return nil, err
		}

		rec := inspectRecord{
			Name:        r.Name,
			TypeParams:  plan.RecordParams(),
			Builder:     r.BuilderName(),
			Constructor: r.ConstructorName(),
		}
		if mode == config.ModeChecked {
			rec.Finalizer = r.BuilderName() + ".Build"
		} else {
			rec.Initial = plan.BuilderType(typestate.Unset)
			rec.Finalizer = r.FinalizerName()
			rec.Minted = plan.Minted()
		}

		slots := make(map[string]typestate.Slot, len(plan.Slots))
		for _, s := range plan.Slots {
			slots[s.Field.Name] = s
		}
		for _, f := range r.Fields {
			field := inspectField{
				Name:     f.Name,
				Type:     f.Type,
				Required: f.Required(),
				Excluded: f.Exclude,
			}
			if f.HasDefault {
				field.Default = f.DefaultExpr()
			}
			if s, ok := slots[f.Name]; ok {
				if mode == config.ModeChecked {
					field.Setter = r.BuilderName() + "." + f.Name
				} else {
					field.Slot = s.Generic
					field.Setter = r.SetterName(f)
					field.Conversion = conversionName(s.Conversion)
					if s.Conversion == typestate.Convert {
						field.From = r.ConvertSetterName(f)
					}
				}
			}
			rec.Fields = append(rec.Fields, field)
		}
		view.Records = append(view.Records, rec)
	}
	return view, nil
}

func conversionName(c typestate.Conversion) string {
	if c == typestate.Convert {
		return "convert"
	}
	return "assign"
}
