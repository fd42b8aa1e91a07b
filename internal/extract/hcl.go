// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"fmt"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the top-level structure of an HCL record description.
type hclFile struct {
	Package string       `hcl:"package,optional"`
	Imports []string     `hcl:"imports,optional"`
	Records []*hclRecord `hcl:"record,block"`
}

type hclRecord struct {
	Name       string          `hcl:"name,label"`
	Builder    string          `hcl:"builder,optional"`
	Doc        string          `hcl:"doc,optional"`
	NoDoc      bool            `hcl:"nodoc,optional"`
	BuilderDoc string          `hcl:"builder_doc,optional"`
	TypeDoc    string          `hcl:"type_doc,optional"`
	BuildDoc   string          `hcl:"build_doc,optional"`
	TypeParams []*hclTypeParam `hcl:"type_param,block"`
	Fields     []*hclField     `hcl:"field,block"`
	Body       hcl.Body        `hcl:",remain"`
}

type hclTypeParam struct {
	Name       string `hcl:"name,label"`
	Constraint string `hcl:"constraint"`
}

type hclField struct {
	Name     string         `hcl:"name,label"`
	Type     string         `hcl:"type"`
	Default  hcl.Expression `hcl:"default,optional"`
	Optional bool           `hcl:"optional,optional"`
	Exclude  bool           `hcl:"exclude,optional"`
	Doc      string         `hcl:"doc,optional"`
	Tag      string         `hcl:"tag,optional"`
	Body     hcl.Body       `hcl:",remain"`
}

// parseHCL decodes record blocks:
//
//	record "User" {
//	  field "Name" { type = "string" }
//	  field "Age" {
//	    type    = "int"
//	    default = 18
//	  }
//	}
func parseHCL(path string, src []byte) (*schema.Unit, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	unit := &schema.Unit{Package: parsed.Package, EmitRecords: true}
	for _, imp := range parsed.Imports {
		unit.Imports = append(unit.Imports, splitImport(imp))
	}

	var extra hcl.Diagnostics
	for _, hr := range parsed.Records {
		extra = append(extra, emptyRemainder(hr.Body)...)
		r := &schema.Record{
			Name: hr.Name,
			Doc:  hr.Doc,
			Options: schema.Options{
				BuilderName:    hr.Builder,
				NoDoc:          hr.NoDoc,
				BuilderDoc:     hr.BuilderDoc,
				BuilderTypeDoc: hr.TypeDoc,
				BuildDoc:       hr.BuildDoc,
			},
			Pos: position(hr.Body.MissingItemRange()),
		}
		for _, tp := range hr.TypeParams {
			r.TypeParams = append(r.TypeParams, schema.TypeParam{Name: tp.Name, Constraint: tp.Constraint})
		}
		for _, hf := range hr.Fields {
			extra = append(extra, emptyRemainder(hf.Body)...)
			f := &schema.Field{
				Name:    hf.Name,
				Type:    hf.Type,
				Exclude: hf.Exclude,
				Doc:     hf.Doc,
				Tag:     hf.Tag,
				Pos:     position(hf.Body.MissingItemRange()),
			}
			def, diags := defaultSource(hf.Default)
			extra = append(extra, diags...)
			switch {
			case def != "":
				f.HasDefault = true
				f.Default = def
			case hf.Optional:
				f.HasDefault = true
			}
			r.Fields = append(r.Fields, f)
		}
		unit.Records = append(unit.Records, r)
	}
	if extra.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, extra)
	}
	return unit, nil
}

// defaultSource renders a default attribute as Go source. Strings hold a Go
// expression verbatim; numbers and bools are written as literals. An absent
// attribute yields "".
func defaultSource(expr hcl.Expression) (string, hcl.Diagnostics) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if !val.IsKnown() {
		return "", unsupportedDefault(expr, "an unknown value")
	}
	if val.IsNull() {
		return "", nil
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if val.True() {
			return "true", nil
		}
		return "false", nil
	default:
		return "", unsupportedDefault(expr, val.Type().FriendlyName())
	}
}

func unsupportedDefault(expr hcl.Expression, what string) hcl.Diagnostics {
	rng := expr.Range()
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported default",
		Detail:   fmt.Sprintf("A default must be a string holding a Go expression, a number or a bool, not %s.", what),
		Subject:  &rng,
	}}
}

// emptyRemainder rejects attributes and blocks the decoder did not consume.
func emptyRemainder(body hcl.Body) hcl.Diagnostics {
	_, diags := body.Content(&hcl.BodySchema{})
	return diags
}

func position(rng hcl.Range) schema.Position {
	return schema.Position{File: rng.Filename, Line: rng.Start.Line, Column: rng.Start.Column}
}
