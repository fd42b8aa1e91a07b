// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dacolabs/buildergen/internal/schema"
	"gopkg.in/yaml.v3"
)

// Parser decodes a record document.
type Parser struct {
	validate func(src []byte) error
}

var (
	// JSON parses record documents written in JSON.
	JSON = Parser{validateJSON}
	// YAML parses record documents written in YAML.
	YAML = Parser{func([]byte) error { return nil }}
)

// JSON documents are decoded through the YAML parser, which accepts them and
// keeps line and column information, once encoding/json agrees they are JSON.
func validateJSON(src []byte) error {
	var v any
	if err := json.Unmarshal(src, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Parse decodes a record document into a unit. Duplicate keys are reported
// as diagnostics with their position.
func (p Parser) Parse(path string, src []byte) (*schema.Unit, error) {
	if err := p.validate(src); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var diags schema.Diagnostics
	checkDuplicateKeys(path, &root, &diags)
	if err := diags.Err(); err != nil {
		return nil, err
	}

	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw.unit(path), nil
}

func checkDuplicateKeys(path string, n *yaml.Node, diags *schema.Diagnostics) {
	if n.Kind == yaml.MappingNode {
		seen := make(map[string]*yaml.Node, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if prev, dup := seen[key.Value]; dup {
				diags.Add(schema.Position{File: path, Line: key.Line, Column: key.Column},
					"duplicate key %q (first defined at line %d)", key.Value, prev.Line)
				continue
			}
			seen[key.Value] = key
		}
	}
	for _, c := range n.Content {
		checkDuplicateKeys(path, c, diags)
	}
}

type rawDocument struct {
	Package string      `yaml:"package" json:"package"`
	Imports []string    `yaml:"imports,omitempty" json:"imports,omitempty"`
	Records []rawRecord `yaml:"records" json:"records"`
}

type rawRecord struct {
	Name       string         `yaml:"name" json:"name"`
	Builder    string         `yaml:"builder,omitempty" json:"builder,omitempty"`
	Doc        string         `yaml:"doc,omitempty" json:"doc,omitempty"`
	NoDoc      bool           `yaml:"nodoc,omitempty" json:"nodoc,omitempty"`
	BuilderDoc string         `yaml:"builderDoc,omitempty" json:"builderDoc,omitempty"`
	TypeDoc    string         `yaml:"typeDoc,omitempty" json:"typeDoc,omitempty"`
	BuildDoc   string         `yaml:"buildDoc,omitempty" json:"buildDoc,omitempty"`
	TypeParams []rawTypeParam `yaml:"typeParams,omitempty" json:"typeParams,omitempty"`
	Fields     []rawField     `yaml:"fields" json:"fields"`

	line, column int
}

type rawTypeParam struct {
	Name       string `yaml:"name" json:"name"`
	Constraint string `yaml:"constraint" json:"constraint"`
}

type rawField struct {
	Name     string       `yaml:"name" json:"name"`
	Type     string       `yaml:"type" json:"type"`
	Default  *defaultExpr `yaml:"default,omitempty" json:"default,omitempty"`
	Optional bool         `yaml:"optional,omitempty" json:"optional,omitempty"` // zero-value default
	Exclude  bool         `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Doc      string       `yaml:"doc,omitempty" json:"doc,omitempty"`
	Tag      string       `yaml:"tag,omitempty" json:"tag,omitempty"`

	line, column int
}

// defaultExpr is a Go expression given as a document scalar. Numbers and
// booleans are taken verbatim.
type defaultExpr struct {
	expr string
}

func (d *defaultExpr) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: default must be a scalar Go expression", n.Line)
	}
	d.expr = n.Value
	return nil
}

func (r *rawRecord) UnmarshalYAML(n *yaml.Node) error {
	type plain rawRecord
	if err := n.Decode((*plain)(r)); err != nil {
		return err
	}
	r.line, r.column = n.Line, n.Column
	return nil
}

func (f *rawField) UnmarshalYAML(n *yaml.Node) error {
	type plain rawField
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line, f.column = n.Line, n.Column
	return nil
}

func (d *rawDocument) unit(path string) *schema.Unit {
	unit := &schema.Unit{
		Package:     d.Package,
		EmitRecords: true,
	}
	for _, imp := range d.Imports {
		unit.Imports = append(unit.Imports, splitImport(imp))
	}
	for _, rr := range d.Records {
		r := &schema.Record{
			Name: rr.Name,
			Doc:  rr.Doc,
			Options: schema.Options{
				BuilderName:    rr.Builder,
				NoDoc:          rr.NoDoc,
				BuilderDoc:     rr.BuilderDoc,
				BuilderTypeDoc: rr.TypeDoc,
				BuildDoc:       rr.BuildDoc,
			},
			Pos: schema.Position{File: path, Line: rr.line, Column: rr.column},
		}
		for _, tp := range rr.TypeParams {
			r.TypeParams = append(r.TypeParams, schema.TypeParam(tp))
		}
		for _, rf := range rr.Fields {
			f := &schema.Field{
				Name:    rf.Name,
				Type:    rf.Type,
				Exclude: rf.Exclude,
				Doc:     rf.Doc,
				Tag:     rf.Tag,
				Pos:     schema.Position{File: path, Line: rf.line, Column: rf.column},
			}
			switch {
			case rf.Default != nil:
				f.HasDefault = true
				f.Default = rf.Default.expr
			case rf.Optional:
				f.HasDefault = true
			}
			r.Fields = append(r.Fields, f)
		}
		unit.Records = append(unit.Records, r)
	}
	return unit
}
