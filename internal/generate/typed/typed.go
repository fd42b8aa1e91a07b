// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package typed generates builders whose completeness is checked by the compiler.
//
// For every record it emits four fragments: the builder type with its
// constructor, the presence-resolution helper, one setter per included field,
// and the finalizer. Setters and the finalizer are package-level generic
// functions because Go methods can neither declare type parameters nor
// specialise their receiver's type arguments.
package typed

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/dacolabs/buildergen/internal/typestate"
)

//go:embed typed.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("typed").Funcs(generate.Funcs).ParseFS(tmplFS, "typed.go.tmpl"))

// Generator emits compile-time checked builders.
type Generator struct{}

// Name returns the generator's identifier.
func (g *Generator) Name() string {
	return "typed"
}

// Generate renders the builders of every record in unit.
func (g *Generator) Generate(unit *schema.Unit) ([]byte, error) {
	plans := make([]*typestate.Plan, 0, len(unit.Records))
	for _, r := range unit.Records {
		plan, err := typestate.Encode(r)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := typestate.CheckUnit(plans); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	for _, plan := range plans {
		fragments, err := Fragments(plan)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", plan.Record.Name, err)
		}
		for _, f := range fragments {
			body.WriteString(f)
			body.WriteString("\n")
		}
	}

	return generate.RenderFile(unit, body.Bytes(), schema.Import{Path: typestate.ShapeImport})
}

// Fragments renders the four independent pieces of one record's builder:
// declaration and constructor, presence helper, setters, finalizer.
func Fragments(plan *typestate.Plan) ([]string, error) {
	builder, err := Builder(plan)
	if err != nil {
		return nil, err
	}
	helper, err := Helper(plan)
	if err != nil {
		return nil, err
	}
	setters, err := Setters(plan)
	if err != nil {
		return nil, err
	}
	finalizer, err := Finalizer(plan)
	if err != nil {
		return nil, err
	}
	return []string{builder, helper, setters, finalizer}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
