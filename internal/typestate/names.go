// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typestate

import (
	"go/ast"
	"go/parser"

	"github.com/dacolabs/buildergen/internal/schema"
)

// minted is an identifier the generator introduces, with the place to blame for it.
type minted struct {
	name string
	pos  schema.Position
	what string
}

// Minted returns every package-level identifier the plan introduces.
func (p *Plan) Minted() []string {
	var names []string
	for _, m := range p.packageLevel() {
		names = append(names, m.name)
	}
	return names
}

func (p *Plan) packageLevel() []minted {
	r := p.Record
	names := []minted{
		{r.BuilderName(), r.Pos, "builder type"},
		{r.ConstructorName(), r.Pos, "builder constructor"},
		{r.FinalizerName(), r.Pos, "finalizer"},
		{r.PresenceName(), r.Pos, "presence constraint"},
		{r.ResolveName(), r.Pos, "presence resolver"},
	}
	for _, s := range p.Slots {
		names = append(names, minted{r.SetterName(s.Field), s.Field.Pos, "setter"})
		if s.Conversion == Convert {
			names = append(names, minted{r.ConvertSetterName(s.Field), s.Field.Pos, "converting setter"})
		}
	}
	return names
}

// checkIdentifiers verifies the minted identifiers are distinct from each
// other and from what the record declares or refers to, and that the
// finalizer's per-field locals shadow nothing the finalizer still needs.
func checkIdentifiers(p *Plan) error {
	r := p.Record
	var diags schema.Diagnostics

	// identifiers the record declares or its types refer to
	referenced := map[string]struct{}{r.Name: {}}
	for _, tp := range r.TypeParams {
		referenced[tp.Name] = struct{}{}
		if expr, err := schema.ParseType(tp.Constraint); err == nil {
			for _, id := range schema.TypeIdents(expr) {
				referenced[id] = struct{}{}
			}
		}
	}
	for _, f := range r.Fields {
		if expr, err := schema.ParseType(f.Type); err == nil {
			for _, id := range schema.TypeIdents(expr) {
				referenced[id] = struct{}{}
			}
		}
	}

	mintedNames := p.packageLevel()
	for _, s := range p.Slots {
		mintedNames = append(mintedNames, minted{s.Generic, s.Field.Pos, "slot type parameter"})
	}
	mintedNames = append(mintedNames,
		minted{BuilderParam, r.Pos, "builder parameter"},
		minted{ValueParam, r.Pos, "setter parameter"},
		minted{ShapePackage, r.Pos, "runtime import"},
	)

	seen := make(map[string]minted, len(mintedNames))
	for _, m := range mintedNames {
		if prev, dup := seen[m.name]; dup {
			diags.Add(m.pos, "record %s: generated %s %s collides with generated %s", r.Name, m.what, m.name, prev.what)
			continue
		}
		seen[m.name] = m
		if _, clash := referenced[m.name]; clash {
			diags.Add(m.pos, "record %s: generated %s %s collides with an identifier used by the record", r.Name, m.what, m.name)
		}
	}

	// Finalizer locals carry field names and live alongside the builder
	// parameter, the resolver and every type named in the record.
	for _, f := range r.Fields {
		switch {
		case f.Name == BuilderParam || f.Name == r.ResolveName() || f.Name == ShapePackage:
			diags.Add(f.Pos, "record %s: field %s shadows a generated identifier in the finalizer", r.Name, f.Name)
		default:
			if _, clash := referenced[f.Name]; clash {
				diags.Add(f.Pos, "record %s: field %s shadows an identifier used by the record's types", r.Name, f.Name)
			}
		}
		if f.Default != "" && refersTo(f.Default, BuilderParam) {
			diags.Add(f.Pos, "record %s: default of field %s refers to the generated builder parameter %s", r.Name, f.Name, BuilderParam)
		}
	}

	return diags.Err()
}

func refersTo(src, name string) bool {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return false
	}
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			ast.Inspect(n.X, func(n ast.Node) bool {
				if id, ok := n.(*ast.Ident); ok && id.Name == name {
					found = true
				}
				return !found
			})
			return false
		case *ast.KeyValueExpr:
			// struct literal keys name fields, not variables
			ast.Inspect(n.Value, func(n ast.Node) bool {
				if id, ok := n.(*ast.Ident); ok && id.Name == name {
					found = true
				}
				return !found
			})
			return false
		case *ast.Ident:
			if n.Name == name {
				found = true
			}
		}
		return !found
	})
	return found
}

// CheckUnit reports package-level identifiers minted by more than one record
// of the same unit, and minted identifiers that collide with another record's name.
func CheckUnit(plans []*Plan) error {
	var diags schema.Diagnostics
	records := make(map[string]*schema.Record, len(plans))
	for _, p := range plans {
		records[p.Record.Name] = p.Record
	}

	owner := make(map[string]*schema.Record)
	for _, p := range plans {
		for _, m := range p.packageLevel() {
			if other, ok := records[m.name]; ok && other != p.Record {
				diags.Add(m.pos, "record %s: generated %s %s collides with record %s", p.Record.Name, m.what, m.name, other.Name)
				continue
			}
			if prev, dup := owner[m.name]; dup && prev != p.Record {
				diags.Add(m.pos, "record %s: generated %s %s is also generated for record %s", p.Record.Name, m.what, m.name, prev.Name)
				continue
			}
			owner[m.name] = p.Record
		}
	}
	return diags.Err()
}
