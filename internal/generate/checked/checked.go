// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package checked generates chainable builders that verify completeness when
// Build runs instead of at compile time.
package checked

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/dacolabs/buildergen/internal/typestate"
)

//go:embed checked.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("checked").Funcs(generate.Funcs).ParseFS(tmplFS, "checked.go.tmpl"))

// Tracker is the builder field holding the shape.Presence tracker.
const Tracker = "_presence"

// Generator emits runtime-checked builders.
type Generator struct{}

// Name returns the generator's identifier.
func (g *Generator) Name() string {
	return "checked"
}

// Generate renders a builder with one setter method per included field and a
// Build method for every record in unit.
func (g *Generator) Generate(unit *schema.Unit) ([]byte, error) {
	plans := make([]*typestate.Plan, 0, len(unit.Records))
	for _, r := range unit.Records {
		// Shares the typed mode's identifier rules so a record can switch modes.
		plan, err := typestate.Encode(r)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := typestate.CheckUnit(plans); err != nil {
		return nil, err
	}

	var diags schema.Diagnostics
	for _, plan := range plans {
		checkMethods(plan, &diags)
	}
	if err := diags.Err(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	for _, plan := range plans {
		if err := tmpl.ExecuteTemplate(&body, "record", newRecordData(plan)); err != nil {
			return nil, fmt.Errorf("failed to execute template for record %s: %w", plan.Record.Name, err)
		}
		body.WriteString("\n")
	}

	return generate.RenderFile(unit, body.Bytes(), schema.Import{Path: typestate.ShapeImport})
}

type recordData struct {
	ConstructorDoc string
	Constructor    string
	TypeDoc        string
	BuilderName    string
	Builder        string // instantiated with the record's own parameters
	Params         string
	Tracker        string
	Setters        []setter
	BuildDoc       string
	RecordName     string
	Record         string
	Required       []setter
	Bindings       []binding
	Fields         []string
}

type setter struct {
	Doc     string
	Field   string
	Method  string
	Storage string
	Type    string
}

type binding struct {
	Name string
	Type string // set for excluded fields, whose default alone fixes no type
	Expr string
}

func newRecordData(plan *typestate.Plan) recordData {
	r := plan.Record
	data := recordData{
		ConstructorDoc: constructorDoc(r),
		Constructor:    r.ConstructorName(),
		TypeDoc:        typeDoc(r),
		BuilderName:    r.BuilderName(),
		Builder:        r.BuilderName() + typestate.TypeList(plan.RecordArgs()),
		Params:         typestate.TypeList(plan.RecordParams()),
		Tracker:        Tracker,
		BuildDoc:       buildDoc(r),
		RecordName:     r.Name,
		Record:         plan.RecordType(),
	}

	setters := make(map[int]setter, len(plan.Slots))
	for _, s := range plan.Slots {
		st := setter{
			Doc:     setterDoc(r, s.Field),
			Field:   s.Field.Name,
			Method:  s.Field.Name,
			Storage: storageName(s.Field),
			Type:    s.Field.Type,
		}
		setters[s.Field.Index] = st
		data.Setters = append(data.Setters, st)
		if s.Field.Required() {
			data.Required = append(data.Required, st)
		}
	}

	for _, f := range r.Fields {
		var expr string
		switch st, included := setters[f.Index]; {
		case !included:
			data.Bindings = append(data.Bindings, binding{Name: f.Name, Type: f.Type, Expr: f.DefaultExpr()})
			data.Fields = append(data.Fields, f.Name)
			continue
		case f.HasDefault:
			expr = fmt.Sprintf("b.%s.Or(func() %s { return %s })", st.Storage, f.Type, f.DefaultExpr())
		default:
			expr = "b." + st.Storage + ".Get()"
		}
		data.Bindings = append(data.Bindings, binding{Name: f.Name, Expr: expr})
		data.Fields = append(data.Fields, f.Name)
	}
	return data
}

// storageName keeps slot fields apart from the setter methods, which carry
// the field names themselves.
func storageName(f *schema.Field) string {
	return "_" + f.Name
}

// checkMethods reports fields whose setter method or storage would clash
// with the Build method or the presence tracker.
func checkMethods(plan *typestate.Plan, diags *schema.Diagnostics) {
	r := plan.Record
	for _, s := range plan.Slots {
		switch {
		case s.Field.Name == "Build":
			diags.Add(s.Field.Pos, "record %s: field Build clashes with the generated Build method", r.Name)
		case storageName(s.Field) == Tracker:
			diags.Add(s.Field.Pos, "record %s: field %s clashes with the generated presence tracker", r.Name, s.Field.Name)
		}
	}
}

func constructorDoc(r *schema.Record) string {
	if r.Options.BuilderDoc != "" {
		return r.Options.BuilderDoc
	}
	return fmt.Sprintf("%s creates a builder for %s. Chain its setters, then call Build.", r.ConstructorName(), r.Name)
}

func typeDoc(r *schema.Record) string {
	if r.Options.BuilderTypeDoc != "" {
		return r.Options.BuilderTypeDoc
	}
	if r.Options.NoDoc {
		return fmt.Sprintf("%s builds %s instances.", r.BuilderName(), r.Name)
	}
	return fmt.Sprintf("%s builds %s instances.\nMissing required fields and fields set twice are reported by Build.", r.BuilderName(), r.Name)
}

func setterDoc(r *schema.Record, f *schema.Field) string {
	if f.Doc != "" {
		return f.Name + " sets " + f.Name + ".\n\n" + f.Doc
	}
	if f.Required() || r.Options.NoDoc {
		return fmt.Sprintf("%s sets the %s field.", f.Name, f.Name)
	}
	return fmt.Sprintf("%s sets the %s field. It is optional and defaults to %s.", f.Name, f.Name, f.DefaultExpr())
}

func buildDoc(r *schema.Record) string {
	if r.Options.BuildDoc != "" {
		return r.Options.BuildDoc
	}
	return fmt.Sprintf("Build creates the %s, or returns a *shape.IncompleteError naming every\nmissing required field and every field set more than once.", r.Name)
}
