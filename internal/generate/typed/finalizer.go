// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typed

import (
	"fmt"

	"github.com/dacolabs/buildergen/internal/typestate"
)

type finalizerData struct {
	Doc      string
	Name     string
	Params   string
	Input    string
	Record   string
	Bindings []binding
	Fields   []string
}

type binding struct {
	Name string
	Type string // set for excluded fields, whose default alone fixes no type
	Expr string
}

// Finalizer renders the function that turns a complete builder into the record.
//
// Required slots are pinned to their set shape in the parameter type, so a
// builder missing one does not type-check. Optional slots stay generic,
// bounded by the presence constraint, and resolve against their default.
// Fields bind in declaration order, which lets a default refer to the
// locals of the fields declared before it.
func Finalizer(plan *typestate.Plan) (string, error) {
	r := plan.Record

	params := plan.RecordParams()
	slots := make(map[int]typestate.Slot, len(plan.Slots))
	for _, s := range plan.Slots {
		slots[s.Field.Index] = s
		if !s.Field.Required() {
			params = append(params, fmt.Sprintf("%s %s[%s]", s.Generic, r.PresenceName(), s.Field.Type))
		}
	}

	bindings := make([]binding, 0, len(r.Fields))
	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		var expr string
		switch s, included := slots[f.Index]; {
		case !included:
			bindings = append(bindings, binding{Name: f.Name, Type: f.Type, Expr: f.DefaultExpr()})
			fields = append(fields, f.Name)
			continue
		case f.HasDefault:
			expr = fmt.Sprintf("%s[%s](%s.%s, func() %s { return %s })",
				r.ResolveName(), f.Type, typestate.BuilderParam, s.Storage, f.Type, f.DefaultExpr())
		default:
			expr = typestate.BuilderParam + "." + s.Storage + ".Value()"
		}
		bindings = append(bindings, binding{Name: f.Name, Expr: expr})
		fields = append(fields, f.Name)
	}

	return render("finalizer", finalizerData{
		Doc:    finalizerDoc(plan),
		Name:   r.FinalizerName(),
		Params: typestate.TypeList(params),
		Input: plan.BuilderType(func(s typestate.Slot) string {
			if s.Field.Required() {
				return s.Set
			}
			return s.Generic
		}),
		Record:   plan.RecordType(),
		Bindings: bindings,
		Fields:   fields,
	})
}

func finalizerDoc(plan *typestate.Plan) string {
	r := plan.Record
	if r.Options.BuildDoc != "" {
		return r.Options.BuildDoc
	}
	doc := fmt.Sprintf("%s finalises the builder and creates its %s instance.", r.FinalizerName(), r.Name)
	if !r.Options.NoDoc {
		doc += "\nIt only compiles once every required field has been set."
	}
	return doc
}
